package errors

import (
	"strings"
	"testing"
)

func TestValidateExportFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"default name", "exported_attributes.json", false},
		{"upper extension", "OUT.JSON", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300) + ".json", true},
		{"with path /", "dir/out.json", true},
		{"with path \\", "dir\\out.json", true},
		{"hidden file", ".out.json", true},
		{"wrong extension", "out.txt", true},
		{"control char", "out\x01.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExportFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExportFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateExportFilename(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data/equip.json", false},
		{"absolute", "/tmp/equip.json", false},

		{"empty", "", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"too long", strings.Repeat("a", 5000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
