package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/attredit/pkg/attr"
	apperrors "github.com/matzehuels/attredit/pkg/errors"
	"github.com/matzehuels/attredit/pkg/observability"
)

const sampleInput = `[
  [0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, [[3, 10], [7, 5]]],
  [0, 2]
]`

const sampleAttributes = `
- id: 3
  name: STR
- id: 7
  name: DEX
  isPercent: 1
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command and returns what it wrote to stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Cleanup(observability.Reset)

	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// attrPairs decodes field 16 of record 0 from exported JSON.
func attrPairs(t *testing.T, out string) [][]int {
	t.Helper()
	var records [][]json.RawMessage
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	var pairs [][]int
	if err := json.Unmarshal(records[0][16], &pairs); err != nil {
		t.Fatal(err)
	}
	return pairs
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	sort.Strings(names)

	want := []string{"completion", "config", "edit", "export", "inspect", "serve"}
	for _, w := range want {
		found := false
		for _, n := range names {
			if n == w {
				found = true
			}
		}
		if !found {
			t.Errorf("missing subcommand %q in %v", w, names)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "", "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "attredit version") {
		t.Errorf("--version output = %q", out)
	}
}

func TestExportStdout(t *testing.T) {
	in := writeFile(t, "in.json", sampleInput)

	out, err := runCLI(t, "", "export", in, "--op", "set 0:0 42", "--op", "down 0:0", "--op", "add 0")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if diff := cmp.Diff([][]int{{7, 5}, {3, 42}, {1, 0}}, attrPairs(t, out)); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(out, "[\n  [\n") {
		t.Errorf("output is not indented:\n%s", out)
	}
}

func TestExportDefaultAttributeFromCatalog(t *testing.T) {
	in := writeFile(t, "in.json", sampleInput)
	cat := writeFile(t, "attributes.yaml", sampleAttributes)

	out, err := runCLI(t, "", "--attributes", cat, "export", in, "--op", "add 0")
	if err != nil {
		t.Fatal(err)
	}
	pairs := attrPairs(t, out)
	if got := pairs[len(pairs)-1]; !cmp.Equal(got, []int{3, 0}) {
		t.Errorf("added pair = %v, want [3 0]", got)
	}
}

func TestExportStdin(t *testing.T) {
	out, err := runCLI(t, sampleInput, "export", "-", "--op", "delete 0:1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]int{{3, 10}}, attrPairs(t, out)); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestExportToFile(t *testing.T) {
	in := writeFile(t, "in.json", sampleInput)
	dst := filepath.Join(t.TempDir(), "out.json")

	out, err := runCLI(t, "", "export", in, "-o", dst)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing", out)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]int{{3, 10}, {7, 5}}, attrPairs(t, string(data))); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestExportUsesConfigTarget(t *testing.T) {
	in := writeFile(t, "in.json", sampleInput)
	dst := filepath.Join(t.TempDir(), "configured.json")
	cfg := writeFile(t, "config.toml", "export_target = \"file\"\nexport_file = \""+dst+"\"\n")

	if _, err := runCLI(t, "", "--config", cfg, "export", in); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("configured export file not written: %v", err)
	}
}

func TestExportErrors(t *testing.T) {
	in := writeFile(t, "in.json", sampleInput)
	bad := writeFile(t, "bad.json", `[[0,1`)

	tests := []struct {
		name string
		args []string
		want apperrors.Code
	}{
		{"bad op", []string{"export", in, "--op", "jump 0:0"}, apperrors.ErrCodeInvalidInput},
		{"missing file", []string{"export", filepath.Join(t.TempDir(), "nope.json")}, apperrors.ErrCodeFileNotFound},
		{"missing row", []string{"export", in, "--op", "delete 0:9"}, apperrors.ErrCodeNotFound},
		{"add without list", []string{"export", in, "--op", "add 1"}, apperrors.ErrCodeNotFound},
		{"malformed", []string{"export", bad}, apperrors.ErrCodeMalformedInput},
		{"non-numeric", []string{"export", in, "--op", "set 0:0 abc"}, apperrors.ErrCodeInvalidValue},
		{"two targets", []string{"export", in, "-o", "x.json", "--clipboard"}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", tt.args...)
			if got := apperrors.GetCode(err); got != tt.want {
				t.Errorf("error = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestInspectJSON(t *testing.T) {
	in := writeFile(t, "in.json", sampleInput)

	out, err := runCLI(t, "", "inspect", in, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var groups []attr.Group
	if err := json.Unmarshal([]byte(out), &groups); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(groups) != 1 || len(groups[0].Rows) != 2 {
		t.Fatalf("groups = %+v", groups)
	}
	if got := groups[0].Rows[1].AttrName; got != "ID: 7" {
		t.Errorf("AttrName = %q, want fallback name", got)
	}
}

func TestInspectTable(t *testing.T) {
	in := writeFile(t, "in.json", sampleInput)
	cat := writeFile(t, "attributes.yaml", sampleAttributes)

	out, err := runCLI(t, "", "--attributes", cat, "inspect", in)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"2 records", "2 attributes", "STR", "DEX", "5%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestInspectBadCatalog(t *testing.T) {
	in := writeFile(t, "in.json", sampleInput)
	cat := writeFile(t, "attributes.ini", "x")

	_, err := runCLI(t, "", "--attributes", cat, "inspect", in)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := runCLI(t, "", "--config", path, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}

	out, err = runCLI(t, "", "--config", path, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `debounce = "300ms"`) {
		t.Errorf("config show lacks debounce:\n%s", out)
	}

	if _, err := runCLI(t, "", "--config", path, "config", "init"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config init did not write %s: %v", path, err)
	}
	// A second init keeps the file and does not fail.
	if _, err := runCLI(t, "", "--config", path, "config", "init"); err != nil {
		t.Errorf("second init: %v", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := writeFile(t, "config.toml", `export_target = "printer"`)
	_, err := runCLI(t, "", "--config", cfg, "config", "show")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := runCLI(t, "", "completion", shell)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "attredit") {
				t.Errorf("%s completion does not mention attredit", shell)
			}
		})
	}
}
