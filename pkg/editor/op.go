package editor

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/matzehuels/attredit/pkg/errors"
)

// Kind names a mutation.
type Kind string

const (
	OpSetValue     Kind = "set"
	OpSetAttribute Kind = "set-attr"
	OpMoveUp       Kind = "up"
	OpMoveDown     Kind = "down"
	OpDelete       Kind = "delete"
	OpAdd          Kind = "add"
)

// Op is one mutation of the attribute list, in a form shared by the CLI,
// the terminal editor and the HTTP API.
type Op struct {
	Kind       Kind
	EquipIndex int
	AttrIndex  int    // unused by OpAdd
	Arg        string // value for OpSetValue, option id for OpSetAttribute
}

// String renders the op in the syntax accepted by [ParseOp].
func (o Op) String() string {
	switch o.Kind {
	case OpAdd:
		return fmt.Sprintf("%s %d", o.Kind, o.EquipIndex)
	case OpSetValue, OpSetAttribute:
		return fmt.Sprintf("%s %d:%d %s", o.Kind, o.EquipIndex, o.AttrIndex, o.Arg)
	default:
		return fmt.Sprintf("%s %d:%d", o.Kind, o.EquipIndex, o.AttrIndex)
	}
}

// ParseOp parses one of:
//
//	set <equip>:<attr> <value>
//	set-attr <equip>:<attr> <id>
//	up <equip>:<attr>
//	down <equip>:<attr>
//	delete <equip>:<attr>
//	add <equip>
func ParseOp(s string) (Op, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Op{}, apperrors.New(apperrors.ErrCodeInvalidInput, "empty operation")
	}

	op := Op{Kind: Kind(strings.ToLower(fields[0]))}
	args := fields[1:]

	switch op.Kind {
	case OpAdd:
		if len(args) != 1 {
			return Op{}, usage(s, "add <equip>")
		}
		n, err := parseIndex(args[0])
		if err != nil {
			return Op{}, usage(s, "add <equip>")
		}
		op.EquipIndex = n
	case OpMoveUp, OpMoveDown, OpDelete:
		if len(args) != 1 {
			return Op{}, usage(s, fmt.Sprintf("%s <equip>:<attr>", op.Kind))
		}
		var err error
		if op.EquipIndex, op.AttrIndex, err = parseAddress(args[0]); err != nil {
			return Op{}, usage(s, fmt.Sprintf("%s <equip>:<attr>", op.Kind))
		}
	case OpSetValue, OpSetAttribute:
		if len(args) != 2 {
			return Op{}, usage(s, fmt.Sprintf("%s <equip>:<attr> <value>", op.Kind))
		}
		var err error
		if op.EquipIndex, op.AttrIndex, err = parseAddress(args[0]); err != nil {
			return Op{}, usage(s, fmt.Sprintf("%s <equip>:<attr> <value>", op.Kind))
		}
		op.Arg = args[1]
	default:
		return Op{}, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown operation %q (want set, set-attr, up, down, delete or add)", fields[0])
	}
	return op, nil
}

func usage(s, form string) error {
	return apperrors.New(apperrors.ErrCodeInvalidInput, "invalid operation %q: usage: %s", s, form)
}

func parseAddress(s string) (int, int, error) {
	e, a, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("missing ':'")
	}
	equip, err := parseIndex(e)
	if err != nil {
		return 0, 0, err
	}
	attrIdx, err := parseIndex(a)
	if err != nil {
		return 0, 0, err
	}
	return equip, attrIdx, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return n, nil
}
