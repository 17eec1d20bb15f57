package table

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"relDB/internal/errs"
	"relDB/internal/types"
)

// condition is "<left> <op> <right>": three whitespace-separated tokens.
// right is a literal for select and an attribute for theta-join.
type condition struct {
	Left  string `parser:"@Word"`
	Op    string `parser:"@Word"`
	Right string `parser:"@Word"`
}

var (
	conditionLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Word", Pattern: `\S+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	conditionParser = participle.MustBuild[condition](
		participle.Lexer(conditionLexer),
		participle.Elide("Whitespace"),
	)
)

type operator int

const (
	opEq operator = iota
	opNe
	opLt
	opLe
	opGt
	opGe
)

var operators = map[string]operator{
	"==": opEq,
	"!=": opNe,
	"<":  opLt,
	"<=": opLe,
	">":  opGt,
	">=": opGe,
}

func parseCondition(s string) (*condition, operator, error) {
	c, err := conditionParser.ParseString("", s)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %q: %v", errs.ErrMalformedCondition, s, err)
	}
	op, ok := operators[c.Op]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q in %q", errs.ErrUnsupportedOperator, c.Op, s)
	}
	return c, op, nil
}

// holds applies op to two values of one domain. A null on either side
// never satisfies a comparison.
func (op operator) holds(a, b types.Value) bool {
	if a.IsNull() || b.IsNull() {
		return false
	}
	c := types.Compare(a, b)
	switch op {
	case opEq:
		return c == 0
	case opNe:
		return c != 0
	case opLt:
		return c < 0
	case opLe:
		return c <= 0
	case opGt:
		return c > 0
	default:
		return c >= 0
	}
}
