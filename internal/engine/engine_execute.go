package engine

import (
	"fmt"
	"strings"

	"relDB/internal/table"
)

// OpKind names a relational operator the engine can run.
type OpKind string

const (
	OpProject   OpKind = "project"
	OpSelect    OpKind = "select"
	OpSelectKey OpKind = "select_key"
	OpRange     OpKind = "select_range"
	OpUnion     OpKind = "union"
	OpMinus     OpKind = "minus"
	OpJoin      OpKind = "join"
	OpThetaJoin OpKind = "theta_join"
	OpIJoin     OpKind = "i_join"
)

// Op is one operator application over catalog tables. Which fields are
// used depends on Kind:
//
//	project:      Left, Attrs
//	select:       Left, Condition
//	select_key:   Left, Key
//	select_range: Left, Key (from), To
//	union, minus: Left, Right
//	join, i_join: Left, Right, Attrs, RightAttrs
//	theta_join:   Left, Right, Condition
type Op struct {
	Kind       OpKind   `json:"op" validate:"required"`
	Left       string   `json:"left" validate:"required"`
	Right      string   `json:"right,omitempty"`
	Attrs      []string `json:"attrs,omitempty"`
	RightAttrs []string `json:"right_attrs,omitempty"`
	Condition  string   `json:"condition,omitempty"`
	Key        []string `json:"key,omitempty"`
	To         []string `json:"to,omitempty"`
}

// Execute runs op and registers its result in the catalog.
func (e *DBEngine) Execute(op Op) (*table.Table, error) {
	e.mu.RLock()
	res, err := e.execute(op)
	e.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if err := e.catalog.Put(res); err != nil {
		return nil, err
	}
	log.Debug().Str("op", string(op.Kind)).Str("left", op.Left).Str("result", res.Name()).Int("rows", res.Len()).Msg("executed")
	return res, nil
}

func (e *DBEngine) execute(op Op) (*table.Table, error) {
	if err := e.checkStarted(); err != nil {
		return nil, err
	}
	left, err := e.catalog.Get(op.Left)
	if err != nil {
		return nil, err
	}

	switch op.Kind {
	case OpProject:
		return left.Project(op.Attrs)

	case OpSelect:
		return left.SelectCondition(op.Condition)

	case OpSelectKey:
		key, err := parseKey(left.Schema(), op.Key)
		if err != nil {
			return nil, err
		}
		return left.SelectKey(key)

	case OpRange:
		from, err := parseKey(left.Schema(), op.Key)
		if err != nil {
			return nil, err
		}
		to, err := parseKey(left.Schema(), op.To)
		if err != nil {
			return nil, err
		}
		return left.SelectRange(from, to)
	}

	right, err := e.catalog.Get(op.Right)
	if err != nil {
		return nil, err
	}

	switch op.Kind {
	case OpUnion:
		return left.Union(right)
	case OpMinus:
		return left.Minus(right)
	case OpJoin:
		return left.Join(op.Attrs, op.RightAttrs, right)
	case OpThetaJoin:
		return left.ThetaJoin(op.Condition, right)
	case OpIJoin:
		return left.IJoin(op.Attrs, op.RightAttrs, right)
	default:
		return nil, fmt.Errorf("unsupported operator %q", op.Kind)
	}
}

// ParseOpKind accepts the operator names with either '_' or '-' separators.
func ParseOpKind(s string) (OpKind, error) {
	k := OpKind(strings.ReplaceAll(strings.ToLower(s), "-", "_"))
	switch k {
	case OpProject, OpSelect, OpSelectKey, OpRange, OpUnion, OpMinus, OpJoin, OpThetaJoin, OpIJoin:
		return k, nil
	}
	return "", fmt.Errorf("unsupported operator %q", s)
}
