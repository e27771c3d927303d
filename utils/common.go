package utils

type EvalOp uint8

const (
	Equal EvalOp = iota
	Less
	Greater
	LessOrEqual
	GreaterOrEqual
)

func (op EvalOp) String() string {
	return [...]string{"==", "<", ">", "<=", ">="}[op]
}

// Compare evaluates "a op b"
func (op EvalOp) Compare(a, b float64) bool {
	switch op {
	case Equal:
		return a == b
	case Less:
		return a < b
	case Greater:
		return a > b
	case LessOrEqual:
		return a <= b
	case GreaterOrEqual:
		return a >= b
	}
	panic("unknown comparison operator")
}
