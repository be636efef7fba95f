package expr

import (
	"fmt"

	"github.com/lemur-data/lemur/internal/errors"
	"github.com/lemur-data/lemur/internal/series"
	"github.com/lemur-data/lemur/internal/value"
)

// Evaluator evaluates expression trees against a fixed set of columns. Null
// operands propagate: any operation over an absent value yields an absent
// result, and integer division by zero yields an absent result rather than
// failing the whole evaluation.
type Evaluator struct {
	columns map[string]*series.Series
	length  int
}

// NewEvaluator creates an evaluator over the given columns, all of which
// must share the same row count.
func NewEvaluator(columns map[string]*series.Series, length int) *Evaluator {
	return &Evaluator{columns: columns, length: length}
}

// Eval evaluates the expression to a column of the evaluator's row count.
func (e *Evaluator) Eval(ex Expr) (*series.Series, error) {
	switch node := ex.(type) {
	case *ColumnExpr:
		col, ok := e.columns[node.Name()]
		if !ok {
			return nil, errors.NewColumnNotFound("Eval", node.Name())
		}
		return col, nil
	case *LiteralExpr:
		return e.broadcast(node.Value())
	case *BinaryExpr:
		return e.evalBinary(node)
	case *UnaryExpr:
		return e.evalUnary(node)
	default:
		return nil, errors.NewTypeError("Eval", "", fmt.Sprintf("unknown expression node %T", ex))
	}
}

// EvalCondition evaluates the expression and requires a boolean result.
func (e *Evaluator) EvalCondition(ex Expr) (*series.Series, error) {
	out, err := e.Eval(ex)
	if err != nil {
		return nil, err
	}
	if out.DataType() != value.Bool {
		return nil, errors.NewTypeError("EvalCondition", "",
			fmt.Sprintf("condition must evaluate to a boolean column, got %s", out.DataType()))
	}
	return out, nil
}

// broadcast expands a literal constant to a full-length column.
func (e *Evaluator) broadcast(constant interface{}) (*series.Series, error) {
	v, err := litValue(constant)
	if err != nil {
		return nil, err
	}
	vals := make([]value.Value, e.length)
	for i := range vals {
		vals[i] = v
	}
	return series.FromValues("", v.Type(), vals)
}

func litValue(constant interface{}) (value.Value, error) {
	switch c := constant.(type) {
	case int:
		return value.NewInt32(int32(c)), nil
	case int32:
		return value.NewInt32(c), nil
	case int64:
		return value.NewInt32(int32(c)), nil
	case float64:
		return value.NewFloat64(c), nil
	case bool:
		return value.NewBool(c), nil
	case string:
		return value.NewString(c), nil
	default:
		return value.Null, errors.NewTypeError("Eval", "",
			fmt.Sprintf("unsupported literal type %T", constant))
	}
}

func (e *Evaluator) evalBinary(node *BinaryExpr) (*series.Series, error) {
	left, err := e.Eval(node.Left())
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(node.Right())
	if err != nil {
		return nil, err
	}
	if left.Len() != right.Len() {
		return nil, errors.NewSchemaMismatch("Eval", "operand columns have different lengths")
	}

	op := node.Op()
	switch {
	case op.IsLogical():
		return evalLogical(op, left, right)
	case op.IsComparison():
		return evalComparison(op, left, right)
	default:
		return evalArithmetic(op, left, right)
	}
}

func (e *Evaluator) evalUnary(node *UnaryExpr) (*series.Series, error) {
	operand, err := e.Eval(node.Operand())
	if err != nil {
		return nil, err
	}
	switch node.Op() {
	case UnaryNot:
		if operand.DataType() != value.Bool {
			return nil, errors.NewTypeError("Eval", "",
				fmt.Sprintf("NOT requires a boolean operand, got %s", operand.DataType()))
		}
		out := make([]value.Value, operand.Len())
		for i := range out {
			v, _ := operand.Get(i)
			if b, ok := v.Bool(); ok {
				out[i] = value.NewBool(!b)
			}
		}
		return series.FromValues("", value.Bool, out)
	case UnaryNeg:
		if !operand.DataType().IsNumeric() {
			return nil, errors.NewTypeError("Eval", "",
				fmt.Sprintf("negation requires a numeric operand, got %s", operand.DataType()))
		}
		out := make([]value.Value, operand.Len())
		for i := range out {
			v, _ := operand.Get(i)
			if n, ok := v.Int32(); ok {
				out[i] = value.NewInt32(-n)
			} else if f, ok := v.Float64(); ok {
				out[i] = value.NewFloat64(-f)
			}
		}
		return series.FromValues("", operand.DataType(), out)
	default:
		return nil, errors.NewTypeError("Eval", "", "unknown unary operator")
	}
}

func evalArithmetic(op BinaryOp, left, right *series.Series) (*series.Series, error) {
	if !left.DataType().IsNumeric() || !right.DataType().IsNumeric() {
		return nil, errors.NewTypeError("Eval", "",
			fmt.Sprintf("arithmetic requires numeric operands, got %s and %s",
				left.DataType(), right.DataType()))
	}
	// Int32 op Int32 stays Int32; anything touching Float64 widens.
	if left.DataType() == value.Int32 && right.DataType() == value.Int32 {
		out := make([]value.Value, left.Len())
		for i := range out {
			lv, _ := left.Get(i)
			rv, _ := right.Get(i)
			a, okA := lv.Int32()
			b, okB := rv.Int32()
			if !okA || !okB {
				continue
			}
			switch op {
			case OpAdd:
				out[i] = value.NewInt32(a + b)
			case OpSub:
				out[i] = value.NewInt32(a - b)
			case OpMul:
				out[i] = value.NewInt32(a * b)
			case OpDiv:
				if b == 0 {
					continue // absent result, not a failure
				}
				out[i] = value.NewInt32(a / b)
			}
		}
		return series.FromValues("", value.Int32, out)
	}

	out := make([]value.Value, left.Len())
	for i := range out {
		a, okA := left.Float64At(i)
		b, okB := right.Float64At(i)
		if !okA || !okB {
			continue
		}
		switch op {
		case OpAdd:
			out[i] = value.NewFloat64(a + b)
		case OpSub:
			out[i] = value.NewFloat64(a - b)
		case OpMul:
			out[i] = value.NewFloat64(a * b)
		case OpDiv:
			out[i] = value.NewFloat64(a / b)
		}
	}
	return series.FromValues("", value.Float64, out)
}

func evalComparison(op BinaryOp, left, right *series.Series) (*series.Series, error) {
	bothNumeric := left.DataType().IsNumeric() && right.DataType().IsNumeric()
	if !bothNumeric && left.DataType() != right.DataType() {
		return nil, errors.NewTypeError("Eval", "",
			fmt.Sprintf("cannot compare %s with %s", left.DataType(), right.DataType()))
	}
	if left.DataType() == value.Bool && op != OpEq && op != OpNe {
		return nil, errors.NewTypeError("Eval", "", "boolean columns support only == and !=")
	}

	out := make([]value.Value, left.Len())
	for i := range out {
		cmp, ok := compareAt(left, right, i)
		if !ok {
			continue
		}
		var r bool
		switch op {
		case OpEq:
			r = cmp == 0
		case OpNe:
			r = cmp != 0
		case OpLt:
			r = cmp < 0
		case OpLe:
			r = cmp <= 0
		case OpGt:
			r = cmp > 0
		case OpGe:
			r = cmp >= 0
		}
		out[i] = value.NewBool(r)
	}
	return series.FromValues("", value.Bool, out)
}

// compareAt orders two cells of comparable columns. The second result is
// false when either side is absent.
func compareAt(left, right *series.Series, i int) (int, bool) {
	if left.DataType().IsNumeric() {
		a, okA := left.Float64At(i)
		b, okB := right.Float64At(i)
		if !okA || !okB {
			return 0, false
		}
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	}
	lv, _ := left.Get(i)
	rv, _ := right.Get(i)
	if lv.IsNull() || rv.IsNull() {
		return 0, false
	}
	if a, ok := lv.Str(); ok {
		b, _ := rv.Str()
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	}
	a, _ := lv.Bool()
	b, _ := rv.Bool()
	switch {
	case a == b:
		return 0, true
	case !a:
		return -1, true
	default:
		return 1, true
	}
}

func evalLogical(op BinaryOp, left, right *series.Series) (*series.Series, error) {
	if left.DataType() != value.Bool || right.DataType() != value.Bool {
		return nil, errors.NewTypeError("Eval", "",
			fmt.Sprintf("%s requires boolean operands, got %s and %s",
				op, left.DataType(), right.DataType()))
	}
	out := make([]value.Value, left.Len())
	for i := range out {
		lv, _ := left.Get(i)
		rv, _ := right.Get(i)
		a, okA := lv.Bool()
		b, okB := rv.Bool()
		if !okA || !okB {
			continue
		}
		if op == OpAnd {
			out[i] = value.NewBool(a && b)
		} else {
			out[i] = value.NewBool(a || b)
		}
	}
	return series.FromValues("", value.Bool, out)
}
