// Package expr provides the expression and condition language evaluated
// against a frame's columns: an immutable tagged-variant AST over column
// references, literals, binary and unary operations.
package expr

import (
	"fmt"
)

// Type discriminates the AST node kinds.
type Type int

const (
	TypeColumn Type = iota
	TypeLiteral
	TypeBinary
	TypeUnary
)

// Expr is an immutable expression tree node. Type checking happens at
// evaluation time against the frame the expression is applied to.
type Expr interface {
	Type() Type
	String() string
}

// ColumnExpr references a named column.
type ColumnExpr struct {
	name string
}

func (c *ColumnExpr) Type() Type     { return TypeColumn }
func (c *ColumnExpr) String() string { return fmt.Sprintf("col(%s)", c.name) }

// Name returns the referenced column name.
func (c *ColumnExpr) Name() string { return c.name }

// LiteralExpr holds a constant broadcast to the frame's length.
type LiteralExpr struct {
	value interface{}
}

func (l *LiteralExpr) Type() Type     { return TypeLiteral }
func (l *LiteralExpr) String() string { return fmt.Sprintf("lit(%v)", l.value) }

// Value returns the wrapped constant.
func (l *LiteralExpr) Value() interface{} { return l.value }

// BinaryOp enumerates the binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		return "?"
	}
}

// IsComparison reports whether the operator yields a boolean column.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	default:
		return false
	}
}

// IsLogical reports whether the operator combines boolean columns.
func (op BinaryOp) IsLogical() bool { return op == OpAnd || op == OpOr }

// BinaryExpr applies op to two subtrees.
type BinaryExpr struct {
	left  Expr
	op    BinaryOp
	right Expr
}

func (b *BinaryExpr) Type() Type { return TypeBinary }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.left.String(), b.op, b.right.String())
}

// Left returns the left operand.
func (b *BinaryExpr) Left() Expr { return b.left }

// Op returns the operator.
func (b *BinaryExpr) Op() BinaryOp { return b.op }

// Right returns the right operand.
func (b *BinaryExpr) Right() Expr { return b.right }

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	UnaryNot UnaryOp = iota
	UnaryNeg
)

// UnaryExpr applies a unary operator to a subtree.
type UnaryExpr struct {
	op      UnaryOp
	operand Expr
}

func (u *UnaryExpr) Type() Type { return TypeUnary }
func (u *UnaryExpr) String() string {
	if u.op == UnaryNot {
		return fmt.Sprintf("(!%s)", u.operand.String())
	}
	return fmt.Sprintf("(-%s)", u.operand.String())
}

// Op returns the operator.
func (u *UnaryExpr) Op() UnaryOp { return u.op }

// Operand returns the subtree.
func (u *UnaryExpr) Operand() Expr { return u.operand }

// Constructors.

// Col creates a column reference.
func Col(name string) *ColumnExpr { return &ColumnExpr{name: name} }

// Lit creates a literal. Supported constants: int, int32, int64 (stored as
// int32), float64, bool, string.
func Lit(v interface{}) *LiteralExpr { return &LiteralExpr{value: v} }

// Not negates a boolean expression.
func Not(operand Expr) *UnaryExpr { return &UnaryExpr{op: UnaryNot, operand: operand} }

// Neg negates a numeric expression.
func Neg(operand Expr) *UnaryExpr { return &UnaryExpr{op: UnaryNeg, operand: operand} }

// NewBinary builds a binary node directly.
func NewBinary(left Expr, op BinaryOp, right Expr) *BinaryExpr {
	return &BinaryExpr{left: left, op: op, right: right}
}

// Chaining builders on column expressions.

func (c *ColumnExpr) Add(other Expr) *BinaryExpr { return NewBinary(c, OpAdd, other) }
func (c *ColumnExpr) Sub(other Expr) *BinaryExpr { return NewBinary(c, OpSub, other) }
func (c *ColumnExpr) Mul(other Expr) *BinaryExpr { return NewBinary(c, OpMul, other) }
func (c *ColumnExpr) Div(other Expr) *BinaryExpr { return NewBinary(c, OpDiv, other) }
func (c *ColumnExpr) Eq(other Expr) *BinaryExpr  { return NewBinary(c, OpEq, other) }
func (c *ColumnExpr) Ne(other Expr) *BinaryExpr  { return NewBinary(c, OpNe, other) }
func (c *ColumnExpr) Lt(other Expr) *BinaryExpr  { return NewBinary(c, OpLt, other) }
func (c *ColumnExpr) Le(other Expr) *BinaryExpr  { return NewBinary(c, OpLe, other) }
func (c *ColumnExpr) Gt(other Expr) *BinaryExpr  { return NewBinary(c, OpGt, other) }
func (c *ColumnExpr) Ge(other Expr) *BinaryExpr  { return NewBinary(c, OpGe, other) }

// Chaining builders on binary expressions.

func (b *BinaryExpr) Add(other Expr) *BinaryExpr { return NewBinary(b, OpAdd, other) }
func (b *BinaryExpr) Sub(other Expr) *BinaryExpr { return NewBinary(b, OpSub, other) }
func (b *BinaryExpr) Mul(other Expr) *BinaryExpr { return NewBinary(b, OpMul, other) }
func (b *BinaryExpr) Div(other Expr) *BinaryExpr { return NewBinary(b, OpDiv, other) }
func (b *BinaryExpr) Eq(other Expr) *BinaryExpr  { return NewBinary(b, OpEq, other) }
func (b *BinaryExpr) Ne(other Expr) *BinaryExpr  { return NewBinary(b, OpNe, other) }
func (b *BinaryExpr) Lt(other Expr) *BinaryExpr  { return NewBinary(b, OpLt, other) }
func (b *BinaryExpr) Le(other Expr) *BinaryExpr  { return NewBinary(b, OpLe, other) }
func (b *BinaryExpr) Gt(other Expr) *BinaryExpr  { return NewBinary(b, OpGt, other) }
func (b *BinaryExpr) Ge(other Expr) *BinaryExpr  { return NewBinary(b, OpGe, other) }
func (b *BinaryExpr) And(other Expr) *BinaryExpr { return NewBinary(b, OpAnd, other) }
func (b *BinaryExpr) Or(other Expr) *BinaryExpr  { return NewBinary(b, OpOr, other) }
