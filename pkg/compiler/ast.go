package compiler

import (
	"fmt"
	"strings"
)

// Expr is implemented by every node of the expression tree.
type Expr interface {
	exprNode()
	String() string
}

// LiteralKind selects which field of a Literal holds the value.
type LiteralKind int

const (
	LitInteger LiteralKind = iota
	LitFloat
	LitString
	LitBoolean
	LitSymbol
)

var literalKindNames = [...]string{
	LitInteger: "integer",
	LitFloat:   "float",
	LitString:  "string",
	LitBoolean: "boolean",
	LitSymbol:  "symbol",
}

func (k LiteralKind) String() string {
	if int(k) >= 0 && int(k) < len(literalKindNames) {
		return literalKindNames[k]
	}
	return fmt.Sprintf("LiteralKind(%d)", int(k))
}

// Literal is a leaf: a constant or a reference to a named symbol.
//
//	42      Literal{Kind: LitInteger, Int: 42}
//	x       Literal{Kind: LitSymbol, Text: "x"}
type Literal struct {
	Kind  LiteralKind
	Int   int32
	Float float32
	Text  string // LitString contents or LitSymbol name
	Bool  bool
}

func (*Literal) exprNode() {}

func (l *Literal) String() string {
	switch l.Kind {
	case LitInteger:
		return fmt.Sprintf("%d", l.Int)
	case LitFloat:
		return fmt.Sprintf("%v", l.Float)
	case LitString:
		return fmt.Sprintf("%q", l.Text)
	case LitBoolean:
		return fmt.Sprintf("%t", l.Bool)
	}
	return l.Text
}

func IntLit(v int32) *Literal     { return &Literal{Kind: LitInteger, Int: v} }
func FloatLit(v float32) *Literal { return &Literal{Kind: LitFloat, Float: v} }
func StringLit(s string) *Literal { return &Literal{Kind: LitString, Text: s} }
func BoolLit(b bool) *Literal     { return &Literal{Kind: LitBoolean, Bool: b} }
func Symbol(name string) *Literal { return &Literal{Kind: LitSymbol, Text: name} }

// OpKind is the closed set of operators an OpExpr can apply.
type OpKind int

const (
	OpUnaryPass OpKind = iota
	OpUnaryMinus
	OpLogicalNegate

	OpMultiply
	OpDivision
	OpModulos
	OpEqual
	OpLessThan
	OpGreaterThan
	OpLessThanOrEqual
	OpGreaterThanOrEqual

	OpPlus
	OpSubtract

	OpBooleanAnd
	OpBooleanOr

	OpCall
	OpDefine
	OpIndex
	OpAssignment
)

// Precedence tiers, lowest binding first.
const (
	TierNone       = -1
	TierLogical    = 0
	TierExpression = 1
	TierTerm       = 2

	maxTier = TierTerm
)

type opInfo struct {
	name   string
	symbol string // source spelling for binary and prefix operators
	tier   int    // binary precedence tier, TierNone for everything else
	arity  int
}

// operators is indexed by OpKind. Adding a binary operator is one entry here.
var operators = [...]opInfo{
	OpUnaryPass:          {"UnaryPass", "+", TierNone, 1},
	OpUnaryMinus:         {"UnaryMinus", "-", TierNone, 1},
	OpLogicalNegate:      {"LogicalNegate", "!", TierNone, 1},
	OpMultiply:           {"Multiply", "*", TierTerm, 2},
	OpDivision:           {"Division", "/", TierTerm, 2},
	OpModulos:            {"Modulos", "%", TierTerm, 2},
	OpEqual:              {"Equal", "==", TierTerm, 2},
	OpLessThan:           {"LessThan", "<", TierTerm, 2},
	OpGreaterThan:        {"GreaterThan", ">", TierTerm, 2},
	OpLessThanOrEqual:    {"LessThanOrEqual", "<=", TierTerm, 2},
	OpGreaterThanOrEqual: {"GreaterThanOrEqual", ">=", TierTerm, 2},
	OpPlus:               {"Plus", "+", TierExpression, 2},
	OpSubtract:           {"Subtract", "-", TierExpression, 2},
	OpBooleanAnd:         {"BooleanAnd", "&&", TierLogical, 2},
	OpBooleanOr:          {"BooleanOr", "||", TierLogical, 2},
	OpCall:               {"Call", "", TierNone, 1},
	OpDefine:             {"Define", "", TierNone, 2},
	OpIndex:              {"Index", "", TierNone, 2},
	OpAssignment:         {"Assignment", "=", TierNone, 2},
}

// binaryOps maps operator text to its binary OpKind.
var binaryOps = map[string]OpKind{}

// prefixOps maps operator text to the unary OpKind it denotes before a factor.
var prefixOps = map[string]OpKind{
	"+": OpUnaryPass,
	"-": OpUnaryMinus,
}

func init() {
	for k, info := range operators {
		if info.tier != TierNone {
			binaryOps[info.symbol] = OpKind(k)
		}
	}
}

func (k OpKind) String() string {
	if int(k) >= 0 && int(k) < len(operators) {
		return operators[k].name
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Arity is the fixed number of operands the operator takes.
func (k OpKind) Arity() int { return operators[k].arity }

// Tier is the binary precedence tier, or TierNone.
func (k OpKind) Tier() int { return operators[k].tier }

// Symbol is the source spelling of a binary or prefix operator.
func (k OpKind) Symbol() string { return operators[k].symbol }

// Operator is an OpKind plus the callee name for OpCall and OpDefine.
type Operator struct {
	Kind OpKind
	Name string
}

func (o Operator) String() string {
	if o.Name != "" {
		return fmt.Sprintf("%s(%s)", o.Kind, o.Name)
	}
	return o.Kind.String()
}

// OpExpr applies an operator to its operands. len(Args) always equals
// Op.Kind.Arity(); the constructors below are the only way the parser builds one.
//
//	1 + 2      OpExpr{Op: Plus, Args: [1, 2]}
//	print(x)   OpExpr{Op: Call(print), Args: [x]}
type OpExpr struct {
	Op   Operator
	Args []Expr
}

func (*OpExpr) exprNode() {}

func (e *OpExpr) String() string {
	switch e.Op.Kind {
	case OpCall:
		return fmt.Sprintf("%s(%s)", e.Op.Name, e.Args[0])
	case OpDefine:
		return fmt.Sprintf("%s(%s) { %s }", e.Op.Name, e.Args[0], e.Args[1])
	case OpIndex:
		return fmt.Sprintf("%s[%s]", e.Args[0], e.Args[1])
	}
	if len(e.Args) == 1 {
		return fmt.Sprintf("(%s%s)", e.Op.Kind.Symbol(), e.Args[0])
	}
	return fmt.Sprintf("(%s %s %s)", e.Args[0], e.Op.Kind.Symbol(), e.Args[1])
}

func NewBinary(kind OpKind, left, right Expr) *OpExpr {
	return &OpExpr{Op: Operator{Kind: kind}, Args: []Expr{left, right}}
}

func NewUnary(kind OpKind, operand Expr) *OpExpr {
	return &OpExpr{Op: Operator{Kind: kind}, Args: []Expr{operand}}
}

func NewCall(name string, arg Expr) *OpExpr {
	return &OpExpr{Op: Operator{Kind: OpCall, Name: name}, Args: []Expr{arg}}
}

// NewDefine builds a keyword call with a trailing block, e.g. if(c) { body }.
func NewDefine(name string, cond, body Expr) *OpExpr {
	return &OpExpr{Op: Operator{Kind: OpDefine, Name: name}, Args: []Expr{cond, body}}
}

// Program is the parsed source: one expression per logical line.
type Program struct {
	Exprs []Expr
}

func (p *Program) String() string {
	var b strings.Builder
	for _, e := range p.Exprs {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
