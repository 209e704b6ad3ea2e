package ruledsl

// Expr is a parsed rule expression. The variant set is closed.
type Expr interface {
	isExpr()
}

// BinaryExpr is a two-operand expression: comparison, and, or.
type BinaryExpr struct {
	Op    TokenType
	Left  Expr
	Right Expr
}

// UnaryExpr is logical negation.
type UnaryExpr struct {
	Op      TokenType
	Operand Expr
}

// PathExpr is a dotted attribute access rooted at a context name,
// such as node.label or node.childCount.
type PathExpr struct {
	Parts []string
}

// StringLit is a quoted string literal.
type StringLit struct {
	Value string
}

// IntLit is a decimal integer literal.
type IntLit struct {
	Value int
}

// BoolLit is true or false.
type BoolLit struct {
	Value bool
}

// NullLit is the null literal.
type NullLit struct{}

func (*BinaryExpr) isExpr() {}
func (*UnaryExpr) isExpr()  {}
func (*PathExpr) isExpr()   {}
func (*StringLit) isExpr()  {}
func (*IntLit) isExpr()     {}
func (*BoolLit) isExpr()    {}
func (*NullLit) isExpr()    {}

// SelectorKind names how a rule selects its candidate nodes.
type SelectorKind string

const (
	// SelectAny matches every accessibility focus node.
	SelectAny SelectorKind = "any"
	// SelectInteractive matches focus nodes that accept user input.
	SelectInteractive SelectorKind = "interactive"
	// SelectMerging matches physical nodes that merge descendants.
	SelectMerging SelectorKind = "merging"
	// SelectRole matches focus nodes by role name.
	SelectRole SelectorKind = "role"
	// SelectWidget matches focus nodes by widget-type name.
	SelectWidget SelectorKind = "widget"
)

// Selector restricts which nodes a rule evaluates against.
type Selector struct {
	Kind SelectorKind
	Arg  string
}

// RuleDecl is one parsed rule declaration.
type RuleDecl struct {
	Name     string
	Selector Selector
	When     Expr // nil means the rule applies to every selected node
	Ensure   Expr
	Report   string
	Severity string // empty means the loader default
	Line     int
}
