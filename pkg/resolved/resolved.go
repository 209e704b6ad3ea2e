// Package resolved defines the contract between the host toolchain and the
// analyzer: a type-resolved widget-construction expression tree plus a
// constant-evaluation capability. The analyzer never parses source itself;
// it consumes trees that arrive already name- and type-resolved.
package resolved

// Span records the source location of an expression.
// Line and column values are 1-based; offsets are byte offsets.
type Span struct {
	File      string `json:"file,omitempty"`
	StartLine uint   `json:"start_line,omitempty"`
	StartCol  uint   `json:"start_col,omitempty"`
	EndLine   uint   `json:"end_line,omitempty"`
	EndCol    uint   `json:"end_col,omitempty"`
}

// Expr is a node in a resolved expression tree. The variant set is closed:
// consumers dispatch with a type switch and treat unknown variants as opaque.
type Expr interface {
	Span() Span
}

// Arg is a single argument at a construction site. Name is empty for
// positional arguments.
type Arg struct {
	Name  string
	Value Expr
}

// ConstructorCall is a widget instantiation site.
type ConstructorCall struct {
	// TypeName is the constructed widget type, e.g. "ElevatedButton".
	TypeName string

	// DeclScope identifies the library/scope declaring the type. Framework
	// widgets carry the framework scope; user components carry their own.
	DeclScope string

	// Args holds named and positional arguments in source order.
	Args []Arg

	Pos Span
}

// Span returns the source span of the call.
func (e *ConstructorCall) Span() Span { return e.Pos }

// NamedArg returns the value of the named argument, or nil when absent.
func (e *ConstructorCall) NamedArg(name string) Expr {
	for _, arg := range e.Args {
		if arg.Name == name {
			return arg.Value
		}
	}

	return nil
}

// PositionalArg returns the i-th positional argument, or nil when absent.
func (e *ConstructorCall) PositionalArg(index int) Expr {
	seen := 0

	for _, arg := range e.Args {
		if arg.Name != "" {
			continue
		}

		if seen == index {
			return arg.Value
		}

		seen++
	}

	return nil
}

// StringLit is a compile-time string constant.
type StringLit struct {
	Value string
	Pos   Span
}

// Span returns the source span of the literal.
func (e *StringLit) Span() Span { return e.Pos }

// BoolLit is a compile-time boolean constant.
type BoolLit struct {
	Value bool
	Pos   Span
}

// Span returns the source span of the literal.
func (e *BoolLit) Span() Span { return e.Pos }

// IntLit is a compile-time integer constant.
type IntLit struct {
	Value int
	Pos   Span
}

// Span returns the source span of the literal.
func (e *IntLit) Span() Span { return e.Pos }

// NullLit is an explicit null literal. Passing null for a callback argument
// is the framework idiom for disabling a control.
type NullLit struct {
	Pos Span
}

// Span returns the source span of the literal.
func (e *NullLit) Span() Span { return e.Pos }

// Ident is a resolved reference to a declaration in the same file.
type Ident struct {
	Name string
	Pos  Span
}

// Span returns the source span of the identifier.
func (e *Ident) Span() Span { return e.Pos }

// Conditional is an if/else-like or ternary construct producing a widget.
type Conditional struct {
	Cond Expr
	Then Expr

	// Else is nil for collection-if constructs with no alternative.
	Else Expr

	Pos Span
}

// Span returns the source span of the conditional.
func (e *Conditional) Span() Span { return e.Pos }

// ListLit is a list literal, e.g. a children: [...] argument.
type ListLit struct {
	Elems []Expr
	Pos   Span
}

// Span returns the source span of the list.
func (e *ListLit) Span() Span { return e.Pos }

// Closure is a function literal, typically a callback argument. Its body is
// deliberately not modeled; the analyzer only cares about presence vs. null.
type Closure struct {
	Pos Span
}

// Span returns the source span of the closure.
func (e *Closure) Span() Span { return e.Pos }

// Opaque is any expression the host could not classify further. All
// constant evaluations over an Opaque expression fail.
type Opaque struct {
	// TypeHint is the static type name when known, empty otherwise.
	TypeHint string

	Pos Span
}

// Span returns the source span of the expression.
func (e *Opaque) Span() Span { return e.Pos }
