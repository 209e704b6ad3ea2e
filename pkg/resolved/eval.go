package resolved

// Evaluator is the constant-evaluation capability the host toolchain
// provides. Each method returns nil when the expression is not a
// compile-time constant of the requested type. Implementations must never
// panic on any Expr variant.
type Evaluator interface {
	EvalString(expr Expr) *string
	EvalBool(expr Expr) *bool
	EvalInt(expr Expr) *int
}

// ComponentResolver resolves user-defined widget classes to their build
// bodies. It is consulted by the component summarizer; framework widgets
// never reach it.
type ComponentResolver interface {
	// BuildBody returns the root expression of the class's build method,
	// or nil when the body is not resolvable within the current file.
	BuildBody(className string) Expr

	// DeclaringScope returns a stable identity prefix for the class,
	// distinguishing same-named classes declared in different scopes.
	DeclaringScope(className string) string

	// IsComponentClass reports whether the class recognizably extends a
	// UI-component base class.
	IsComponentClass(className string) bool
}

// maxIdentHops bounds identifier-chain resolution so that cyclic
// declarations (a = b; b = a) terminate.
const maxIdentHops = 16

// ConstEvaluator is an Evaluator over literal expressions with optional
// same-file identifier bindings. Identifier chains are followed through
// Bindings with a seen set and a hop ceiling.
type ConstEvaluator struct {
	// Bindings maps identifier names to their initializer expressions.
	Bindings map[string]Expr
}

// EvalString evaluates expr as a compile-time string constant.
func (ev *ConstEvaluator) EvalString(expr Expr) *string {
	lit, ok := ev.resolve(expr).(*StringLit)
	if !ok {
		return nil
	}

	value := lit.Value

	return &value
}

// EvalBool evaluates expr as a compile-time boolean constant.
func (ev *ConstEvaluator) EvalBool(expr Expr) *bool {
	lit, ok := ev.resolve(expr).(*BoolLit)
	if !ok {
		return nil
	}

	value := lit.Value

	return &value
}

// EvalInt evaluates expr as a compile-time integer constant.
func (ev *ConstEvaluator) EvalInt(expr Expr) *int {
	lit, ok := ev.resolve(expr).(*IntLit)
	if !ok {
		return nil
	}

	value := lit.Value

	return &value
}

// resolve follows identifier bindings until a non-identifier expression is
// reached, a cycle is detected, or the hop ceiling is exceeded.
func (ev *ConstEvaluator) resolve(expr Expr) Expr {
	seen := make(map[string]bool)

	for hops := 0; hops < maxIdentHops; hops++ {
		ident, ok := expr.(*Ident)
		if !ok {
			return expr
		}

		if seen[ident.Name] {
			return nil
		}

		seen[ident.Name] = true

		bound, exists := ev.Bindings[ident.Name]
		if !exists {
			return nil
		}

		expr = bound
	}

	return nil
}

// IsNull reports whether expr is an explicit null literal, following
// identifier bindings when an evaluator is supplied.
func IsNull(ev Evaluator, expr Expr) bool {
	if _, ok := expr.(*NullLit); ok {
		return true
	}

	ce, ok := ev.(*ConstEvaluator)
	if !ok {
		return false
	}

	_, isNull := ce.resolve(expr).(*NullLit)

	return isNull
}
