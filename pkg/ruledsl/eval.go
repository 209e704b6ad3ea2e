package ruledsl

import (
	"github.com/axeline/axeline/pkg/semantic"
)

// Value is a runtime value of the rule language: string, int, bool, or
// nil for null. Evaluation is total; no expression raises.
type Value any

// Env binds context names visible to path expressions. Every rule sees
// the candidate node as "node".
type Env struct {
	Node *semantic.Node
}

// Eval evaluates expr under env. Missing attributes, unknown paths, and
// ill-typed operations all yield null or false, never an error.
func Eval(expr Expr, env *Env) Value {
	switch e := expr.(type) {
	case *StringLit:
		return e.Value
	case *IntLit:
		return e.Value
	case *BoolLit:
		return e.Value
	case *NullLit:
		return nil
	case *PathExpr:
		return evalPath(e, env)
	case *UnaryExpr:
		return !Truthy(Eval(e.Operand, env))
	case *BinaryExpr:
		return evalBinary(e, env)
	}

	return nil
}

// Truthy reports whether v counts as true: only the boolean true does.
// Null, strings, and integers are all falsy, so a when clause over a
// missing property skips the node instead of reporting it.
func Truthy(v Value) bool {
	b, ok := v.(bool)

	return ok && b
}

func evalBinary(e *BinaryExpr, env *Env) Value {
	switch e.Op {
	case tokenAnd:
		return Truthy(Eval(e.Left, env)) && Truthy(Eval(e.Right, env))
	case tokenOr:
		return Truthy(Eval(e.Left, env)) || Truthy(Eval(e.Right, env))
	}

	left := Eval(e.Left, env)
	right := Eval(e.Right, env)

	switch e.Op {
	case tokenEq:
		return equal(left, right)
	case tokenNotEq:
		return !equal(left, right)
	case tokenLess, tokenLessEq, tokenGreater, tokenGreaterEq:
		return order(e.Op, left, right)
	}

	return nil
}

// equal compares across the value kinds. Null equals only null, so
// "node.label == null" is a real presence test.
func equal(left, right Value) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}

	return left == right
}

// order implements relational comparison. Any operand that is null or
// not an integer makes the comparison false rather than a type error.
func order(op TokenType, left, right Value) Value {
	l, lok := left.(int)
	r, rok := right.(int)
	if !lok || !rok {
		return false
	}

	switch op {
	case tokenLess:
		return l < r
	case tokenLessEq:
		return l <= r
	case tokenGreater:
		return l > r
	case tokenGreaterEq:
		return l >= r
	}

	return false
}

func evalPath(e *PathExpr, env *Env) Value {
	if len(e.Parts) != 2 || e.Parts[0] != "node" || env.Node == nil {
		return nil
	}

	return nodeAttr(env.Node, e.Parts[1])
}

// nodeAttr exposes the node surface visible to rule authors. Unknown
// attribute names yield null.
func nodeAttr(n *semantic.Node, name string) Value {
	switch name {
	case "widget":
		return n.WidgetType
	case "role":
		return string(n.Role)
	case "control":
		return string(n.Control)
	case "label":
		return strAttr(n.Label)
	case "tooltip":
		return strAttr(n.Tooltip)
	case "childLabel":
		return strAttr(n.ExplicitChildLabel)
	case "effectiveLabel":
		return strAttr(n.EffectiveLabel())
	case "value":
		return strAttr(n.Value)
	case "guarantee":
		return n.Guarantee.String()
	case "merges":
		return n.Merges
	case "excludes":
		return n.Excludes
	case "blocks":
		return n.Blocks
	case "focusable":
		return n.State.Focusable
	case "tappable":
		return n.State.Tappable
	case "longPressable":
		return n.State.LongPressable
	case "adjustable":
		return n.State.Adjustable
	case "scrollable":
		return n.State.Scrollable
	case "dismissible":
		return n.State.Dismissible
	case "enabled":
		return n.State.Enabled
	case "interactive":
		return n.Interactive()
	case "inferred":
		return n.Inferred
	case "childCount":
		return len(n.Children)
	case "depth":
		return n.Depth
	case "focusOrder":
		if n.FocusIndex == nil {
			return nil
		}

		return *n.FocusIndex
	}

	return nil
}

func strAttr(s *string) Value {
	if s == nil {
		return nil
	}

	return *s
}
