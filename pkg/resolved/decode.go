package resolved

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Expression kind discriminators in the resolved-dump format.
const (
	kindConstructor = "constructor"
	kindString      = "string"
	kindBool        = "bool"
	kindInt         = "int"
	kindNull        = "null"
	kindIdent       = "ident"
	kindConditional = "conditional"
	kindList        = "list"
	kindClosure     = "closure"
	kindOpaque      = "opaque"
)

// ErrMalformedDump wraps every decode error for resolved-dump documents.
var ErrMalformedDump = errors.New("malformed resolved dump")

// Document is one host-toolchain dump: the resolved root expression of a
// build body plus the same-file declarations the analyzer may consult.
type Document struct {
	// File is the source path the dump was produced from.
	File string

	// Root is the widget-construction expression under analysis.
	Root Expr

	// Bindings holds same-file constant declarations by identifier name.
	Bindings map[string]Expr

	// Components holds same-file component classes by class name.
	Components map[string]Component
}

// Component is a resolvable user-defined widget class.
type Component struct {
	// Scope is the declaring library/scope identity.
	Scope string

	// Body is the root expression of the build method, nil when the host
	// could not resolve it.
	Body Expr

	// IsComponent reports whether the class extends a recognized
	// UI-component base class.
	IsComponent bool
}

// Evaluator returns a constant evaluator over the document's bindings.
func (d *Document) Evaluator() Evaluator {
	return &ConstEvaluator{Bindings: d.Bindings}
}

// Resolver returns a component resolver over the document's classes.
func (d *Document) Resolver() ComponentResolver {
	return &documentResolver{components: d.Components}
}

type documentResolver struct {
	components map[string]Component
}

func (r *documentResolver) BuildBody(className string) Expr {
	return r.components[className].Body
}

func (r *documentResolver) DeclaringScope(className string) string {
	return r.components[className].Scope
}

func (r *documentResolver) IsComponentClass(className string) bool {
	comp, ok := r.components[className]

	return ok && comp.IsComponent
}

// JSON shapes of the dump format.
type documentJSON struct {
	File       string                     `json:"file"`
	Root       json.RawMessage            `json:"root"`
	Bindings   map[string]json.RawMessage `json:"bindings,omitempty"`
	Components map[string]componentJSON   `json:"components,omitempty"`
}

type componentJSON struct {
	Scope       string          `json:"scope"`
	Body        json.RawMessage `json:"body,omitempty"`
	IsComponent bool            `json:"is_component"`
}

type exprJSON struct {
	Kind string `json:"kind"`
	Span Span   `json:"span,omitempty"`

	// constructor
	Type  string    `json:"type,omitempty"`
	Scope string    `json:"scope,omitempty"`
	Args  []argJSON `json:"args,omitempty"`

	// literals and ident
	String string `json:"value_string,omitempty"`
	Bool   bool   `json:"value_bool,omitempty"`
	Int    int    `json:"value_int,omitempty"`
	Name   string `json:"name,omitempty"`

	// conditional
	Cond json.RawMessage `json:"cond,omitempty"`
	Then json.RawMessage `json:"then,omitempty"`
	Else json.RawMessage `json:"else,omitempty"`

	// list
	Elems []json.RawMessage `json:"elems,omitempty"`

	// opaque
	TypeHint string `json:"type_hint,omitempty"`
}

type argJSON struct {
	Name string          `json:"name,omitempty"`
	Expr json.RawMessage `json:"expr"`
}

// LoadDocument reads and decodes a resolved-dump file.
func LoadDocument(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDump, err)
	}

	return DecodeDocument(raw)
}

// DecodeDocument decodes one resolved-dump document.
func DecodeDocument(raw []byte) (*Document, error) {
	var dj documentJSON

	err := json.Unmarshal(raw, &dj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDump, err)
	}

	if len(dj.Root) == 0 {
		return nil, fmt.Errorf("%w: missing root expression", ErrMalformedDump)
	}

	root, err := decodeExpr(dj.Root)
	if err != nil {
		return nil, err
	}

	doc := &Document{File: dj.File, Root: root}

	if len(dj.Bindings) > 0 {
		doc.Bindings = make(map[string]Expr, len(dj.Bindings))

		for name, rawExpr := range dj.Bindings {
			expr, err := decodeExpr(rawExpr)
			if err != nil {
				return nil, err
			}

			doc.Bindings[name] = expr
		}
	}

	if len(dj.Components) > 0 {
		doc.Components = make(map[string]Component, len(dj.Components))

		for name, cj := range dj.Components {
			comp := Component{Scope: cj.Scope, IsComponent: cj.IsComponent}

			if len(cj.Body) > 0 {
				body, err := decodeExpr(cj.Body)
				if err != nil {
					return nil, err
				}

				comp.Body = body
			}

			doc.Components[name] = comp
		}
	}

	return doc, nil
}

func decodeExpr(raw json.RawMessage) (Expr, error) {
	var ej exprJSON

	err := json.Unmarshal(raw, &ej)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDump, err)
	}

	switch ej.Kind {
	case kindConstructor:
		call := &ConstructorCall{TypeName: ej.Type, DeclScope: ej.Scope, Pos: ej.Span}
		for _, aj := range ej.Args {
			value, err := decodeExpr(aj.Expr)
			if err != nil {
				return nil, err
			}

			call.Args = append(call.Args, Arg{Name: aj.Name, Value: value})
		}

		return call, nil
	case kindString:
		return &StringLit{Value: ej.String, Pos: ej.Span}, nil
	case kindBool:
		return &BoolLit{Value: ej.Bool, Pos: ej.Span}, nil
	case kindInt:
		return &IntLit{Value: ej.Int, Pos: ej.Span}, nil
	case kindNull:
		return &NullLit{Pos: ej.Span}, nil
	case kindIdent:
		return &Ident{Name: ej.Name, Pos: ej.Span}, nil
	case kindConditional:
		if len(ej.Cond) == 0 || len(ej.Then) == 0 {
			return nil, fmt.Errorf("%w: conditional without cond/then", ErrMalformedDump)
		}

		cond, err := decodeExpr(ej.Cond)
		if err != nil {
			return nil, err
		}

		then, err := decodeExpr(ej.Then)
		if err != nil {
			return nil, err
		}

		out := &Conditional{Cond: cond, Then: then, Pos: ej.Span}

		if len(ej.Else) > 0 {
			alt, err := decodeExpr(ej.Else)
			if err != nil {
				return nil, err
			}

			out.Else = alt
		}

		return out, nil
	case kindList:
		list := &ListLit{Pos: ej.Span}
		for _, rawElem := range ej.Elems {
			elem, err := decodeExpr(rawElem)
			if err != nil {
				return nil, err
			}

			list.Elems = append(list.Elems, elem)
		}

		return list, nil
	case kindClosure:
		return &Closure{Pos: ej.Span}, nil
	case kindOpaque:
		return &Opaque{TypeHint: ej.TypeHint, Pos: ej.Span}, nil
	}

	return nil, fmt.Errorf("%w: unknown expression kind %q", ErrMalformedDump, ej.Kind)
}
