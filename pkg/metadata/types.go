// Package metadata provides the known-widget metadata table: a read-only
// map from widget-type name to static capability facts plus a declarative
// attribute-extraction schema. The table is a versioned, regenerable
// artifact produced offline by exercising real framework widgets; this
// package only reads it.
package metadata

import (
	"encoding/json"
	"fmt"
)

// Role classifies the accessibility role a widget exposes.
type Role string

// Role constants.
const (
	RoleNone      Role = "none"
	RoleContainer Role = "container"
	RoleText      Role = "text"
	RoleImage     Role = "image"
	RoleButton    Role = "button"
	RoleToggle    Role = "toggle"
	RoleTextField Role = "text_field"
	RoleSlider    Role = "slider"
	RoleList      Role = "list"
	RoleListItem  Role = "list_item"
	RoleTab       Role = "tab"
	RoleDialog    Role = "dialog"
)

// ControlKind refines interactive roles into concrete control types.
type ControlKind string

// ControlKind constants.
const (
	ControlNone      ControlKind = "none"
	ControlButton    ControlKind = "button"
	ControlCheckbox  ControlKind = "checkbox"
	ControlSwitch    ControlKind = "switch"
	ControlRadio     ControlKind = "radio"
	ControlSlider    ControlKind = "slider"
	ControlTextField ControlKind = "text_field"
	ControlLink      ControlKind = "link"
)

// LabelSource records where a label value came from. The provenance
// survives schema-driven extraction so that rules can distinguish, say,
// a tooltip-sourced label from a semantics override.
type LabelSource string

// LabelSource constants.
const (
	LabelSourceNone            LabelSource = ""
	LabelSourceTooltip         LabelSource = "tooltip"
	LabelSourceTextChild       LabelSource = "text_child"
	LabelSourceSemantics       LabelSource = "semantics_override"
	LabelSourceInputDecoration LabelSource = "input_decoration"
	LabelSourceCustomParameter LabelSource = "custom_parameter"
	LabelSourceValueToString   LabelSource = "value_to_string"
	LabelSourceOther           LabelSource = "other"
)

// Attribute names a semantic property the extraction schema can populate.
type Attribute string

// Attribute constants.
const (
	AttrLabel   Attribute = "label"
	AttrTooltip Attribute = "tooltip"
	AttrValue   Attribute = "value"
	AttrToggled Attribute = "toggled"
	AttrChecked Attribute = "checked"
)

// InteractionFlags are the static capability facts recorded per widget.
type InteractionFlags struct {
	Focusable     bool `json:"focusable,omitempty"`
	Tappable      bool `json:"tappable,omitempty"`
	LongPressable bool `json:"long_pressable,omitempty"`
	Adjustable    bool `json:"adjustable,omitempty"`
	Toggleable    bool `json:"toggleable,omitempty"`
	Checkable     bool `json:"checkable,omitempty"`
	Scrollable    bool `json:"scrollable,omitempty"`
	Dismissible   bool `json:"dismissible,omitempty"`
}

// Source is one attribute-extraction strategy. The variant set is sealed:
// PropSource, PositionalSource, and SlotSource. Resolution tries sources in
// schema order and stops at the first success.
type Source interface {
	// As returns the label-source override this strategy forces, or
	// LabelSourceNone to keep the default provenance.
	As() LabelSource

	isSource()
}

// PropSource extracts an attribute from a named argument.
type PropSource struct {
	Name     string
	Override LabelSource
}

// As returns the forced label-source override.
func (s PropSource) As() LabelSource { return s.Override }

func (s PropSource) isSource() {}

// PositionalSource extracts an attribute from a positional argument.
type PositionalSource struct {
	Index    int
	Override LabelSource
}

// As returns the forced label-source override.
func (s PositionalSource) As() LabelSource { return s.Override }

func (s PositionalSource) isSource() {}

// SlotSource extracts an attribute from a named-slot child. A label sourced
// this way propagates the child's own guarantee rather than inventing one.
type SlotSource struct {
	Slot     string
	Override LabelSource
}

// As returns the forced label-source override.
func (s SlotSource) As() LabelSource { return s.Override }

func (s SlotSource) isSource() {}

// Schema maps attributes to their ordered extraction strategies.
type Schema map[Attribute][]Source

// Record is the immutable capability record for one widget type.
type Record struct {
	Role        Role             `json:"role"`
	Control     ControlKind      `json:"control,omitempty"`
	Flags       InteractionFlags `json:"flags,omitempty"`
	Merges      bool             `json:"merges_descendants,omitempty"`
	Excludes    bool             `json:"excludes_descendants,omitempty"`
	Blocks      bool             `json:"blocks_behind,omitempty"`
	IsContainer bool             `json:"pure_container,omitempty"`

	// SlotOrder lists named slots in semantic traversal order. Slot
	// children are visited in this order before positional children.
	SlotOrder []string `json:"slot_order,omitempty"`

	Schema Schema `json:"schema,omitempty"`
}

// sourceJSON is the wire form of a Source variant.
type sourceJSON struct {
	From  string      `json:"from"`
	Name  string      `json:"name,omitempty"`
	Index int         `json:"index,omitempty"`
	Slot  string      `json:"slot,omitempty"`
	As    LabelSource `json:"as,omitempty"`
}

// Wire form discriminators for extraction sources.
const (
	sourceFromProp       = "prop"
	sourceFromPositional = "positional"
	sourceFromSlot       = "slot"
)

// UnmarshalJSON decodes the schema's ordered source lists, dispatching on
// the "from" discriminator.
func (sch *Schema) UnmarshalJSON(data []byte) error {
	var raw map[Attribute][]sourceJSON

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("decode schema: %w", err)
	}

	out := make(Schema, len(raw))

	for attr, entries := range raw {
		sources := make([]Source, 0, len(entries))

		for _, entry := range entries {
			source, convErr := entry.toSource()
			if convErr != nil {
				return fmt.Errorf("attribute %q: %w", attr, convErr)
			}

			sources = append(sources, source)
		}

		out[attr] = sources
	}

	*sch = out

	return nil
}

// MarshalJSON encodes the schema back to its wire form.
func (sch Schema) MarshalJSON() ([]byte, error) {
	raw := make(map[Attribute][]sourceJSON, len(sch))

	for attr, sources := range sch {
		entries := make([]sourceJSON, 0, len(sources))

		for _, source := range sources {
			entries = append(entries, toSourceJSON(source))
		}

		raw[attr] = entries
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}

	return encoded, nil
}

func (entry sourceJSON) toSource() (Source, error) {
	switch entry.From {
	case sourceFromProp:
		return PropSource{Name: entry.Name, Override: entry.As}, nil
	case sourceFromPositional:
		return PositionalSource{Index: entry.Index, Override: entry.As}, nil
	case sourceFromSlot:
		return SlotSource{Slot: entry.Slot, Override: entry.As}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownSourceKind, entry.From)
	}
}

func toSourceJSON(source Source) sourceJSON {
	switch src := source.(type) {
	case PropSource:
		return sourceJSON{From: sourceFromProp, Name: src.Name, As: src.Override}
	case PositionalSource:
		return sourceJSON{From: sourceFromPositional, Index: src.Index, As: src.Override}
	case SlotSource:
		return sourceJSON{From: sourceFromSlot, Slot: src.Slot, As: src.Override}
	default:
		return sourceJSON{}
	}
}
