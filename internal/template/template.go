// Package template defines the parsed representation of a message template.
// This package contains the shared value types to avoid circular dependencies
// between the scanner, parser, cache, capture, and render packages.
package template

import "strconv"

// Operator is the optional capture operator that prefixes a hole's
// designator and hints how the bound value should be treated by sinks.
type Operator int

const (
	// OperatorNone leaves the capture strategy implementation-defined.
	OperatorNone Operator = iota
	// OperatorCapture ('@') requests the value's structure be preserved.
	OperatorCapture
	// OperatorStringify ('$') requests the value be captured as text.
	OperatorStringify
)

// String returns the operator as it appears in template source.
func (o Operator) String() string {
	switch o {
	case OperatorCapture:
		return "@"
	case OperatorStringify:
		return "$"
	default:
		return ""
	}
}

// DesignatorKind discriminates the two designator variants.
type DesignatorKind int

const (
	// DesignatorName identifies a hole by property name.
	DesignatorName DesignatorKind = iota
	// DesignatorIndex identifies a hole by argument position.
	DesignatorIndex
)

// Designator names the value a hole binds to: either a property name or a
// non-negative argument index. The two variants are mutually exclusive and
// a single Template never mixes them.
type Designator struct {
	// Kind selects the active variant.
	Kind DesignatorKind
	// Name is the property name; valid only when Kind is DesignatorName.
	Name string
	// Index is the argument position; valid only when Kind is DesignatorIndex.
	Index int
}

// Key returns the designator's stable property key: the name for name
// designators, the decimal index for index designators. Keys identify
// bindings in captured events and in serialized event maps.
func (d Designator) Key() string {
	if d.Kind == DesignatorIndex {
		return strconv.Itoa(d.Index)
	}
	return d.Name
}

// Mode reports whether a Template binds arguments by name or by index.
// The mode is fixed at parse time from the designators the template uses.
type Mode int

const (
	// ModeName pairs holes with arguments positionally by occurrence order.
	ModeName Mode = iota
	// ModeIndex pairs each hole with the argument at its declared index.
	ModeIndex
)

// String returns a human-readable mode label.
func (m Mode) String() string {
	if m == ModeIndex {
		return "index"
	}
	return "name"
}

// Element is one segment of a parsed template: either a literal text run or
// a property hole. Elements appear in the order they occur in the source.
type Element interface {
	element()
}

// TextElement is a literal run of template text with brace escapes
// ({{ and }}) already resolved to single braces.
type TextElement struct {
	// Text is the literal content, ready to emit verbatim.
	Text string
}

func (TextElement) element() {}

// PropertyElement is one parsed hole.
type PropertyElement struct {
	// Operator is the capture operator, OperatorNone when absent.
	Operator Operator
	// Designator identifies the value this hole binds to.
	Designator Designator
	// Alignment is the signed minimum field width; negative widths
	// left-justify, positive widths right-justify. Valid only when
	// HasAlignment is true.
	Alignment int
	// HasAlignment reports whether an alignment was written in the source.
	HasAlignment bool
	// Format is the opaque format specifier passed through to the
	// formatter, empty when absent.
	Format string
	// Source is the original hole text including braces, emitted verbatim
	// when the property is unbound at render time.
	Source string
}

func (*PropertyElement) element() {}

// Template is the immutable parsed form of a raw message-template string.
// Its raw source is its identity: two templates parsed from equal raw
// strings are structurally identical, and the raw string doubles as the
// cache key and the event-type grouping key.
type Template struct {
	raw        string
	elements   []Element
	properties []*PropertyElement
	mode       Mode
}

// New assembles a Template from parsed elements. It is intended for the
// parser; callers elsewhere obtain templates from the cache.
func New(raw string, elements []Element, mode Mode) *Template {
	t := &Template{raw: raw, elements: elements, mode: mode}
	for _, el := range elements {
		if p, ok := el.(*PropertyElement); ok {
			t.properties = append(t.properties, p)
		}
	}
	return t
}

// Raw returns the original template source text.
func (t *Template) Raw() string { return t.raw }

// Elements returns the ordered element sequence. Callers must not modify
// the returned slice.
func (t *Template) Elements() []Element { return t.elements }

// Properties returns the property elements in source order. Callers must
// not modify the returned slice.
func (t *Template) Properties() []*PropertyElement { return t.properties }

// Mode returns the template's binding mode. Templates without properties
// report ModeName.
func (t *Template) Mode() Mode { return t.mode }
