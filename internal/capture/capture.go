// Package capture binds ordered argument lists onto parsed templates,
// producing immutable captured events.
//
// The binder never fails: argument-count mismatches are absorbed into
// defined behavior (excess arguments are ignored, missing ones leave
// properties unbound) so capturing stays usable on logging hot paths.
package capture

import (
	"encoding/json"
	"fmt"

	"github.com/conneroisu/mtempl/internal/template"
)

// Hint echoes a hole's capture operator onto its binding. The binder
// records intent only; applying it is a sink or formatter concern.
type Hint int

const (
	// HintDefault leaves the capture strategy implementation-defined.
	HintDefault Hint = iota
	// HintStructure ('@') asks sinks to preserve the value's structure.
	HintStructure
	// HintStringify ('$') asks sinks to capture the value as text.
	HintStringify
)

func hintFor(op template.Operator) Hint {
	switch op {
	case template.OperatorCapture:
		return HintStructure
	case template.OperatorStringify:
		return HintStringify
	default:
		return HintDefault
	}
}

// Property is one captured binding.
type Property struct {
	// Key is the designator's stable key: the property name, or the
	// decimal index for indexed holes.
	Key string
	// Value is the captured argument, opaque to this package.
	Value any
	// Hint carries the hole's capture operator.
	Hint Hint
}

// Event is a template reference plus its ordered property bindings.
// Events are immutable once built and safe for concurrent renderers.
type Event struct {
	tmpl  *template.Template
	props []Property
	index map[string]int
}

// Bind pairs args with t's holes according to t's binding mode.
//
// Index mode: the hole with index k binds args[k]; out-of-range indexes
// stay unbound. Name mode: the i-th hole in source order binds args[i].
func Bind(t *template.Template, args ...any) *Event {
	holes := t.Properties()
	ev := &Event{
		tmpl:  t,
		props: make([]Property, 0, len(holes)),
		index: make(map[string]int, len(holes)),
	}
	for i, hole := range holes {
		pos := i
		if t.Mode() == template.ModeIndex {
			pos = hole.Designator.Index
		}
		if pos >= len(args) {
			continue
		}
		key := hole.Designator.Key()
		if _, dup := ev.index[key]; dup {
			// Repeated index designators bind the same argument once.
			continue
		}
		ev.index[key] = len(ev.props)
		ev.props = append(ev.props, Property{Key: key, Value: args[pos], Hint: hintFor(hole.Operator)})
	}
	return ev
}

// Template returns the event's template.
func (e *Event) Template() *template.Template { return e.tmpl }

// Properties returns the bindings in template source order. Callers must
// not modify the returned slice.
func (e *Event) Properties() []Property { return e.props }

// Lookup returns the binding for a designator key.
func (e *Event) Lookup(key string) (Property, bool) {
	i, ok := e.index[key]
	if !ok {
		return Property{}, false
	}
	return e.props[i], true
}

// reservedTemplateKey carries the raw template string in serialized events
// so a consumer in another process can re-render them.
const reservedTemplateKey = "template"

// MarshalJSON serializes the event as the (template-string, property map)
// shape sinks persist: a JSON object with the reserved "template" key plus
// one member per bound property. Stringify hints flatten the value to its
// string representation; structure hints and defaults keep the native
// value for the encoder to handle.
func (e *Event) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.props)+1)
	out[reservedTemplateKey] = e.tmpl.Raw()
	for _, p := range e.props {
		if p.Key == reservedTemplateKey {
			// A user property cannot shadow the reserved key.
			out["@"+p.Key] = e.serialized(p)
			continue
		}
		out[p.Key] = e.serialized(p)
	}
	return json.Marshal(out)
}

func (e *Event) serialized(p Property) any {
	if p.Hint == HintStringify {
		return fmt.Sprint(p.Value)
	}
	return p.Value
}
