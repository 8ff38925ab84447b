// Package render turns captured events back into text.
//
// Rendering walks the template's elements in order, emits literal runs
// verbatim, and substitutes bound property values, applying alignment
// padding itself and delegating format-specifier interpretation to the
// caller's formatter. It is a pure function of (template, bindings,
// formatter) and may run concurrently over the same event.
package render

import (
	"fmt"
	"strings"

	"github.com/conneroisu/mtempl/internal/capture"
	"github.com/conneroisu/mtempl/internal/template"
)

// Formatter converts one bound value to text. The format string is the
// hole's opaque specifier passed through verbatim, empty when the hole has
// none; culture- and type-specific rules live entirely in the formatter.
type Formatter func(value any, format string) string

// UnboundPolicy selects what to emit for properties with no captured value.
type UnboundPolicy int

const (
	// UnboundVerbatim emits the original hole text, e.g. "{name}".
	UnboundVerbatim UnboundPolicy = iota
	// UnboundSentinel emits a fixed sentinel string instead.
	UnboundSentinel
)

// Options configures rendering. The zero value is the default policy.
type Options struct {
	// Unbound selects the unbound-property policy.
	Unbound UnboundPolicy
	// Sentinel is the replacement text used with UnboundSentinel.
	Sentinel string
}

// Render renders the event with the default options: unbound holes are
// emitted verbatim. A nil formatter falls back to fmt.Sprint and ignores
// format specifiers.
func Render(event *capture.Event, formatter Formatter) string {
	return RenderWith(event, formatter, Options{})
}

// RenderWith renders the event under explicit options.
func RenderWith(event *capture.Event, formatter Formatter, opts Options) string {
	if formatter == nil {
		formatter = func(value any, _ string) string { return fmt.Sprint(value) }
	}

	var b strings.Builder
	for _, el := range event.Template().Elements() {
		switch el := el.(type) {
		case template.TextElement:
			b.WriteString(el.Text)
		case *template.PropertyElement:
			prop, bound := event.Lookup(el.Designator.Key())
			if !bound {
				if opts.Unbound == UnboundSentinel {
					b.WriteString(opts.Sentinel)
				} else {
					b.WriteString(el.Source)
				}
				continue
			}
			text := formatter(prop.Value, el.Format)
			if el.HasAlignment {
				text = pad(text, el.Alignment)
			}
			b.WriteString(text)
		}
	}
	return b.String()
}

// pad space-pads text to the alignment's minimum width. Positive widths
// right-justify, negative widths left-justify; text at or over the width
// is never truncated.
func pad(text string, alignment int) string {
	width := alignment
	if width < 0 {
		width = -width
	}
	gap := width - len(text)
	if gap <= 0 {
		return text
	}
	spaces := strings.Repeat(" ", gap)
	if alignment > 0 {
		return spaces + text
	}
	return text + spaces
}
