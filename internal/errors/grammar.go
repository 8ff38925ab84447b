// Package errors provides the structured error types used across mtempl,
// with position information and actionable suggestions for template
// grammar violations.
package errors

import (
	"errors"
	"fmt"
)

// GrammarErrorKind categorizes template grammar violations.
type GrammarErrorKind string

const (
	KindUnterminatedHole GrammarErrorKind = "unterminated_hole"
	KindEmptyDesignator  GrammarErrorKind = "empty_designator"
	KindBraceInHole      GrammarErrorKind = "brace_in_hole"
	KindMixedDesignators GrammarErrorKind = "mixed_designators"
	KindDuplicateName    GrammarErrorKind = "duplicate_name"
	KindTrailingChars    GrammarErrorKind = "trailing_chars"
	KindEmptyAlignment   GrammarErrorKind = "empty_alignment"
	KindEmptyFormat      GrammarErrorKind = "empty_format"
)

// GrammarError describes why a raw template string could not be parsed.
// A grammar error is fatal for that raw string: no Template is constructed
// and nothing is cached beyond the error itself.
type GrammarError struct {
	// Kind is the violation category.
	Kind GrammarErrorKind
	// Raw is the template source that failed to parse.
	Raw string
	// Offset is the byte offset in Raw where the offending hole begins.
	Offset int
	// Hole is the offending hole's source text including braces, empty
	// for template-wide violations such as mixed designators.
	Hole string
	// Message is the human-readable description.
	Message string
}

// Error implements the error interface.
func (e *GrammarError) Error() string {
	if e.Hole != "" {
		return fmt.Sprintf("template grammar error at offset %d: %s: %q", e.Offset, e.Message, e.Hole)
	}
	return fmt.Sprintf("template grammar error: %s", e.Message)
}

// Is matches grammar errors by kind, enabling errors.Is comparisons
// against kind sentinels produced by NewGrammarError.
func (e *GrammarError) Is(target error) bool {
	var t *GrammarError
	if errors.As(target, &t) {
		return t.Kind == "" || e.Kind == t.Kind
	}
	return false
}

// Suggestion returns a short hint for fixing the violation, empty when no
// generic advice applies.
func (e *GrammarError) Suggestion() string {
	switch e.Kind {
	case KindUnterminatedHole:
		return "close the hole with '}' or escape the brace as '{{'"
	case KindEmptyDesignator:
		return "name the hole, e.g. '{count}' or '{0}'"
	case KindBraceInHole:
		return "holes cannot nest; escape literal braces as '{{' and '}}'"
	case KindMixedDesignators:
		return "use either named holes or indexed holes, not both"
	case KindDuplicateName:
		return "each property name may appear only once per template"
	case KindTrailingChars:
		return "a hole is '{' operator? name alignment? format? '}'"
	case KindEmptyAlignment:
		return "alignment needs a width, e.g. '{x,8}' or '{x,-8}'"
	case KindEmptyFormat:
		return "':' must be followed by a format, e.g. '{x:000}'"
	default:
		return ""
	}
}

// NewGrammarError builds a GrammarError for the hole starting at offset.
func NewGrammarError(kind GrammarErrorKind, raw string, offset int, hole, message string) *GrammarError {
	return &GrammarError{Kind: kind, Raw: raw, Offset: offset, Hole: hole, Message: message}
}

// IsGrammarError reports whether err is (or wraps) a GrammarError.
func IsGrammarError(err error) bool {
	var ge *GrammarError
	return errors.As(err, &ge)
}
