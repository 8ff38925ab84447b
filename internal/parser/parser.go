// Package parser turns scanned message-template tokens into immutable
// Template values, enforcing the hole grammar:
//
//	Property ::= "{" ( "@" | "$" )? ( Name | Index )
//	             ( "," "-"? [0-9]+ )? ( ":" [^}]+ )? "}"
//
// Parsing is a pure function of the raw string: equal inputs always produce
// structurally identical templates, and a grammar violation yields a
// *errors.GrammarError with the offending hole's span.
package parser

import (
	"fmt"
	"strconv"

	mterrors "github.com/conneroisu/mtempl/internal/errors"
	"github.com/conneroisu/mtempl/internal/scanner"
	"github.com/conneroisu/mtempl/internal/template"
)

// Parse scans and parses raw into a Template.
func Parse(raw string) (*template.Template, error) {
	tokens := scanner.Scan(raw)
	elements := make([]template.Element, 0, len(tokens))

	names := make(map[string]struct{})
	sawName := false
	sawIndex := false

	for _, tok := range tokens {
		if tok.Kind == scanner.TokenText {
			elements = append(elements, template.TextElement{Text: tok.Text})
			continue
		}
		prop, err := parseHole(raw, tok)
		if err != nil {
			return nil, err
		}
		switch prop.Designator.Kind {
		case template.DesignatorName:
			sawName = true
			if _, dup := names[prop.Designator.Name]; dup {
				return nil, mterrors.NewGrammarError(mterrors.KindDuplicateName, raw, tok.Start, tok.Source(raw),
					fmt.Sprintf("property name %q appears more than once", prop.Designator.Name))
			}
			names[prop.Designator.Name] = struct{}{}
		case template.DesignatorIndex:
			sawIndex = true
		}
		if sawName && sawIndex {
			return nil, mterrors.NewGrammarError(mterrors.KindMixedDesignators, raw, tok.Start, tok.Source(raw),
				"template mixes named and indexed holes")
		}
		elements = append(elements, prop)
	}

	mode := template.ModeName
	if sawIndex {
		mode = template.ModeIndex
	}
	return template.New(raw, elements, mode), nil
}

// parseHole validates one hole body in fixed part order: operator,
// designator, alignment, format.
func parseHole(raw string, tok scanner.Token) (*template.PropertyElement, error) {
	source := tok.Source(raw)
	fail := func(kind mterrors.GrammarErrorKind, msg string) (*template.PropertyElement, error) {
		return nil, mterrors.NewGrammarError(kind, raw, tok.Start, source, msg)
	}

	if tok.Unterminated {
		return fail(mterrors.KindUnterminatedHole, "hole is missing its closing '}'")
	}
	if tok.NestedBrace {
		return fail(mterrors.KindBraceInHole, "hole body contains a bare '{'")
	}

	body := tok.Text
	prop := &template.PropertyElement{Source: source}
	i := 0

	if i < len(body) {
		switch body[i] {
		case '@':
			prop.Operator = template.OperatorCapture
			i++
		case '$':
			prop.Operator = template.OperatorStringify
			i++
		}
	}

	start := i
	digitsOnly := true
	for i < len(body) && isWordChar(body[i]) {
		if body[i] < '0' || body[i] > '9' {
			digitsOnly = false
		}
		i++
	}
	if i == start {
		return fail(mterrors.KindEmptyDesignator, "hole has no property name or index")
	}
	designator := body[start:i]
	if digitsOnly {
		index, err := strconv.Atoi(designator)
		if err != nil {
			// Index exceeds the int range; treat it as a name so the
			// hole still parses deterministically.
			prop.Designator = template.Designator{Kind: template.DesignatorName, Name: designator}
		} else {
			prop.Designator = template.Designator{Kind: template.DesignatorIndex, Index: index}
		}
	} else {
		prop.Designator = template.Designator{Kind: template.DesignatorName, Name: designator}
	}

	if i < len(body) && body[i] == ',' {
		i++
		negative := false
		if i < len(body) && body[i] == '-' {
			negative = true
			i++
		}
		start = i
		for i < len(body) && body[i] >= '0' && body[i] <= '9' {
			i++
		}
		if i == start {
			return fail(mterrors.KindEmptyAlignment, "alignment is missing its width")
		}
		width, err := strconv.Atoi(body[start:i])
		if err != nil {
			return fail(mterrors.KindEmptyAlignment, "alignment width is out of range")
		}
		if negative {
			width = -width
		}
		prop.Alignment = width
		prop.HasAlignment = true
	}

	if i < len(body) && body[i] == ':' {
		i++
		if i == len(body) {
			return fail(mterrors.KindEmptyFormat, "':' is not followed by a format")
		}
		prop.Format = body[i:]
		i = len(body)
	}

	if i != len(body) {
		return fail(mterrors.KindTrailingChars,
			fmt.Sprintf("unexpected %q after the hole's parts", body[i:]))
	}
	return prop, nil
}

func isWordChar(c byte) bool {
	return c == '_' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}
