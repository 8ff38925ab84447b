// Package scanner lexes raw message-template strings into literal text runs
// and hole bodies.
//
// The scanner resolves brace escaping ({{ and }}) and records the byte span
// of every hole, but performs no grammar validation of its own: malformed
// holes are passed through with flags for the parser to reject, so scanning
// never fails regardless of input.
package scanner

import "strings"

// TokenKind discriminates scanner output tokens.
type TokenKind int

const (
	// TokenText is a literal run with escapes already resolved.
	TokenText TokenKind = iota
	// TokenHole is the raw inner text of one {...} hole, braces excluded.
	TokenHole
)

// Token is one lexed segment of a raw template string.
type Token struct {
	// Kind selects text run or hole body.
	Kind TokenKind
	// Text is the literal content for text tokens, or the raw hole body
	// (between the braces, unparsed) for hole tokens.
	Text string
	// Start is the byte offset of the token in the raw string. For holes
	// this is the offset of the opening brace.
	Start int
	// End is the byte offset one past the token, including the closing
	// brace for terminated holes.
	End int
	// Unterminated marks a hole whose closing brace is missing; the body
	// runs to the end of the raw string.
	Unterminated bool
	// NestedBrace marks a hole whose body contains a bare '{'.
	NestedBrace bool
}

// Source returns the token's original source text in raw.
func (t Token) Source(raw string) string {
	return raw[t.Start:t.End]
}

// Scan lexes raw left to right. An unescaped '{' opens a hole that runs to
// the next '}'; '{{' and '}}' emit single literal braces; a '}' outside any
// hole is emitted as a literal '}'.
func Scan(raw string) []Token {
	var tokens []Token
	var text strings.Builder
	textStart := 0

	flushText := func(end int) {
		if text.Len() > 0 {
			tokens = append(tokens, Token{Kind: TokenText, Text: text.String(), Start: textStart, End: end})
			text.Reset()
		}
		textStart = end
	}

	i := 0
	for i < len(raw) {
		c := raw[i]
		switch c {
		case '{':
			if i+1 < len(raw) && raw[i+1] == '{' {
				text.WriteByte('{')
				i += 2
				continue
			}
			flushText(i)
			tok := scanHole(raw, i)
			tokens = append(tokens, tok)
			i = tok.End
			textStart = i
		case '}':
			// A stray '}' is literal, mirroring the '}}' escape.
			text.WriteByte('}')
			if i+1 < len(raw) && raw[i+1] == '}' {
				i += 2
			} else {
				i++
			}
		default:
			text.WriteByte(c)
			i++
		}
	}
	flushText(len(raw))
	return tokens
}

// scanHole consumes one hole starting at the opening brace at offset start.
func scanHole(raw string, start int) Token {
	tok := Token{Kind: TokenHole, Start: start}
	for i := start + 1; i < len(raw); i++ {
		switch raw[i] {
		case '}':
			tok.Text = raw[start+1 : i]
			tok.End = i + 1
			return tok
		case '{':
			tok.NestedBrace = true
		}
	}
	tok.Text = raw[start+1:]
	tok.End = len(raw)
	tok.Unterminated = true
	return tok
}
