package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanPlainText(t *testing.T) {
	tokens := Scan("hello world")
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenText, tokens[0].Kind)
	assert.Equal(t, "hello world", tokens[0].Text)
	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, 11, tokens[0].End)
}

func TestScanEmpty(t *testing.T) {
	assert.Empty(t, Scan(""))
}

func TestScanSingleHole(t *testing.T) {
	tokens := Scan("User {username} logged in")
	require.Len(t, tokens, 3)

	assert.Equal(t, TokenText, tokens[0].Kind)
	assert.Equal(t, "User ", tokens[0].Text)

	assert.Equal(t, TokenHole, tokens[1].Kind)
	assert.Equal(t, "username", tokens[1].Text)
	assert.Equal(t, 5, tokens[1].Start)
	assert.Equal(t, 15, tokens[1].End)
	assert.Equal(t, "{username}", tokens[1].Source("User {username} logged in"))

	assert.Equal(t, TokenText, tokens[2].Kind)
	assert.Equal(t, " logged in", tokens[2].Text)
}

func TestScanAdjacentHoles(t *testing.T) {
	tokens := Scan("{first}{last}")
	require.Len(t, tokens, 2)
	assert.Equal(t, "first", tokens[0].Text)
	assert.Equal(t, "last", tokens[1].Text)
}

func TestScanEscapedBraces(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		text string
	}{
		{"double open", "{{", "{"},
		{"double close", "}}", "}"},
		{"doubled word", "{{hi}}", "{hi}"},
		{"stray close", "a}b", "a}b"},
		{"close at end", "done}", "done}"},
		{"mixed", "a{{b}}c", "a{b}c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Scan(tt.raw)
			require.Len(t, tokens, 1)
			assert.Equal(t, TokenText, tokens[0].Kind)
			assert.Equal(t, tt.text, tokens[0].Text)
		})
	}
}

func TestScanEscapeAroundHole(t *testing.T) {
	// {{{x}}} is a literal '{', the hole x, and a literal '}'.
	tokens := Scan("{{{x}}}")
	require.Len(t, tokens, 3)
	assert.Equal(t, "{", tokens[0].Text)
	assert.Equal(t, TokenHole, tokens[1].Kind)
	assert.Equal(t, "x", tokens[1].Text)
	assert.Equal(t, "}", tokens[2].Text)
}

func TestScanUnterminatedHole(t *testing.T) {
	tokens := Scan("before {oops")
	require.Len(t, tokens, 2)
	hole := tokens[1]
	assert.Equal(t, TokenHole, hole.Kind)
	assert.True(t, hole.Unterminated)
	assert.Equal(t, "oops", hole.Text)
	assert.Equal(t, len("before {oops"), hole.End)
}

func TestScanNestedBrace(t *testing.T) {
	tokens := Scan("{a{b}")
	require.Len(t, tokens, 1)
	hole := tokens[0]
	assert.Equal(t, TokenHole, hole.Kind)
	assert.True(t, hole.NestedBrace)
	assert.False(t, hole.Unterminated)
	assert.Equal(t, "a{b", hole.Text)
}

func TestScanEmptyHole(t *testing.T) {
	tokens := Scan("{}")
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenHole, tokens[0].Kind)
	assert.Equal(t, "", tokens[0].Text)
	assert.False(t, tokens[0].Unterminated)
}

func TestScanHoleWithAlignmentAndFormat(t *testing.T) {
	tokens := Scan("[{x,-5:000}]")
	require.Len(t, tokens, 3)
	assert.Equal(t, "x,-5:000", tokens[1].Text)
}

func TestScanSpansCoverInput(t *testing.T) {
	raw := "a{{b}}{x}c{y,3}{"
	tokens := Scan(raw)
	prev := 0
	for _, tok := range tokens {
		assert.Equal(t, prev, tok.Start, "tokens must be contiguous")
		assert.LessOrEqual(t, tok.End, len(raw))
		prev = tok.End
	}
	assert.Equal(t, len(raw), prev)
}
