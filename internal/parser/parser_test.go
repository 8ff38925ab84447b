package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mterrors "github.com/conneroisu/mtempl/internal/errors"
	"github.com/conneroisu/mtempl/internal/template"
)

func TestParsePlainText(t *testing.T) {
	tmpl, err := Parse("nothing to see here")
	require.NoError(t, err)
	require.Len(t, tmpl.Elements(), 1)
	assert.Empty(t, tmpl.Properties())
	assert.Equal(t, template.ModeName, tmpl.Mode())
}

func TestParseEscapedBracesOnly(t *testing.T) {
	tmpl, err := Parse("{{hi}}")
	require.NoError(t, err)
	require.Len(t, tmpl.Elements(), 1)
	text, ok := tmpl.Elements()[0].(template.TextElement)
	require.True(t, ok)
	assert.Equal(t, "{hi}", text.Text)
}

func TestParseNamedHoles(t *testing.T) {
	tmpl, err := Parse("User {username} from {ip}")
	require.NoError(t, err)
	assert.Equal(t, template.ModeName, tmpl.Mode())

	props := tmpl.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, template.DesignatorName, props[0].Designator.Kind)
	assert.Equal(t, "username", props[0].Designator.Name)
	assert.Equal(t, "ip", props[1].Designator.Name)
	assert.Equal(t, "{username}", props[0].Source)
}

func TestParseIndexedHoles(t *testing.T) {
	tmpl, err := Parse("{1} before {0}")
	require.NoError(t, err)
	assert.Equal(t, template.ModeIndex, tmpl.Mode())

	props := tmpl.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, template.DesignatorIndex, props[0].Designator.Kind)
	assert.Equal(t, 1, props[0].Designator.Index)
	assert.Equal(t, 0, props[1].Designator.Index)
}

func TestParseOperators(t *testing.T) {
	tmpl, err := Parse("{@user} {$id} {plain}")
	require.NoError(t, err)
	props := tmpl.Properties()
	require.Len(t, props, 3)
	assert.Equal(t, template.OperatorCapture, props[0].Operator)
	assert.Equal(t, "user", props[0].Designator.Name)
	assert.Equal(t, template.OperatorStringify, props[1].Operator)
	assert.Equal(t, "id", props[1].Designator.Name)
	assert.Equal(t, template.OperatorNone, props[2].Operator)
}

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		raw       string
		alignment int
	}{
		{"{x,5}", 5},
		{"{x,-5}", -5},
		{"{x,0}", 0},
		{"{x,10:n}", 10},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			tmpl, err := Parse(tt.raw)
			require.NoError(t, err)
			prop := tmpl.Properties()[0]
			assert.True(t, prop.HasAlignment)
			assert.Equal(t, tt.alignment, prop.Alignment)
		})
	}
}

func TestParseFormat(t *testing.T) {
	tmpl, err := Parse("{when:2006-01-02 15:04}")
	require.NoError(t, err)
	prop := tmpl.Properties()[0]
	assert.Equal(t, "2006-01-02 15:04", prop.Format)
	assert.False(t, prop.HasAlignment)
}

func TestParseAllPartsTogether(t *testing.T) {
	tmpl, err := Parse("{@total,12:n}")
	require.NoError(t, err)
	prop := tmpl.Properties()[0]
	assert.Equal(t, template.OperatorCapture, prop.Operator)
	assert.Equal(t, "total", prop.Designator.Name)
	assert.True(t, prop.HasAlignment)
	assert.Equal(t, 12, prop.Alignment)
	assert.Equal(t, "n", prop.Format)
}

func TestParseDigitPrefixedName(t *testing.T) {
	// A designator with digits and letters is a name, not an index.
	tmpl, err := Parse("{2fast}")
	require.NoError(t, err)
	prop := tmpl.Properties()[0]
	assert.Equal(t, template.DesignatorName, prop.Designator.Kind)
	assert.Equal(t, "2fast", prop.Designator.Name)
	assert.Equal(t, template.ModeName, tmpl.Mode())
}

func TestParseGrammarErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind mterrors.GrammarErrorKind
	}{
		{"unterminated", "before {oops", mterrors.KindUnterminatedHole},
		{"empty designator", "{}", mterrors.KindEmptyDesignator},
		{"operator only", "{@}", mterrors.KindEmptyDesignator},
		{"nested brace", "{a{b}", mterrors.KindBraceInHole},
		{"mixed designators", "{0} {a}", mterrors.KindMixedDesignators},
		{"mixed reversed", "{a} {0}", mterrors.KindMixedDesignators},
		{"duplicate name", "{a} and {a}", mterrors.KindDuplicateName},
		{"trailing chars", "{x )}", mterrors.KindTrailingChars},
		{"space in name", "{not valid}", mterrors.KindTrailingChars},
		{"empty alignment", "{x,}", mterrors.KindEmptyAlignment},
		{"alignment sign only", "{x,-}", mterrors.KindEmptyAlignment},
		{"empty format", "{x:}", mterrors.KindEmptyFormat},
		{"double operator", "{@@x}", mterrors.KindEmptyDesignator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.raw)
			assert.Nil(t, tmpl)
			require.Error(t, err)
			var ge *mterrors.GrammarError
			require.ErrorAs(t, err, &ge)
			assert.Equal(t, tt.kind, ge.Kind)
			assert.Equal(t, tt.raw, ge.Raw)
		})
	}
}

func TestParseDuplicateIndexAllowed(t *testing.T) {
	tmpl, err := Parse("{0} and {0}")
	require.NoError(t, err)
	assert.Len(t, tmpl.Properties(), 2)
}

func TestParseErrorSpans(t *testing.T) {
	_, err := Parse("ok {fine} bad {x,}")
	var ge *mterrors.GrammarError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, 14, ge.Offset)
	assert.Equal(t, "{x,}", ge.Hole)
	assert.NotEmpty(t, ge.Suggestion())
}

func TestParseIsDeterministic(t *testing.T) {
	raw := "User {username} has {@cart,8:n} items"
	a, err := Parse(raw)
	require.NoError(t, err)
	b, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, a.Raw(), b.Raw())
	assert.Equal(t, a.Mode(), b.Mode())
	require.Equal(t, len(a.Elements()), len(b.Elements()))
	for i := range a.Elements() {
		assert.Equal(t, a.Elements()[i], b.Elements()[i])
	}
}

func BenchmarkParse(b *testing.B) {
	raw := "User {username} from {ip} fetched {count,6:n} rows in {elapsed:f2}ms"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(raw); err != nil {
			b.Fatal(err)
		}
	}
}
