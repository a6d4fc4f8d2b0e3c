package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantFM  string
		wantBod string
		wantHad bool
	}{
		{"no frontmatter", "# Title\n\nHello\n", "", "# Title\n\nHello\n", false},
		{"yaml block", "---\nkey: value\n---\n# Title\n", "key: value\n", "# Title\n", true},
		{"empty block", "---\n---\n# Title\n", "", "# Title\n", true},
		{"closing at eof", "---\ntitle: x\n---", "title: x\n", "", true},
		{"dashes later in body", "# Title\n---\nnot: fm\n---\n", "", "# Title\n---\nnot: fm\n---\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, had, err := Split(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.wantHad, had)
			require.Equal(t, tt.wantFM, fm)
			require.Equal(t, tt.wantBod, body)
		})
	}
}

func TestSplitMissingClosingDelimiter(t *testing.T) {
	input := "---\nkey: value\n# Title\n"
	_, body, had, err := Split(input)
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, had)
	require.Equal(t, input, body)
}

func TestJoin(t *testing.T) {
	require.Equal(t, "body\n", Join("", "body\n"))
	require.Equal(t, "---\na: 1\n---\nbody\n", Join("a: 1\n", "body\n"))
	require.Equal(t, "---\na: 1\n---\n", Join("a: 1", ""))
}

func TestParseYAMLAndKeys(t *testing.T) {
	fields, err := ParseYAML("title: Hello\ntags: [a, b]\n")
	require.NoError(t, err)
	require.Equal(t, "Hello", fields["title"])

	empty, err := ParseYAML("  \n")
	require.NoError(t, err)
	require.Empty(t, empty)

	keys, err := Keys("zeta: 1\nalpha: 2\n")
	require.NoError(t, err)
	require.Equal(t, []string{"zeta", "alpha"}, keys)

	_, err = ParseYAML("a: [unclosed\n")
	require.Error(t, err)
}
