package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

func utf16Bytes(t *testing.T, s string, order unicode.Endianness, bom unicode.BOMPolicy) []byte {
	t.Helper()
	out, err := unicode.UTF16(order, bom).NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return out
}

func TestResolveEncodingAutoPriority(t *testing.T) {
	latin, err := charmap.Windows1252.NewEncoder().Bytes([]byte("café – naïve"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		raw      []byte
		wantName string
		wantText string
	}{
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "héllo"...), EncodingUTF8, "\uFEFFhéllo"},
		{"utf-16le bom", utf16Bytes(t, "héllo", unicode.LittleEndian, unicode.UseBOM), EncodingUTF16LE, "héllo"},
		{"utf-16be bom", utf16Bytes(t, "héllo", unicode.BigEndian, unicode.UseBOM), EncodingUTF16BE, "héllo"},
		{"plain utf-8", []byte("package main\n"), EncodingUTF8, "package main\n"},
		{"bomless utf-16le", utf16Bytes(t, "résumé text\n", unicode.LittleEndian, unicode.IgnoreBOM), EncodingUTF16LE, "résumé text\n"},
		{"bomless utf-16be", utf16Bytes(t, "résumé text\n", unicode.BigEndian, unicode.IgnoreBOM), EncodingUTF16BE, "résumé text\n"},
		{"legacy single byte", latin, EncodingWindows1252, "café – naïve"},
		{"empty", nil, EncodingUTF8, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, name, err := ResolveEncoding(tt.raw, "")
			require.NoError(t, err)
			require.Equal(t, tt.wantName, name)
			require.Equal(t, tt.wantText, text)
		})
	}
}

func TestResolveEncodingAutoNeverFails(t *testing.T) {
	raw := []byte{0xEF, 0xBB, 0xBF, 'o', 'k', 0xFF, 0xFE, 0xFD}
	text, name, err := ResolveEncoding(raw, "")
	require.NoError(t, err)
	require.Equal(t, EncodingUTF8, name)
	require.Contains(t, text, "\uFFFD")
	require.True(t, strings.HasPrefix(text, "\uFEFFok"))
}

func TestResolveEncodingForced(t *testing.T) {
	latin, err := charmap.Windows1252.NewEncoder().Bytes([]byte("naïve"))
	require.NoError(t, err)

	text, name, err := ResolveEncoding(latin, "windows-1252")
	require.NoError(t, err)
	require.Equal(t, "naïve", text)
	require.Equal(t, EncodingWindows1252, name)

	text, name, err = ResolveEncoding([]byte("plain"), " UTF8 ")
	require.NoError(t, err)
	require.Equal(t, "plain", text)
	require.Equal(t, EncodingUTF8, name)

	le := utf16Bytes(t, "hi", unicode.LittleEndian, unicode.IgnoreBOM)
	text, name, err = ResolveEncoding(le, "utf-16le")
	require.NoError(t, err)
	require.Equal(t, "hi", text)
	require.Equal(t, EncodingUTF16LE, name)
}

func TestResolveEncodingForcedFailures(t *testing.T) {
	tests := []struct {
		name   string
		raw    []byte
		forced string
	}{
		{"invalid utf-8", []byte{'a', 0xFF, 'b'}, "utf-8"},
		{"unknown name", []byte("x"), "klingon-8"},
		{"odd utf-16 length", []byte{'a', 0, 'b'}, "utf-16le"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ResolveEncoding(tt.raw, tt.forced)
			require.ErrorIs(t, err, ErrEncoding)
			require.True(t, ferrors.HasCategory(err, ferrors.CategoryEncoding))
		})
	}
}

func TestForcedEncodingAcceptsGenuineReplacementChar(t *testing.T) {
	raw := []byte("bad \uFFFD char")
	text, _, err := ResolveEncoding(raw, "utf-8")
	require.NoError(t, err)
	require.Equal(t, "bad \uFFFD char", text)
}

func TestDetectEncodingPlainASCIIWithNULsIsUTF8(t *testing.T) {
	// ASCII-only UTF-16 is also valid UTF-8; strict UTF-8 wins by priority.
	raw := utf16Bytes(t, "abc", unicode.LittleEndian, unicode.IgnoreBOM)
	require.Equal(t, EncodingUTF8, DetectEncoding(raw))
}
