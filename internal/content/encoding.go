package content

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Canonical encoding names reported in Decoded.Encoding.
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF16LE     = "utf-16le"
	EncodingUTF16BE     = "utf-16be"
	EncodingWindows1252 = "windows-1252"
)

const (
	utf16SampleSize = 4096
	// A sample is treated as BOM-less UTF-16 when at least 3 in 10 bytes
	// are NUL and 9 in 10 of those NULs sit on the same byte parity.
	utf16NulRatio    = 0.3
	utf16ParityRatio = 0.9
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ResolveEncoding decodes raw into text.
//
// With a forced encoding name the decode is strict and any invalid input is
// an error wrapping ErrEncoding. Without one the encoding is detected in this
// order: byte-order mark, strict UTF-8, BOM-less UTF-16 by NUL distribution,
// and finally windows-1252. Detected decodes substitute U+FFFD for
// undecodable sequences and never fail.
func ResolveEncoding(raw []byte, forced string) (text string, name string, err error) {
	if strings.TrimSpace(forced) != "" {
		return decodeForced(raw, forced)
	}
	text, name = detect(raw)
	return text, name, nil
}

// DetectEncoding reports which encoding auto-detection would pick for raw.
func DetectEncoding(raw []byte) string {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return EncodingUTF8
	case bytes.HasPrefix(raw, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(raw, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(raw):
		return EncodingUTF8
	}
	if guess := guessUTF16(raw); guess != "" {
		return guess
	}
	return EncodingWindows1252
}

func detect(raw []byte) (string, string) {
	name := DetectEncoding(raw)
	switch name {
	case EncodingUTF8:
		if utf8.Valid(raw) {
			return string(raw), name
		}
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), name
	case EncodingUTF16LE:
		return decodeLossy(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), raw), name
	case EncodingUTF16BE:
		return decodeLossy(unicode.UTF16(unicode.BigEndian, unicode.UseBOM), raw), name
	default:
		return decodeLossy(charmap.Windows1252, raw), name
	}
}

// decodeLossy decodes raw, replacing anything the decoder rejects with U+FFFD.
func decodeLossy(enc encoding.Encoding, raw []byte) string {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return string(out)
}

func guessUTF16(raw []byte) string {
	sample := raw
	if len(sample) > utf16SampleSize {
		sample = sample[:utf16SampleSize]
	}
	if len(sample) < 2 {
		return ""
	}

	var even, odd int
	for i, b := range sample {
		if b != 0 {
			continue
		}
		if i%2 == 0 {
			even++
		} else {
			odd++
		}
	}
	total := even + odd
	if float64(total) < utf16NulRatio*float64(len(sample)) {
		return ""
	}
	switch {
	case float64(odd) >= utf16ParityRatio*float64(total):
		return EncodingUTF16LE
	case float64(even) >= utf16ParityRatio*float64(total):
		return EncodingUTF16BE
	default:
		return ""
	}
}

func lookupEncoding(name string) (encoding.Encoding, string, bool) {
	if enc, err := htmlindex.Get(name); err == nil {
		canonical, nameErr := htmlindex.Name(enc)
		if nameErr != nil {
			canonical = strings.ToLower(name)
		}
		return enc, canonical, true
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		canonical, nameErr := ianaindex.IANA.Name(enc)
		if nameErr != nil {
			canonical = name
		}
		return enc, strings.ToLower(canonical), true
	}
	return nil, "", false
}

func decodeForced(raw []byte, forced string) (string, string, error) {
	requested := strings.TrimSpace(forced)
	enc, name, ok := lookupEncoding(requested)
	if !ok {
		return "", "", encodingFailure(requested, "unknown encoding")
	}

	if name == EncodingUTF8 {
		if !utf8.Valid(raw) {
			return "", "", encodingFailure(name, "input is not valid utf-8")
		}
		return string(raw), name, nil
	}

	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", encodingFailure(name, "input cannot be decoded: "+err.Error())
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		// U+FFFD may be genuine content; only a lossless round trip proves it.
		back, encErr := enc.NewEncoder().Bytes(out)
		if encErr != nil || !bytes.Equal(back, raw) {
			return "", "", encodingFailure(name, "input contains byte sequences invalid for "+name)
		}
	}
	return string(out), name, nil
}
