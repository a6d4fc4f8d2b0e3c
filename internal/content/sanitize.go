package content

import "strings"

// Sanitize normalizes decoded text for safe embedding in generated Markdown:
// a leading byte-order mark is dropped, CRLF and lone CR become LF, and control
// characters other than newline and tab are removed (C0, DEL and C1).
func Sanitize(text string) string {
	text = strings.TrimPrefix(text, "\uFEFF")

	var sb strings.Builder
	sb.Grow(len(text))
	for i, r := range text {
		switch {
		case r == '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				continue
			}
			sb.WriteByte('\n')
		case r == '\n' || r == '\t':
			sb.WriteRune(r)
		case r < 0x20, r == 0x7F, r >= 0x80 && r <= 0x9F:
			// dropped
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
