package content

import "strings"

// TruncateLines keeps the first maxLines lines of text. It reports whether
// anything was removed. A non-positive maxLines keeps everything.
func TruncateLines(text string, maxLines int) (string, bool) {
	if maxLines <= 0 || text == "" {
		return text, false
	}

	idx := 0
	for n := 0; n < maxLines; n++ {
		next := strings.IndexByte(text[idx:], '\n')
		if next < 0 {
			return text, false
		}
		idx += next + 1
	}
	if idx >= len(text) {
		return text, false
	}
	return strings.TrimSuffix(text[:idx], "\n"), true
}

// Truncate returns a copy of d whose Text holds at most maxLines lines.
// TotalLines keeps the original count.
func Truncate(d Decoded, maxLines int) Decoded {
	text, cut := TruncateLines(d.Text, maxLines)
	if !cut {
		return d
	}
	d.Text = text
	d.WasTruncated = true
	d.TruncationReason = TruncationLineLimit
	return d
}
