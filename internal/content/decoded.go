package content

// TruncationReason records why presented text was shortened.
type TruncationReason string

const (
	TruncationNone      TruncationReason = "none"
	TruncationSizeLimit TruncationReason = "size-limit"
	TruncationLineLimit TruncationReason = "line-limit"
)

// Decoded is the safe textual form of a file. Values are never mutated after
// creation; Truncate returns a new value.
type Decoded struct {
	// RawLength is the input length in bytes before decoding.
	RawLength int
	// Encoding is the canonical name of the encoding used to decode the bytes.
	Encoding string
	// Text is the sanitized text, possibly truncated.
	Text             string
	WasTruncated     bool
	TruncationReason TruncationReason
	// TotalLines is the line count of the text before any truncation.
	TotalLines int
}

// CountLines counts lines the way an editor shows them: a trailing newline
// does not start a new line, and empty text has zero lines.
func CountLines(text string) int {
	if text == "" {
		return 0
	}
	n := 1
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' && i != len(text)-1 {
			n++
		}
	}
	return n
}
