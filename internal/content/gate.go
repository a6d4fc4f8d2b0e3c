package content

// DefaultMaxFileSize is the size ceiling applied when a Gate has none configured.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Gate enforces the size ceiling and produces sanitized decoded text.
type Gate struct {
	// MaxFileSize is the inclusive ceiling on raw input bytes.
	// Zero or negative means DefaultMaxFileSize.
	MaxFileSize int64
}

// Limit returns the effective size ceiling.
func (g Gate) Limit() int64 {
	if g.MaxFileSize <= 0 {
		return DefaultMaxFileSize
	}
	return g.MaxFileSize
}

// Check rejects input strictly larger than the ceiling. Input exactly at the
// limit is accepted.
func (g Gate) Check(raw []byte) error {
	if limit := g.Limit(); int64(len(raw)) > limit {
		return fileTooLarge(len(raw), limit)
	}
	return nil
}

// CheckSize applies the ceiling to a size known before reading, such as the
// size reported by os.Stat.
func (g Gate) CheckSize(n int64) error {
	if limit := g.Limit(); n > limit {
		return fileTooLarge(int(n), limit)
	}
	return nil
}

// Decode checks the size ceiling, resolves the encoding and sanitizes the text.
// The returned value is never truncated.
func (g Gate) Decode(raw []byte, forcedEncoding string) (Decoded, error) {
	if err := g.Check(raw); err != nil {
		return Decoded{}, err
	}

	text, name, err := ResolveEncoding(raw, forcedEncoding)
	if err != nil {
		return Decoded{}, err
	}

	text = Sanitize(text)
	return Decoded{
		RawLength:        len(raw),
		Encoding:         name,
		Text:             text,
		TruncationReason: TruncationNone,
		TotalLines:       CountLines(text),
	}, nil
}
