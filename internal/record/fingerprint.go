package record

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/codedoc/internal/frontmatter"
)

// Fingerprint computes the content fingerprint of a record page.
//
// The hash covers the frontmatter without its fingerprint key, serialized in
// FrontmatterOrder with LF newlines and one trailing newline removed, plus the
// presented content.
func Fingerprint(fields map[string]any, body string) (string, error) {
	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == KeyFingerprint || k == mdfp.FingerprintField {
			continue
		}
		forHash[k] = v
	}

	serialized, err := frontmatter.SerializeYAML(forHash, FrontmatterOrder)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(serialized, "\n"), body), nil
}
