package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// FileHash returns the hex sha256 of an uploaded file. Stored with each
// import batch to spot same-file re-uploads.
func FileHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Matcher compares uploaded data against a previously recorded hash.
type Matcher struct {
	expected string
}

func NewMatcher(expected string) *Matcher {
	return &Matcher{expected: expected}
}

// Match checks if the provided data's checksum matches the expected checksum.
func (m *Matcher) Match(data []byte) (bool, error) {
	if m.expected == "" {
		return false, errors.New("expected checksum is not set")
	}
	return FileHash(data) == m.expected, nil
}
