package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// fingerprintChunkSize is the read buffer size used when hashing documents.
const fingerprintChunkSize = 4096

// Fingerprint computes the SHA-256 hex digest of a document's content.
// The content is streamed in fixed-size chunks so large documents do not
// need to fit in memory.
func Fingerprint(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, fingerprintChunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("hash content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
