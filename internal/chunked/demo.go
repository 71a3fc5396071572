package chunked

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// GenerateDemoFile deterministically expands seed into size bytes of
// pseudorandom content via HKDF-SHA256, keyed on label. It gives cmd/
// auditord a reproducible file to sign and audit without touching disk.
func GenerateDemoFile(seed []byte, label string, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunked: demo file size must be positive, got %d", size)
	}

	kdf := hkdf.New(sha256.New, seed, nil, []byte(label))
	out := make([]byte, size)
	if _, err := io.ReadFull(kdf, out); err != nil {
		return nil, fmt.Errorf("chunked: expand demo file: %w", err)
	}
	return out, nil
}
