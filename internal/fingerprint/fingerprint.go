// Package fingerprint computes content fingerprints used to deduplicate documents.
//
// A fingerprint is the xxHash64 of the raw file bytes, read in fixed-size
// blocks so memory stays bounded regardless of file size.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Prefix identifies the hash algorithm in stored fingerprints.
const Prefix = "xxh64:"

const blockSize = 64 * 1024

// Compute streams r and returns its fingerprint.
func Compute(r io.Reader) (string, error) {
	h := xxhash.New()
	buf := make([]byte, blockSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("hashing content: %w", err)
	}
	return Prefix + hex.EncodeToString(h.Sum(nil)), nil
}

// File returns the fingerprint of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return Compute(f)
}

// Bytes returns the fingerprint of an in-memory buffer.
func Bytes(b []byte) string {
	sum := xxhash.Sum64(b)
	return fmt.Sprintf("%s%016x", Prefix, sum)
}
