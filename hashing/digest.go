// Package hashing holds the digest primitive every integrity structure in the
// ledger is built on: SHA-256 over raw bytes, rendered as lowercase hex.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Size is the length of a hex digest in characters.
const Size = sha256.Size * 2

// Sentinel is the previous-block digest of the first block in a chain.
var Sentinel = strings.Repeat("0", Size)

// Digest returns the hex encoded SHA-256 of data. It is total: nil and empty
// input hash like any other byte string.
func Digest(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// DigestString is Digest over the bytes of s.
func DigestString(s string) string {
	return Digest([]byte(s))
}

// Concat hashes the plain concatenation of parts, with no separators.
func Concat(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// IsDigest reports whether s looks like a digest produced by this package.
func IsDigest(s string) bool {
	if len(s) != Size {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// HasLeadingZeros reports whether the first n hex characters of digest are '0'.
func HasLeadingZeros(digest string, n int) bool {
	if n > len(digest) {
		return false
	}
	return strings.HasPrefix(digest, Sentinel[:n])
}
