// Package signature provides the capability that turns identity seed parts
// into a stable opaque signature. The protocol core depends only on Signer;
// no cryptographic strength is promised.
package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Signer produces an opaque signature for the given seed parts.
// Implementations must be deterministic for identical input.
type Signer interface {
	Sign(parts ...string) string
}

// SignerFunc adapts a function to Signer.
type SignerFunc func(parts ...string) string

func (f SignerFunc) Sign(parts ...string) string { return f(parts...) }

// seedSeparator joins seed parts before hashing.
const seedSeparator = "-"

// SHA256Signer hashes "<prefix>:<part>-<part>-..." with SHA-256 and returns hex.
type SHA256Signer struct {
	Prefix string
}

// NewSHA256 returns the default signer with the "SIGNATURE" domain prefix.
func NewSHA256() SHA256Signer {
	return SHA256Signer{Prefix: "SIGNATURE"}
}

func (s SHA256Signer) Sign(parts ...string) string {
	sum := sha256.Sum256([]byte(seed(s.Prefix, parts)))
	return hex.EncodeToString(sum[:])
}

// Blake2bSigner computes a (optionally keyed) BLAKE2b-256 digest.
type Blake2bSigner struct {
	key []byte
}

// NewBlake2b builds a Blake2bSigner. key may be empty and must not exceed 64 bytes.
func NewBlake2b(key []byte) (*Blake2bSigner, error) {
	if len(key) > blake2b.Size {
		return nil, fmt.Errorf("signature: blake2b key must be at most %d bytes", blake2b.Size)
	}
	// Validate the key once so Sign cannot fail later.
	if _, err := blake2b.New256(key); err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}
	return &Blake2bSigner{key: append([]byte(nil), key...)}, nil
}

func (s *Blake2bSigner) Sign(parts ...string) string {
	h, err := blake2b.New256(s.key)
	if err != nil {
		// Unreachable: the key was validated by NewBlake2b.
		panic(err)
	}
	h.Write([]byte(seed("SIGNATURE", parts)))
	return hex.EncodeToString(h.Sum(nil))
}

func seed(prefix string, parts []string) string {
	joined := strings.Join(parts, seedSeparator)
	if prefix == "" {
		return joined
	}
	return prefix + ":" + joined
}
