// Package crypto provides the hash primitives underlying the Guardian Bed
// quantum-safe encryption stack.
//
// This file (hash.go) wraps SHA3-256, SHA3-512, and HMAC-SHA3 behind a
// small deterministic API. Every other component of the stack (KEM, AEAD,
// signatures, QKD privacy amplification) builds on these three operations.
//
// Security Properties:
//   - SHA3 (FIPS 202) provides 256-bit collision and preimage resistance
//     at the 512-bit output size, 128-bit collision resistance at 256 bits
//   - The Keccak sponge construction is not subject to length-extension
//     attacks, unlike SHA-2
//   - HMAC over SHA3 yields a secure keyed MAC under the standard PRF
//     assumption
//
// The specific hash algorithm is not load-bearing for the protocol design;
// any collision-resistant hash with at least 256-bit output and any secure
// keyed-MAC construction would satisfy the same contract.
package crypto

import (
	"crypto/hmac"

	"golang.org/x/crypto/sha3"
)

// Hash256 computes the SHA3-256 digest of the concatenation of parts.
//
// Accepting the input as parts avoids intermediate allocations when hashing
// values like key || nonce || counter.
func Hash256(parts ...[]byte) []byte {
	h := sha3.New256()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// Hash512 computes the SHA3-512 digest of the concatenation of parts.
func Hash512(parts ...[]byte) []byte {
	h := sha3.New512()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// MAC computes HMAC-SHA3-256 over the concatenation of parts under key.
// The output is a 32-byte authentication tag.
func MAC(key []byte, parts ...[]byte) []byte {
	m := hmac.New(sha3.New256, key)
	for _, p := range parts {
		m.Write(p)
	}
	return m.Sum(nil)
}

// MAC512 computes HMAC-SHA3-512 over the concatenation of parts under key.
// The 64-byte output is used by the signature scheme.
func MAC512(key []byte, parts ...[]byte) []byte {
	m := hmac.New(sha3.New512, key)
	for _, p := range parts {
		m.Write(p)
	}
	return m.Sum(nil)
}
