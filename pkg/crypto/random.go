// random.go wraps the system CSPRNG with consistent error handling.
//
// Security Note: All random number generation uses crypto/rand which
// provides cryptographically secure random bytes from the operating
// system's CSPRNG. No component of this module draws from math/rand.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	qerrors "github.com/mrityu75/guardian-bed-treehacks/internal/errors"
)

// Reader is an io.Reader that returns cryptographically secure random bytes.
// It wraps crypto/rand.Reader for consistent error handling.
var Reader io.Reader = rand.Reader

// SecureRandom reads cryptographically secure random bytes into b.
//
// This function only returns an error if the system's random number
// generator fails, which should be treated as a critical system failure.
func SecureRandom(b []byte) error {
	if _, err := io.ReadFull(Reader, b); err != nil {
		return qerrors.NewCryptoError("SecureRandom", err)
	}
	return nil
}

// SecureRandomBytes returns n cryptographically secure random bytes.
func SecureRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := SecureRandom(b); err != nil {
		return nil, err
	}
	return b, nil
}

// MustSecureRandomBytes returns n cryptographically secure random bytes and
// panics if the CSPRNG fails. Use only where CSPRNG failure should be
// unrecoverable.
func MustSecureRandomBytes(n int) []byte {
	b, err := SecureRandomBytes(n)
	if err != nil {
		panic("crypto: failed to read from CSPRNG: " + err.Error())
	}
	return b
}

// ConstantTimeCompare compares two byte slices in constant time.
// Returns true if the slices are equal. This prevents timing attacks when
// comparing MACs and shared secrets.
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites sensitive data with zeros. Call on keys and secrets
// when they are no longer needed.
//
// Note: The Go runtime may have already copied the data; this is best-effort
// hygiene, not a guarantee of erasure.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ZeroizeMultiple overwrites multiple byte slices with zeros.
func ZeroizeMultiple(slices ...[]byte) {
	for _, s := range slices {
		Zeroize(s)
	}
}
