// Package sig implements the deterministic hash-based signature scheme used
// to authenticate patient-data payloads end to end.
//
// The construction is a MAC in signature clothing:
//
//	signing_key ← random(64)
//	verify_key  = SHA3-512(signing_key || "dilithium_public")
//	signature   = HMAC-SHA3-512(signing_key, data)
//
// # Limitation
//
// Verification recomputes the MAC, so the verifier must possess the signing
// key. This models integrity checking within a single trust domain (both
// channel endpoints belong to the same deployment) and is NOT a publicly
// verifiable asymmetric signature. The verify key exists so that envelopes
// can carry a stable public identifier for the signer; it does not enable
// third-party verification.
package sig

import (
	"github.com/mrityu75/guardian-bed-treehacks/internal/constants"
	qerrors "github.com/mrityu75/guardian-bed-treehacks/internal/errors"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/crypto"
)

// KeyPair holds a signing seed and its derived verification key.
type KeyPair struct {
	signingKey []byte
	verifyKey  []byte
}

// GenerateKeyPair generates a new signing key pair from the system CSPRNG.
func GenerateKeyPair() (*KeyPair, error) {
	sk, err := crypto.SecureRandomBytes(constants.SigningKeySize)
	if err != nil {
		return nil, qerrors.NewCryptoError("sig.GenerateKeyPair", err)
	}
	return &KeyPair{
		signingKey: sk,
		verifyKey:  crypto.Hash512(sk, []byte(constants.DomainTagVerifyKey)),
	}, nil
}

// VerifyKey returns a copy of the public verification key.
func (kp *KeyPair) VerifyKey() []byte {
	out := make([]byte, len(kp.verifyKey))
	copy(out, kp.verifyKey)
	return out
}

// Sign produces a deterministic signature over data: the same input under
// the same key always yields the same signature.
func (kp *KeyPair) Sign(data []byte) []byte {
	return Sign(data, kp.signingKey)
}

// Verify checks a signature over data against this key pair.
func (kp *KeyPair) Verify(data, signature []byte) bool {
	return Verify(data, signature, kp.verifyKey, kp.signingKey)
}

// Zeroize overwrites the signing seed. The key pair is unusable afterwards.
func (kp *KeyPair) Zeroize() {
	crypto.Zeroize(kp.signingKey)
	kp.signingKey = nil
	kp.verifyKey = nil
}

// Sign produces a deterministic 64-byte signature over data with signingKey.
func Sign(data, signingKey []byte) []byte {
	return crypto.MAC512(signingKey, data)
}

// Verify recomputes the expected signature and compares in constant time.
//
// verifyKey is checked against the signing key it claims to correspond to,
// so a signature cannot be validated against a mismatched identity. The
// signing key itself is required for verification; see the package comment
// for why.
func Verify(data, signature, verifyKey, signingKey []byte) bool {
	if len(signature) != constants.SignatureSize {
		return false
	}
	if len(verifyKey) != constants.VerifyKeySize {
		return false
	}
	derived := crypto.Hash512(signingKey, []byte(constants.DomainTagVerifyKey))
	if !crypto.ConstantTimeCompare(verifyKey, derived) {
		return false
	}
	expected := crypto.MAC512(signingKey, data)
	return crypto.ConstantTimeCompare(signature, expected)
}
