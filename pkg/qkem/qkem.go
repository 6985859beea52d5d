// Package qkem implements the simulated post-quantum key encapsulation
// mechanism used by the Guardian Bed secure channel.
//
// The construction is a hash-based stand-in for a lattice KEM such as
// Kyber. It preserves the protocol shape of real key encapsulation:
//
// Key Generation:
//
//	seed ← random(64)
//	pk = SHA3-512(seed || "kyber_public")
//	sk = seed
//
// Encapsulation (sender):
//
//	e ← random(32)
//	K = SHA3-256(pk || e || "kyber_shared_secret")
//	ct = SHA3-512(pk || e || "kyber_ciphertext") || e
//
// Decapsulation (receiver):
//
//	Parse ct as (commitment, e)
//	pk = SHA3-512(sk || "kyber_public")
//	K = SHA3-256(pk || e || "kyber_shared_secret")
//
// # Security Model
//
// IMPORTANT: the ephemeral value e is appended to the ciphertext in the
// clear rather than encrypted under the public key. Recoverability of e is
// what lets the legitimate receiver recompute the same secret; in a real
// lattice KEM, e would be protected by LWE encryption. This is a structural
// simplification with no confidentiality claim against an adversary who
// observes the ciphertext. Do not treat this package as equivalent to a
// standardized KEM.
//
// Decapsulation with the wrong private key still produces a 32-byte output;
// it simply differs (with overwhelming probability) from the encapsulated
// secret. The KEM has no built-in validity check; mismatches surface
// transitively as AEAD authentication failures downstream.
package qkem

import (
	"github.com/mrityu75/guardian-bed-treehacks/internal/constants"
	qerrors "github.com/mrityu75/guardian-bed-treehacks/internal/errors"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/crypto"
)

// KeyPair holds a KEM key pair. The private seed must never leave the
// process boundary of the party that generated it.
type KeyPair struct {
	public  []byte
	private []byte
}

// EncapsulationResult is the output of Encapsulate: the ciphertext is
// transmitted to the key-pair owner, the shared secret is kept locally.
type EncapsulationResult struct {
	Ciphertext   []byte
	SharedSecret []byte
}

// GenerateKeyPair generates a new KEM key pair from the system CSPRNG.
func GenerateKeyPair() (*KeyPair, error) {
	seed, err := crypto.SecureRandomBytes(constants.KEMPrivateKeySize)
	if err != nil {
		return nil, qerrors.NewCryptoError("qkem.GenerateKeyPair", err)
	}
	return NewKeyPairFromSeed(seed)
}

// NewKeyPairFromSeed derives a key pair from a 64-byte private seed.
// This is deterministic: the same seed always produces the same key pair.
func NewKeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != constants.KEMPrivateKeySize {
		return nil, qerrors.ErrInvalidPrivateKey
	}
	return &KeyPair{
		public:  derivePublicKey(seed),
		private: seed,
	}, nil
}

// PublicKey returns a copy of the public key for transmission.
func (kp *KeyPair) PublicKey() []byte {
	out := make([]byte, len(kp.public))
	copy(out, kp.public)
	return out
}

// Decapsulate recovers the shared secret from a ciphertext produced by
// Encapsulate against this key pair's public key.
func (kp *KeyPair) Decapsulate(ciphertext []byte) ([]byte, error) {
	return Decapsulate(kp.private, ciphertext)
}

// Zeroize overwrites the private seed. The key pair is unusable afterwards.
func (kp *KeyPair) Zeroize() {
	crypto.Zeroize(kp.private)
	kp.private = nil
	kp.public = nil
}

// Encapsulate produces a fresh shared secret encapsulated under publicKey.
//
// Each call draws a new 32-byte ephemeral value, so repeated encapsulations
// against the same public key yield independent secrets and ciphertexts.
func Encapsulate(publicKey []byte) (*EncapsulationResult, error) {
	if len(publicKey) != constants.KEMPublicKeySize {
		return nil, qerrors.ErrInvalidPublicKey
	}

	ephemeral, err := crypto.SecureRandomBytes(constants.KEMEphemeralSize)
	if err != nil {
		return nil, qerrors.NewCryptoError("qkem.Encapsulate", err)
	}

	secret := crypto.Hash256(publicKey, ephemeral, []byte(constants.DomainTagSharedSecret))

	commitment := crypto.Hash512(publicKey, ephemeral, []byte(constants.DomainTagCiphertext))
	ciphertext := make([]byte, 0, constants.KEMCiphertextSize)
	ciphertext = append(ciphertext, commitment...)
	ciphertext = append(ciphertext, ephemeral...)

	return &EncapsulationResult{
		Ciphertext:   ciphertext,
		SharedSecret: secret,
	}, nil
}

// Decapsulate recovers the shared secret from ciphertext using the private
// seed. For the matching key pair this equals the encapsulator's secret;
// for any other key pair it is an independent hash output.
//
// A ciphertext shorter than the fixed encapsulation size fails with
// ErrMalformedCiphertext before any derivation is attempted.
func Decapsulate(privateKey, ciphertext []byte) ([]byte, error) {
	if len(privateKey) != constants.KEMPrivateKeySize {
		return nil, qerrors.ErrInvalidPrivateKey
	}
	if len(ciphertext) != constants.KEMCiphertextSize {
		return nil, qerrors.ErrMalformedCiphertext
	}

	// The ephemeral rides in the clear as the last 32 bytes.
	ephemeral := ciphertext[constants.Hash512Size:]

	publicKey := derivePublicKey(privateKey)
	return crypto.Hash256(publicKey, ephemeral, []byte(constants.DomainTagSharedSecret)), nil
}

func derivePublicKey(seed []byte) []byte {
	return crypto.Hash512(seed, []byte(constants.DomainTagPublicKey))
}
