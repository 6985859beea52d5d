// Package constants defines security parameters and protocol constants for the
// Guardian Bed quantum-safe encryption (QSE) subsystem.
//
// The constructions here are protocol-shaped simulations of post-quantum
// primitives: the KEM and signature scheme are hash-based stand-ins for
// lattice cryptography, and the QKD parameters drive a BB84 simulation.
// The domain tags and sizes are load-bearing for interoperability between
// the sensor-side and monitoring-side endpoints and must not change
// within a protocol version.
package constants

// Protocol version and identification
const (
	// ProtocolVersion is the version string carried in every signed envelope.
	ProtocolVersion = "1.0"

	// KEMAlgorithm identifies the simulated lattice KEM construction.
	KEMAlgorithm = "GuardianBed-Kyber768-Hybrid"

	// CipherAlgorithm identifies the authenticated stream cipher construction.
	CipherAlgorithm = "GuardianBed-AE-SHA3-256"

	// SignatureAlgorithm identifies the hash-based signature construction.
	SignatureAlgorithm = "GuardianBed-Dilithium3-Hybrid"
)

// Hash output sizes (SHA3)
const (
	// Hash256Size is the output size of the 256-bit hash in bytes.
	Hash256Size = 32

	// Hash512Size is the output size of the 512-bit hash in bytes.
	Hash512Size = 64

	// MACSize is the output size of the keyed MAC in bytes.
	MACSize = 32

	// MAC512Size is the output size of the wide MAC variant used for
	// signatures, in bytes.
	MAC512Size = 64
)

// KEM parameters
const (
	// KEMPrivateKeySize is the size of the private seed in bytes.
	KEMPrivateKeySize = 64

	// KEMPublicKeySize is the size of the derived public key in bytes.
	KEMPublicKeySize = Hash512Size

	// KEMEphemeralSize is the size of the ephemeral value drawn during
	// encapsulation, in bytes.
	KEMEphemeralSize = 32

	// KEMCiphertextSize is the size of the encapsulation ciphertext:
	// a 64-byte commitment followed by the 32-byte ephemeral.
	KEMCiphertextSize = Hash512Size + KEMEphemeralSize

	// SharedSecretSize is the size of the encapsulated shared secret in bytes.
	SharedSecretSize = 32
)

// KEM domain separation tags. These are appended to hash inputs so that
// public-key derivation, secret derivation, and ciphertext commitment can
// never collide on the same input.
const (
	// DomainTagPublicKey derives a public key from a private seed.
	DomainTagPublicKey = "kyber_public"

	// DomainTagSharedSecret derives the shared secret during encapsulation.
	DomainTagSharedSecret = "kyber_shared_secret"

	// DomainTagCiphertext derives the ciphertext commitment.
	DomainTagCiphertext = "kyber_ciphertext"
)

// AEAD parameters
const (
	// AEADKeySize is the size of the shared secret the cipher accepts.
	AEADKeySize = SharedSecretSize

	// AEADNonceSize is the size of the per-message random nonce in bytes.
	AEADNonceSize = 16

	// AEADMACSize is the size of the envelope authentication tag in bytes.
	AEADMACSize = MACSize

	// DomainTagEncKey derives the encryption subkey from the shared secret.
	DomainTagEncKey = "enc_key"

	// DomainTagMACKey derives the authentication subkey from the shared secret.
	DomainTagMACKey = "mac_key"
)

// Signature parameters
const (
	// SigningKeySize is the size of the random signing seed in bytes.
	SigningKeySize = 64

	// VerifyKeySize is the size of the derived verification key in bytes.
	VerifyKeySize = Hash512Size

	// SignatureSize is the size of a signature in bytes.
	SignatureSize = MAC512Size

	// DomainTagVerifyKey derives a verification key from a signing seed.
	DomainTagVerifyKey = "dilithium_public"
)

// BB84 QKD parameters
const (
	// QKDDefaultQubits is the default number of qubits per protocol run.
	// 256 qubits sift to roughly 128 bits, enough to feed privacy
	// amplification after the error-check sacrifice.
	QKDDefaultQubits = 256

	// QKDDefaultSampleFraction is the fraction of the sifted key sacrificed
	// for error estimation.
	QKDDefaultSampleFraction = 0.2

	// QKDErrorThreshold is the BB84 security bound: a measured QBER above
	// this value indicates eavesdropping and aborts the run.
	QKDErrorThreshold = 0.11

	// QKDKeySize is the size of the final amplified key in bytes.
	QKDKeySize = 32

	// DomainTagPrivacyAmp salts the privacy-amplification hash.
	DomainTagPrivacyAmp = "guardian_qkd_pa"
)

// Session parameters
const (
	// SessionIDSize is the size of raw session identifiers in bytes.
	SessionIDSize = 16

	// DataTypePatientMonitoring is the payload type label carried by
	// envelopes produced by the secure channel.
	DataTypePatientMonitoring = "patient_monitoring"
)

// Wire message limits
const (
	// MaxMessageSize is the maximum size of a single wire message payload.
	MaxMessageSize = 1 << 20

	// MaxFieldSize is the maximum size of a single length-prefixed field.
	MaxFieldSize = 1 << 16
)
