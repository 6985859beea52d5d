// Package errors defines custom error types for the Guardian Bed quantum-safe
// encryption subsystem. These errors provide detailed information for
// debugging while maintaining security by not leaking key material or
// plaintext in error messages.
//
// The taxonomy distinguishes four classes of failure:
//
//   - Protocol errors (malformed ciphertext or envelope shape) are surfaced
//     immediately to the caller and never silently recovered.
//   - State errors (operation attempted before its handshake prerequisite)
//     are programming errors and surface as hard failures.
//   - Authentication failures (MAC mismatch, eavesdropper detection) are
//     expected outcomes of operating over an untrusted channel; the layers
//     above translate them into nil results or explicit verdicts.
//   - Config errors (invalid parameters) surface before any cryptographic
//     work begins.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for KEM operations
var (
	// ErrInvalidKeySize indicates that a key has an incorrect size
	ErrInvalidKeySize = errors.New("qkem: invalid key size")

	// ErrMalformedCiphertext indicates that a KEM ciphertext is too short or
	// otherwise malformed
	ErrMalformedCiphertext = errors.New("qkem: malformed ciphertext")

	// ErrInvalidPublicKey indicates that a public key is invalid
	ErrInvalidPublicKey = errors.New("qkem: invalid public key")

	// ErrInvalidPrivateKey indicates that a private key is invalid
	ErrInvalidPrivateKey = errors.New("qkem: invalid private key")
)

// Sentinel errors for AEAD operations
var (
	// ErrAuthenticationFailed indicates MAC verification failed on decrypt
	ErrAuthenticationFailed = errors.New("aead: authentication failed")

	// ErrInvalidNonce indicates the nonce size is incorrect
	ErrInvalidNonce = errors.New("aead: invalid nonce size")

	// ErrInvalidMAC indicates the MAC field size is incorrect
	ErrInvalidMAC = errors.New("aead: invalid mac size")
)

// Sentinel errors for signature operations
var (
	// ErrInvalidSigningKey indicates a signing key has an incorrect size
	ErrInvalidSigningKey = errors.New("sig: invalid signing key")

	// ErrInvalidSignature indicates a signature has an incorrect size
	ErrInvalidSignature = errors.New("sig: invalid signature")
)

// Sentinel errors for QKD operations
var (
	// ErrEmptyQubitSet indicates a protocol run was configured with zero qubits
	ErrEmptyQubitSet = errors.New("qkd: qubit count must be positive")

	// ErrInvalidNoise indicates the channel noise probability is out of range
	ErrInvalidNoise = errors.New("qkd: noise probability must be in [0,1)")

	// ErrInvalidSampleFraction indicates the error-check sample fraction is out of range
	ErrInvalidSampleFraction = errors.New("qkd: sample fraction must be in (0,1]")

	// ErrInvalidThreshold indicates the QBER abort threshold is out of range
	ErrInvalidThreshold = errors.New("qkd: error threshold must be in (0,1)")

	// ErrExchangeAborted indicates key material was requested from an aborted run
	ErrExchangeAborted = errors.New("qkd: exchange aborted, no key available")

	// ErrInvalidPhase indicates a protocol step was invoked out of order
	ErrInvalidPhase = errors.New("qkd: protocol step out of order")
)

// Sentinel errors for secure channel operations
var (
	// ErrHandshakeIncomplete indicates encrypt/decrypt was attempted before
	// the handshake established a shared secret
	ErrHandshakeIncomplete = errors.New("channel: handshake not complete")

	// ErrInvalidState indicates a channel operation was invoked in the wrong state
	ErrInvalidState = errors.New("channel: invalid state")

	// ErrInvalidEnvelope indicates a received envelope is malformed
	ErrInvalidEnvelope = errors.New("channel: invalid envelope")
)

// Sentinel errors for wire protocol operations
var (
	// ErrInvalidMessage indicates a wire message is malformed
	ErrInvalidMessage = errors.New("protocol: invalid message")

	// ErrMessageTooLarge indicates a message exceeds the maximum size
	ErrMessageTooLarge = errors.New("protocol: message too large")

	// ErrUnsupportedVersion indicates an unsupported protocol version
	ErrUnsupportedVersion = errors.New("protocol: unsupported version")
)

// CryptoError wraps a cryptographic error with the operation that failed.
type CryptoError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// NewCryptoError creates a new CryptoError.
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// ProtocolError wraps a protocol error with the phase it occurred in.
type ProtocolError struct {
	Phase string // Protocol phase (e.g., "handshake", "transport")
	Err   error  // Underlying error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol %s: %v", e.Phase, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// NewProtocolError creates a new ProtocolError.
func NewProtocolError(phase string, err error) *ProtocolError {
	return &ProtocolError{Phase: phase, Err: err}
}

// ConfigError wraps a parameter validation error with the offending parameter.
// Config errors are raised at call time, before any cryptographic work.
type ConfigError struct {
	Param string // Parameter that failed validation
	Err   error  // Underlying error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Param, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(param string, err error) *ConfigError {
	return &ConfigError{Param: param, Err: err}
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
