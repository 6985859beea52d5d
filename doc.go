// Package guardianqse provides the quantum-safe secure channel used by the
// GuardianBed patient-monitoring platform.
//
// The subsystem layers three building blocks on SHA3-based primitives: a
// hash-based key encapsulation mechanism for session key establishment, a
// keyed-hash authenticated stream cipher for payload protection, and a
// deterministic signature scheme for payload authentication. A BB84 quantum
// key distribution simulator models an independent key-agreement path with
// eavesdropper detection.
//
// # Quick Start
//
// For a complete secure session between a monitoring server and a bedside
// client:
//
//	import "github.com/mrityu75/guardian-bed-treehacks/pkg/channel"
//
//	server := channel.NewChannel()
//	client := channel.NewChannel()
//
//	hello, _ := server.InitServer()
//	share, _ := client.InitClient(hello)
//	_ = server.CompleteHandshake(share)
//
//	env, _ := server.EncryptPatientData(map[string]any{"heart_rate": 72})
//	payload, _ := client.DecryptPatientData(env)
//
// For low-level key encapsulation:
//
//	import "github.com/mrityu75/guardian-bed-treehacks/pkg/qkem"
//
//	keyPair, _ := qkem.GenerateKeyPair()
//	result, _ := qkem.Encapsulate(keyPair.PublicKey())
//	secret, _ := keyPair.Decapsulate(result.Ciphertext)
//
// # Package Structure
//
// The library is organized into several packages:
//
//   - pkg/channel: Secure-channel orchestration (handshake, envelopes)
//   - pkg/qkem: Hash-based key encapsulation mechanism
//   - pkg/qkd: BB84 quantum key distribution simulation
//   - pkg/aead: Authenticated stream encryption (encrypt-then-MAC)
//   - pkg/sig: Deterministic hash-based signatures
//   - pkg/crypto: Low-level primitives (SHA3, HMAC, CSPRNG)
//   - pkg/protocol: Wire message definitions and binary framing
//   - pkg/metrics: Structured logging, counters and tracing
//   - internal/constants: Security parameters and protocol constants
//   - internal/errors: Custom error types for detailed error handling
//
// # Security Properties
//
// The channel provides:
//
//   - Confidentiality: per-envelope keystream derived from the session secret
//   - Integrity: HMAC-SHA3-256 verified in constant time before decryption
//   - Authenticity: deterministic HMAC-SHA3-512 payload signatures
//   - Tamper recovery: rejected envelopes are dropped, the session continues
//   - Eavesdropper detection: BB84 error-rate estimation aborts above 11% QBER
//
// The KEM and signature schemes are hash-based structural stand-ins for
// lattice constructions, sized and shaped like their production counterparts.
// They are suitable for protocol development and simulation, not for
// protecting data against a real adversary.
//
// # Testing
//
//	go test ./...                              # All tests
//	go test -fuzz=FuzzDecodeServerHello ./test/fuzz
//	go test -bench=. ./test/benchmark
package guardianqse
