// Package channel orchestrates the secure-channel lifecycle for patient
// monitoring data: key establishment through the hash-based KEM, payload
// protection through the authenticated stream cipher, and payload
// authentication through the deterministic signature scheme.
//
// One Channel instance represents one endpoint of one session. The server
// endpoint calls InitServer and CompleteHandshake; the client endpoint calls
// InitClient. After the handshake both sides seal and open envelopes with
// EncryptPatientData and DecryptPatientData.
//
// Authentication failures on received envelopes are recoverable: the envelope
// is discarded and DecryptPatientData reports a nil payload with a nil error.
// State violations and malformed inputs are hard failures.
package channel

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"

	"github.com/mrityu75/guardian-bed-treehacks/internal/constants"
	qerrors "github.com/mrityu75/guardian-bed-treehacks/internal/errors"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/aead"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/crypto"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/metrics"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/protocol"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/qkem"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/sig"
)

// State tracks where a channel endpoint is in its lifecycle.
type State int

const (
	// StateUninitialized is a freshly constructed channel with no key material.
	StateUninitialized State = iota

	// StateServerReady means the server has published its hello and is
	// waiting for the client's key share.
	StateServerReady

	// StateHandshakeComplete means a shared secret is established and the
	// channel can seal and open envelopes.
	StateHandshakeComplete
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateServerReady:
		return "server_ready"
	case StateHandshakeComplete:
		return "handshake_complete"
	default:
		return "unknown"
	}
}

// Channel is one endpoint of a secure session. All methods are safe for
// concurrent use.
type Channel struct {
	mu sync.Mutex

	state        State
	sessionID    string // base64url form of sessionRaw, used in envelopes and logs
	sessionRaw   []byte
	kemKeys      *qkem.KeyPair
	sigKeys      *sig.KeyPair
	peerVerify   []byte
	sharedSecret []byte

	logger    *metrics.Logger
	collector *metrics.Collector
	tracer    metrics.Tracer
}

// Option configures a Channel.
type Option func(*Channel)

// WithLogger attaches a structured logger to the channel.
func WithLogger(l *metrics.Logger) Option {
	return func(c *Channel) { c.logger = l }
}

// WithCollector attaches a metrics collector to the channel.
func WithCollector(col *metrics.Collector) Option {
	return func(c *Channel) { c.collector = col }
}

// WithTracer attaches a tracer to the channel.
func WithTracer(t metrics.Tracer) Option {
	return func(c *Channel) { c.tracer = t }
}

// NewChannel constructs an uninitialized channel endpoint.
func NewChannel(opts ...Option) *Channel {
	c := &Channel{
		state:  StateUninitialized,
		logger: metrics.NopLogger(),
		tracer: metrics.NoOpTracer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID returns the session identifier, empty before initialization.
func (c *Channel) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// InitServer generates the server's KEM and signing key pairs and returns the
// hello the server publishes to the client. The channel moves to
// StateServerReady and waits for the client's key share.
func (c *Channel) InitServer() (hello *protocol.ServerHello, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUninitialized {
		return nil, qerrors.NewProtocolError("init_server", qerrors.ErrInvalidState)
	}

	_, end := c.tracer.StartSpan(context.Background(), "channel.init_server")
	defer func() { end(err) }()

	kemKeys, err := qkem.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	sigKeys, err := sig.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	sessionRaw, err := crypto.SecureRandomBytes(constants.SessionIDSize)
	if err != nil {
		return nil, err
	}

	c.kemKeys = kemKeys
	c.sigKeys = sigKeys
	c.sessionRaw = sessionRaw
	c.sessionID = base64.RawURLEncoding.EncodeToString(sessionRaw)
	c.state = StateServerReady

	c.collector.HandshakeStarted()
	c.logger.Info("server hello published", metrics.Fields{
		"session_id": c.sessionID,
		"algorithm":  constants.KEMAlgorithm,
	})

	return &protocol.ServerHello{
		Version:   constants.ProtocolVersion,
		PublicKey: kemKeys.PublicKey(),
		VerifyKey: sigKeys.VerifyKey(),
		SessionID: sessionRaw,
		Algorithm: constants.KEMAlgorithm,
	}, nil
}

// InitClient encapsulates a fresh shared secret to the server's public key
// and returns the key share the client sends back. The client endpoint is
// handshake-complete as soon as this returns; it holds no signing keys, so
// envelopes it seals carry no signature.
func (c *Channel) InitClient(hello *protocol.ServerHello) (share *protocol.ClientKeyShare, err error) {
	if hello == nil {
		return nil, qerrors.NewProtocolError("init_client", qerrors.ErrInvalidMessage)
	}
	if err := hello.Validate(); err != nil {
		return nil, err
	}
	if hello.Version != constants.ProtocolVersion {
		return nil, qerrors.NewProtocolError("init_client", qerrors.ErrUnsupportedVersion)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUninitialized {
		return nil, qerrors.NewProtocolError("init_client", qerrors.ErrInvalidState)
	}

	_, end := c.tracer.StartSpan(context.Background(), "channel.init_client")
	defer func() { end(err) }()

	res, err := qkem.Encapsulate(hello.PublicKey)
	if err != nil {
		return nil, err
	}

	c.sharedSecret = res.SharedSecret
	c.peerVerify = append([]byte(nil), hello.VerifyKey...)
	c.sessionRaw = append([]byte(nil), hello.SessionID...)
	c.sessionID = base64.RawURLEncoding.EncodeToString(hello.SessionID)
	c.state = StateHandshakeComplete

	c.collector.HandshakeStarted()
	c.collector.HandshakeCompleted()
	c.logger.Info("client key share prepared", metrics.Fields{
		"session_id": c.sessionID,
	})

	return &protocol.ClientKeyShare{
		Ciphertext: res.Ciphertext,
		SessionID:  append([]byte(nil), hello.SessionID...),
	}, nil
}

// CompleteHandshake decapsulates the client's key share on the server side.
// After this returns the server can seal and open envelopes.
func (c *Channel) CompleteHandshake(share *protocol.ClientKeyShare) (err error) {
	if share == nil {
		return qerrors.NewProtocolError("complete_handshake", qerrors.ErrInvalidMessage)
	}
	if err := share.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateServerReady {
		return qerrors.NewProtocolError("complete_handshake", qerrors.ErrInvalidState)
	}
	if !bytes.Equal(share.SessionID, c.sessionRaw) {
		return qerrors.NewProtocolError("complete_handshake", qerrors.ErrInvalidMessage)
	}

	_, end := c.tracer.StartSpan(context.Background(), "channel.complete_handshake")
	defer func() { end(err) }()

	secret, err := c.kemKeys.Decapsulate(share.Ciphertext)
	if err != nil {
		return err
	}

	c.sharedSecret = secret
	c.state = StateHandshakeComplete

	c.collector.HandshakeCompleted()
	c.logger.Info("handshake complete", metrics.Fields{
		"session_id": c.sessionID,
	})
	return nil
}

// EncryptPatientData JSON-serializes v, seals it under the session secret and
// wraps the result in a signed envelope. Endpoints without signing keys
// produce envelopes with a nil signature.
func (c *Channel) EncryptPatientData(v any) (out *SignedEnvelope, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateHandshakeComplete {
		return nil, qerrors.ErrHandshakeIncomplete
	}

	_, end := c.tracer.StartSpan(context.Background(), "channel.encrypt")
	defer func() { end(err) }()

	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, qerrors.NewProtocolError("encrypt", err)
	}

	env, err := aead.Encrypt(plaintext, c.sharedSecret)
	if err != nil {
		return nil, err
	}

	var signature []byte
	if c.sigKeys != nil {
		signature = c.sigKeys.Sign(plaintext)
	}

	c.collector.EnvelopeSealed(len(plaintext))
	c.logger.Debug("envelope sealed", metrics.Fields{
		"session_id": c.sessionID,
		"bytes":      len(plaintext),
		"signed":     signature != nil,
	})

	return &SignedEnvelope{
		Encrypted: env,
		Signature: signature,
		SessionID: c.sessionID,
		DataType:  constants.DataTypePatientMonitoring,
		Version:   constants.ProtocolVersion,
	}, nil
}

// DecryptPatientData opens a signed envelope and returns the decoded payload.
//
// An envelope that fails authentication is not an error condition for the
// channel: the payload is dropped and (nil, nil) is returned so the caller
// can keep processing subsequent envelopes. Malformed envelopes and calls
// before the handshake completes fail hard.
func (c *Channel) DecryptPatientData(env *SignedEnvelope) (payload map[string]any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateHandshakeComplete {
		return nil, qerrors.ErrHandshakeIncomplete
	}
	if env == nil || env.Encrypted == nil {
		return nil, qerrors.NewProtocolError("decrypt", qerrors.ErrInvalidEnvelope)
	}

	_, end := c.tracer.StartSpan(context.Background(), "channel.decrypt")
	defer func() { end(err) }()

	plaintext, err := aead.Decrypt(env.Encrypted, c.sharedSecret)
	if err != nil {
		if qerrors.Is(err, qerrors.ErrAuthenticationFailed) {
			c.collector.AuthFailure()
			c.logger.Warn("envelope rejected", metrics.Fields{
				"session_id": env.SessionID,
				"reason":     "authentication failed",
			})
			return nil, nil
		}
		return nil, err
	}

	// A signature is only checkable by the holder of the signing key, so
	// this path runs on the server endpoint.
	if env.Signature != nil && c.sigKeys != nil {
		if !c.sigKeys.Verify(plaintext, env.Signature) {
			c.collector.AuthFailure()
			c.logger.Warn("envelope rejected", metrics.Fields{
				"session_id": env.SessionID,
				"reason":     "signature mismatch",
			})
			return nil, nil
		}
	}

	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, qerrors.NewProtocolError("decrypt", qerrors.ErrInvalidEnvelope)
	}

	c.collector.EnvelopeOpened()
	return payload, nil
}

// VerifyPatientData checks a detached payload signature. Only the endpoint
// holding the signing key can verify; other endpoints report false.
func (c *Channel) VerifyPatientData(payload, signature []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sigKeys == nil {
		return false
	}
	return c.sigKeys.Verify(payload, signature)
}

// PeerVerifyKey returns the server's verification key as learned during the
// handshake, or nil on the server endpoint.
func (c *Channel) PeerVerifyKey() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.peerVerify == nil {
		return nil
	}
	out := make([]byte, len(c.peerVerify))
	copy(out, c.peerVerify)
	return out
}

// Close zeroizes session key material. The channel is unusable afterwards.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kemKeys != nil {
		c.kemKeys.Zeroize()
		c.kemKeys = nil
	}
	if c.sigKeys != nil {
		c.sigKeys.Zeroize()
		c.sigKeys = nil
	}
	crypto.Zeroize(c.sharedSecret)
	c.sharedSecret = nil
	c.state = StateUninitialized
}
