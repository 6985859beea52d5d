// Package protocol defines the wire messages exchanged during the secure
// channel handshake and data transport.
//
// The message flow between the bed-side module and the monitoring server:
//
//	Sensor (server)                        Monitor (client)
//	    |                                      |
//	    | -------- ServerHello --------------> |
//	    |   - KEM public key                   |
//	    |   - signature verify key             |
//	    |   - session id                       |
//	    |                                      |
//	    | <------- ClientKeyShare ------------ |
//	    |   - KEM ciphertext                   |
//	    |   - session id                       |
//	    |                                      |
//	    |   [Both hold the shared secret]      |
//	    |                                      |
//	    | <======== Data envelopes ==========> |
//
// The core is transport-agnostic; these messages give binary fields an
// unambiguous, length-delimited framing for any byte transport. JSON
// serialization of the data envelope lives in pkg/channel.
package protocol

import (
	"github.com/mrityu75/guardian-bed-treehacks/internal/constants"
	qerrors "github.com/mrityu75/guardian-bed-treehacks/internal/errors"
)

// MessageType identifies the type of wire message.
type MessageType uint8

// Wire message types.
const (
	// MessageTypeServerHello opens the handshake with the server's public material.
	MessageTypeServerHello MessageType = 0x01
	// MessageTypeClientKeyShare returns the client's KEM ciphertext.
	MessageTypeClientKeyShare MessageType = 0x02
	// MessageTypeData carries a serialized signed envelope.
	MessageTypeData MessageType = 0x10
)

// String returns a human-readable name for the message type.
func (mt MessageType) String() string {
	switch mt {
	case MessageTypeServerHello:
		return "ServerHello"
	case MessageTypeClientKeyShare:
		return "ClientKeyShare"
	case MessageTypeData:
		return "Data"
	default:
		return "Unknown"
	}
}

// ServerHello is sent by the initiating (sensor-side) party. It carries
// everything the responding party needs to encapsulate a shared secret and
// later verify payload signatures.
type ServerHello struct {
	// Version is the protocol version string ("1.0").
	Version string

	// PublicKey is the server's KEM public key (64 bytes).
	PublicKey []byte

	// VerifyKey is the server's signature verification key (64 bytes).
	VerifyKey []byte

	// SessionID identifies the server's session (16 bytes).
	SessionID []byte

	// Algorithm names the KEM construction in use.
	Algorithm string
}

// Validate checks field shapes before encoding.
func (m *ServerHello) Validate() error {
	if len(m.PublicKey) != constants.KEMPublicKeySize {
		return qerrors.ErrInvalidPublicKey
	}
	if len(m.VerifyKey) != constants.VerifyKeySize {
		return qerrors.ErrInvalidMessage
	}
	if len(m.SessionID) != constants.SessionIDSize {
		return qerrors.ErrInvalidMessage
	}
	return nil
}

// ClientKeyShare is sent by the responding (monitoring-side) party: the KEM
// ciphertext that completes the handshake.
type ClientKeyShare struct {
	// Ciphertext is the KEM encapsulation ciphertext (96 bytes).
	Ciphertext []byte

	// SessionID identifies the client's session (16 bytes).
	SessionID []byte
}

// Validate checks field shapes before encoding.
func (m *ClientKeyShare) Validate() error {
	if len(m.Ciphertext) != constants.KEMCiphertextSize {
		return qerrors.ErrMalformedCiphertext
	}
	if len(m.SessionID) != constants.SessionIDSize {
		return qerrors.ErrInvalidMessage
	}
	return nil
}

// Data frames an opaque serialized envelope for transport.
type Data struct {
	// Payload is the JSON-serialized signed envelope.
	Payload []byte
}

// Validate checks the payload size bound.
func (m *Data) Validate() error {
	if len(m.Payload) == 0 || len(m.Payload) > constants.MaxMessageSize {
		return qerrors.ErrInvalidMessage
	}
	return nil
}
