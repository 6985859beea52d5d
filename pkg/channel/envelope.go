// envelope.go defines the signed envelope exchanged end-to-end and its JSON
// serialization. Binary fields travel as base64 strings so the envelope can
// ride any JSON-capable transport (REST, websocket broadcast, log capture)
// without ambiguity about byte boundaries.
package channel

import (
	"encoding/base64"
	"encoding/json"

	qerrors "github.com/mrityu75/guardian-bed-treehacks/internal/errors"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/aead"
)

// SignedEnvelope is the unit exchanged between the two channel endpoints:
// an AEAD envelope plus an optional payload signature and session metadata.
type SignedEnvelope struct {
	// Encrypted is the authenticated ciphertext of the payload.
	Encrypted *aead.Envelope

	// Signature is a deterministic signature over the plaintext payload,
	// or nil when the sealing endpoint holds no signing key.
	Signature []byte

	// SessionID is the sealing endpoint's session identifier.
	SessionID string

	// DataType labels the payload ("patient_monitoring").
	DataType string

	// Version is the protocol version string.
	Version string
}

type envelopeJSON struct {
	Encrypted encryptedJSON `json:"encrypted"`
	Signature string        `json:"signature,omitempty"`
	SessionID string        `json:"session_id"`
	DataType  string        `json:"data_type"`
	Version   string        `json:"pqc_version"`
}

type encryptedJSON struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
	MAC        string `json:"mac"`
	Timestamp  int64  `json:"timestamp"`
}

// MarshalJSON serializes the envelope with base64-encoded binary fields.
func (e *SignedEnvelope) MarshalJSON() ([]byte, error) {
	if e.Encrypted == nil {
		return nil, qerrors.ErrInvalidEnvelope
	}
	enc := base64.StdEncoding
	out := envelopeJSON{
		Encrypted: encryptedJSON{
			Ciphertext: enc.EncodeToString(e.Encrypted.Ciphertext),
			Nonce:      enc.EncodeToString(e.Encrypted.Nonce),
			MAC:        enc.EncodeToString(e.Encrypted.MAC),
			Timestamp:  e.Encrypted.Timestamp,
		},
		SessionID: e.SessionID,
		DataType:  e.DataType,
		Version:   e.Version,
	}
	if e.Signature != nil {
		out.Signature = enc.EncodeToString(e.Signature)
	}
	return json.Marshal(out)
}

// UnmarshalJSON deserializes an envelope, rejecting malformed base64 or a
// missing encrypted section.
func (e *SignedEnvelope) UnmarshalJSON(data []byte) error {
	var in envelopeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return qerrors.NewProtocolError("envelope", qerrors.ErrInvalidEnvelope)
	}

	enc := base64.StdEncoding
	ciphertext, err := enc.DecodeString(in.Encrypted.Ciphertext)
	if err != nil {
		return qerrors.NewProtocolError("envelope", qerrors.ErrInvalidEnvelope)
	}
	nonce, err := enc.DecodeString(in.Encrypted.Nonce)
	if err != nil {
		return qerrors.NewProtocolError("envelope", qerrors.ErrInvalidEnvelope)
	}
	mac, err := enc.DecodeString(in.Encrypted.MAC)
	if err != nil {
		return qerrors.NewProtocolError("envelope", qerrors.ErrInvalidEnvelope)
	}

	var signature []byte
	if in.Signature != "" {
		signature, err = enc.DecodeString(in.Signature)
		if err != nil {
			return qerrors.NewProtocolError("envelope", qerrors.ErrInvalidEnvelope)
		}
	}

	e.Encrypted = &aead.Envelope{
		Ciphertext: ciphertext,
		Nonce:      nonce,
		MAC:        mac,
		Timestamp:  in.Encrypted.Timestamp,
	}
	e.Signature = signature
	e.SessionID = in.SessionID
	e.DataType = in.DataType
	e.Version = in.Version
	return nil
}
