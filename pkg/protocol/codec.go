// codec.go implements serialization and deserialization of wire messages.
//
// Wire Format:
//
// All messages share one framing:
//
//	+------+--------+----------+
//	| Type | Length | Payload  |
//	| 1B   | 4B BE  | Variable |
//	+------+--------+----------+
//
// Length is a big-endian uint32 covering the payload only. Within a
// payload, every variable-length field is prefixed with a big-endian
// uint16 length; fixed-size fields are written raw. This keeps every
// binary field unambiguously delimited, which the AEAD's MAC depends on.
package protocol

import (
	"encoding/binary"

	"github.com/mrityu75/guardian-bed-treehacks/internal/constants"
	qerrors "github.com/mrityu75/guardian-bed-treehacks/internal/errors"
)

// HeaderSize is the size of the framing header: type byte + payload length.
const HeaderSize = 5

// Codec provides message serialization and deserialization.
type Codec struct{}

// NewCodec creates a new wire codec.
func NewCodec() *Codec {
	return &Codec{}
}

// EncodeServerHello serializes a ServerHello message.
func (c *Codec) EncodeServerHello(m *ServerHello) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	w := newFieldWriter(MessageTypeServerHello)
	w.bytes([]byte(m.Version))
	w.bytes(m.PublicKey)
	w.bytes(m.VerifyKey)
	w.bytes(m.SessionID)
	w.bytes([]byte(m.Algorithm))
	return w.finish()
}

// DecodeServerHello deserializes a ServerHello message.
func (c *Codec) DecodeServerHello(data []byte) (*ServerHello, error) {
	r, err := newFieldReader(data, MessageTypeServerHello)
	if err != nil {
		return nil, err
	}

	m := &ServerHello{}
	version, err := r.bytes()
	if err != nil {
		return nil, err
	}
	m.Version = string(version)
	if m.PublicKey, err = r.bytes(); err != nil {
		return nil, err
	}
	if m.VerifyKey, err = r.bytes(); err != nil {
		return nil, err
	}
	if m.SessionID, err = r.bytes(); err != nil {
		return nil, err
	}
	algorithm, err := r.bytes()
	if err != nil {
		return nil, err
	}
	m.Algorithm = string(algorithm)

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeClientKeyShare serializes a ClientKeyShare message.
func (c *Codec) EncodeClientKeyShare(m *ClientKeyShare) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	w := newFieldWriter(MessageTypeClientKeyShare)
	w.bytes(m.Ciphertext)
	w.bytes(m.SessionID)
	return w.finish()
}

// DecodeClientKeyShare deserializes a ClientKeyShare message.
func (c *Codec) DecodeClientKeyShare(data []byte) (*ClientKeyShare, error) {
	r, err := newFieldReader(data, MessageTypeClientKeyShare)
	if err != nil {
		return nil, err
	}

	m := &ClientKeyShare{}
	if m.Ciphertext, err = r.bytes(); err != nil {
		return nil, err
	}
	if m.SessionID, err = r.bytes(); err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeData frames an opaque envelope payload.
func (c *Codec) EncodeData(m *Data) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, HeaderSize+len(m.Payload))
	buf[0] = byte(MessageTypeData)
	binary.BigEndian.PutUint32(buf[1:], uint32(len(m.Payload)))
	copy(buf[HeaderSize:], m.Payload)
	return buf, nil
}

// DecodeData unframes an opaque envelope payload.
func (c *Codec) DecodeData(data []byte) (*Data, error) {
	payload, err := unframe(data, MessageTypeData)
	if err != nil {
		return nil, err
	}
	m := &Data{Payload: payload}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// PeekType returns the message type of a framed message without decoding it.
func PeekType(data []byte) (MessageType, error) {
	if len(data) < HeaderSize {
		return 0, qerrors.ErrInvalidMessage
	}
	return MessageType(data[0]), nil
}

// --- framing helpers ---

func unframe(data []byte, want MessageType) ([]byte, error) {
	if len(data) < HeaderSize {
		return nil, qerrors.ErrInvalidMessage
	}
	if MessageType(data[0]) != want {
		return nil, qerrors.ErrInvalidMessage
	}
	payloadLen := binary.BigEndian.Uint32(data[1:HeaderSize])
	if payloadLen > constants.MaxMessageSize {
		return nil, qerrors.ErrMessageTooLarge
	}
	if len(data) < HeaderSize+int(payloadLen) {
		return nil, qerrors.ErrInvalidMessage
	}
	return data[HeaderSize : HeaderSize+int(payloadLen)], nil
}

// fieldWriter accumulates length-prefixed fields into a framed message.
type fieldWriter struct {
	typ MessageType
	buf []byte
	err error
}

func newFieldWriter(typ MessageType) *fieldWriter {
	return &fieldWriter{typ: typ}
}

func (w *fieldWriter) bytes(field []byte) {
	if w.err != nil {
		return
	}
	if len(field) > constants.MaxFieldSize {
		w.err = qerrors.ErrMessageTooLarge
		return
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(field)))
	w.buf = append(w.buf, lenBuf[:]...)
	w.buf = append(w.buf, field...)
}

func (w *fieldWriter) finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, HeaderSize+len(w.buf))
	out[0] = byte(w.typ)
	binary.BigEndian.PutUint32(out[1:], uint32(len(w.buf)))
	copy(out[HeaderSize:], w.buf)
	return out, nil
}

// fieldReader consumes length-prefixed fields from a framed message.
type fieldReader struct {
	payload []byte
	offset  int
}

func newFieldReader(data []byte, want MessageType) (*fieldReader, error) {
	payload, err := unframe(data, want)
	if err != nil {
		return nil, err
	}
	return &fieldReader{payload: payload}, nil
}

func (r *fieldReader) bytes() ([]byte, error) {
	if r.offset+2 > len(r.payload) {
		return nil, qerrors.ErrInvalidMessage
	}
	n := int(binary.BigEndian.Uint16(r.payload[r.offset:]))
	r.offset += 2
	if r.offset+n > len(r.payload) {
		return nil, qerrors.ErrInvalidMessage
	}
	field := make([]byte, n)
	copy(field, r.payload[r.offset:r.offset+n])
	r.offset += n
	return field, nil
}
