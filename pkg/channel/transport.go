// transport.go bridges the channel to the length-delimited wire format so an
// endpoint can run the handshake over a raw byte transport instead of
// exchanging message structs directly.
package channel

import (
	"github.com/mrityu75/guardian-bed-treehacks/pkg/protocol"
)

// InitServerWire runs InitServer and returns the encoded hello frame.
func (c *Channel) InitServerWire() ([]byte, error) {
	hello, err := c.InitServer()
	if err != nil {
		return nil, err
	}
	return protocol.NewCodec().EncodeServerHello(hello)
}

// InitClientWire decodes a hello frame, runs InitClient and returns the
// encoded key-share frame.
func (c *Channel) InitClientWire(frame []byte) ([]byte, error) {
	codec := protocol.NewCodec()
	hello, err := codec.DecodeServerHello(frame)
	if err != nil {
		return nil, err
	}
	share, err := c.InitClient(hello)
	if err != nil {
		return nil, err
	}
	return codec.EncodeClientKeyShare(share)
}

// CompleteHandshakeWire decodes a key-share frame and completes the server
// side of the handshake.
func (c *Channel) CompleteHandshakeWire(frame []byte) error {
	share, err := protocol.NewCodec().DecodeClientKeyShare(frame)
	if err != nil {
		return err
	}
	return c.CompleteHandshake(share)
}

// SealWire encrypts v and returns the envelope as a data frame carrying its
// JSON encoding.
func (c *Channel) SealWire(v any) ([]byte, error) {
	env, err := c.EncryptPatientData(v)
	if err != nil {
		return nil, err
	}
	payload, err := env.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return protocol.NewCodec().EncodeData(&protocol.Data{Payload: payload})
}

// OpenWire decodes a data frame and opens the envelope it carries. Like
// DecryptPatientData, authentication failures yield a nil payload and a nil
// error.
func (c *Channel) OpenWire(frame []byte) (map[string]any, error) {
	msg, err := protocol.NewCodec().DecodeData(frame)
	if err != nil {
		return nil, err
	}
	var env SignedEnvelope
	if err := env.UnmarshalJSON(msg.Payload); err != nil {
		return nil, err
	}
	return c.DecryptPatientData(&env)
}
