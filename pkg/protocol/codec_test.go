package protocol_test

import (
	"bytes"
	"testing"

	"github.com/mrityu75/guardian-bed-treehacks/internal/constants"
	qerrors "github.com/mrityu75/guardian-bed-treehacks/internal/errors"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/protocol"
)

func sampleHello() *protocol.ServerHello {
	return &protocol.ServerHello{
		Version:   constants.ProtocolVersion,
		PublicKey: bytes.Repeat([]byte{0xAA}, constants.KEMPublicKeySize),
		VerifyKey: bytes.Repeat([]byte{0xBB}, constants.VerifyKeySize),
		SessionID: bytes.Repeat([]byte{0x5E}, constants.SessionIDSize),
		Algorithm: constants.KEMAlgorithm,
	}
}

func TestServerHelloRoundTrip(t *testing.T) {
	codec := protocol.NewCodec()
	in := sampleHello()

	frame, err := codec.EncodeServerHello(in)
	if err != nil {
		t.Fatalf("EncodeServerHello failed: %v", err)
	}

	typ, err := protocol.PeekType(frame)
	if err != nil {
		t.Fatalf("PeekType failed: %v", err)
	}
	if typ != protocol.MessageTypeServerHello {
		t.Errorf("frame type: got %v, want %v", typ, protocol.MessageTypeServerHello)
	}

	out, err := codec.DecodeServerHello(frame)
	if err != nil {
		t.Fatalf("DecodeServerHello failed: %v", err)
	}

	if out.Version != in.Version {
		t.Errorf("version: got %q, want %q", out.Version, in.Version)
	}
	if !bytes.Equal(out.PublicKey, in.PublicKey) {
		t.Error("public key mismatch")
	}
	if !bytes.Equal(out.VerifyKey, in.VerifyKey) {
		t.Error("verify key mismatch")
	}
	if !bytes.Equal(out.SessionID, in.SessionID) {
		t.Error("session id mismatch")
	}
	if out.Algorithm != in.Algorithm {
		t.Errorf("algorithm: got %q, want %q", out.Algorithm, in.Algorithm)
	}
}

func TestClientKeyShareRoundTrip(t *testing.T) {
	codec := protocol.NewCodec()
	in := &protocol.ClientKeyShare{
		Ciphertext: bytes.Repeat([]byte{0xCC}, constants.KEMCiphertextSize),
		SessionID:  bytes.Repeat([]byte{0x5E}, constants.SessionIDSize),
	}

	frame, err := codec.EncodeClientKeyShare(in)
	if err != nil {
		t.Fatalf("EncodeClientKeyShare failed: %v", err)
	}
	out, err := codec.DecodeClientKeyShare(frame)
	if err != nil {
		t.Fatalf("DecodeClientKeyShare failed: %v", err)
	}

	if !bytes.Equal(out.Ciphertext, in.Ciphertext) {
		t.Error("ciphertext mismatch")
	}
	if !bytes.Equal(out.SessionID, in.SessionID) {
		t.Error("session id mismatch")
	}
}

func TestDataRoundTrip(t *testing.T) {
	codec := protocol.NewCodec()
	in := &protocol.Data{Payload: []byte(`{"encrypted":{}}`)}

	frame, err := codec.EncodeData(in)
	if err != nil {
		t.Fatalf("EncodeData failed: %v", err)
	}
	out, err := codec.DecodeData(frame)
	if err != nil {
		t.Fatalf("DecodeData failed: %v", err)
	}
	if !bytes.Equal(out.Payload, in.Payload) {
		t.Error("payload mismatch")
	}
}

func TestDecodeWrongType(t *testing.T) {
	codec := protocol.NewCodec()
	frame, err := codec.EncodeData(&protocol.Data{Payload: []byte("x")})
	if err != nil {
		t.Fatalf("EncodeData failed: %v", err)
	}

	if _, err := codec.DecodeServerHello(frame); !qerrors.Is(err, qerrors.ErrInvalidMessage) {
		t.Errorf("got %v, want ErrInvalidMessage", err)
	}
}

func TestDecodeTruncatedFrames(t *testing.T) {
	codec := protocol.NewCodec()
	frame, err := codec.EncodeServerHello(sampleHello())
	if err != nil {
		t.Fatalf("EncodeServerHello failed: %v", err)
	}

	for cut := 0; cut < len(frame); cut += 7 {
		if _, err := codec.DecodeServerHello(frame[:cut]); err == nil {
			t.Errorf("truncation at %d bytes decoded without error", cut)
		}
	}
}

func TestDecodeGarbage(t *testing.T) {
	codec := protocol.NewCodec()

	inputs := [][]byte{
		nil,
		{},
		{0xFF},
		bytes.Repeat([]byte{0x00}, 64),
		bytes.Repeat([]byte{0xFF}, 64),
	}
	for i, in := range inputs {
		if _, err := codec.DecodeServerHello(in); err == nil {
			t.Errorf("garbage input %d decoded without error", i)
		}
	}
}

func TestPeekTypeEmpty(t *testing.T) {
	if _, err := protocol.PeekType(nil); err == nil {
		t.Error("PeekType on empty input should fail")
	}
}

func TestEncodeOversizedField(t *testing.T) {
	codec := protocol.NewCodec()
	in := sampleHello()
	in.Algorithm = string(make([]byte, constants.MaxFieldSize+1))

	if _, err := codec.EncodeServerHello(in); !qerrors.Is(err, qerrors.ErrMessageTooLarge) {
		t.Errorf("got %v, want ErrMessageTooLarge", err)
	}
}

func TestValidate(t *testing.T) {
	hello := sampleHello()
	if err := hello.Validate(); err != nil {
		t.Errorf("valid hello rejected: %v", err)
	}

	bad := sampleHello()
	bad.PublicKey = bad.PublicKey[:8]
	if err := bad.Validate(); err == nil {
		t.Error("short public key accepted")
	}

	share := &protocol.ClientKeyShare{
		Ciphertext: bytes.Repeat([]byte{0x01}, constants.KEMCiphertextSize),
		SessionID:  bytes.Repeat([]byte{0x5E}, constants.SessionIDSize),
	}
	if err := share.Validate(); err != nil {
		t.Errorf("valid key share rejected: %v", err)
	}
	share.Ciphertext = nil
	if err := share.Validate(); err == nil {
		t.Error("missing ciphertext accepted")
	}
}
