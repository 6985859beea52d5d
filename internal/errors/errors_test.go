package errors_test

import (
	"strings"
	"testing"

	qerrors "github.com/mrityu75/guardian-bed-treehacks/internal/errors"
)

func TestSentinelPrefixes(t *testing.T) {
	cases := []struct {
		err    error
		prefix string
	}{
		{qerrors.ErrMalformedCiphertext, "qkem:"},
		{qerrors.ErrAuthenticationFailed, "aead:"},
		{qerrors.ErrInvalidSignature, "sig:"},
		{qerrors.ErrExchangeAborted, "qkd:"},
		{qerrors.ErrHandshakeIncomplete, "channel:"},
		{qerrors.ErrInvalidMessage, "protocol:"},
	}
	for _, tc := range cases {
		if !strings.HasPrefix(tc.err.Error(), tc.prefix) {
			t.Errorf("%v should carry prefix %q", tc.err, tc.prefix)
		}
	}
}

func TestCryptoErrorUnwrap(t *testing.T) {
	wrapped := qerrors.NewCryptoError("qkem.Encapsulate", qerrors.ErrInvalidPublicKey)

	if !qerrors.Is(wrapped, qerrors.ErrInvalidPublicKey) {
		t.Error("CryptoError should unwrap to its sentinel")
	}

	var ce *qerrors.CryptoError
	if !qerrors.As(wrapped, &ce) {
		t.Fatal("As should extract *CryptoError")
	}
	if ce.Op != "qkem.Encapsulate" {
		t.Errorf("op: got %q", ce.Op)
	}
	if !strings.Contains(wrapped.Error(), "qkem.Encapsulate") {
		t.Errorf("message should name the operation: %v", wrapped)
	}
}

func TestProtocolErrorUnwrap(t *testing.T) {
	wrapped := qerrors.NewProtocolError("complete_handshake", qerrors.ErrInvalidState)

	if !qerrors.Is(wrapped, qerrors.ErrInvalidState) {
		t.Error("ProtocolError should unwrap to its sentinel")
	}

	var pe *qerrors.ProtocolError
	if !qerrors.As(wrapped, &pe) {
		t.Fatal("As should extract *ProtocolError")
	}
	if pe.Phase != "complete_handshake" {
		t.Errorf("phase: got %q", pe.Phase)
	}
}

func TestConfigErrorUnwrap(t *testing.T) {
	wrapped := qerrors.NewConfigError("noise", qerrors.ErrInvalidNoise)

	if !qerrors.Is(wrapped, qerrors.ErrInvalidNoise) {
		t.Error("ConfigError should unwrap to its sentinel")
	}

	var ce *qerrors.ConfigError
	if !qerrors.As(wrapped, &ce) {
		t.Fatal("As should extract *ConfigError")
	}
	if ce.Param != "noise" {
		t.Errorf("param: got %q", ce.Param)
	}
}
