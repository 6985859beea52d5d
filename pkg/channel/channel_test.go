package channel_test

import (
	"testing"

	qerrors "github.com/mrityu75/guardian-bed-treehacks/internal/errors"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/channel"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/metrics"
)

// handshake wires a server and a client through a full key establishment and
// fails the test on any step.
func handshake(t *testing.T) (server, client *channel.Channel) {
	t.Helper()

	server = channel.NewChannel()
	client = channel.NewChannel()

	hello, err := server.InitServer()
	if err != nil {
		t.Fatalf("InitServer failed: %v", err)
	}
	share, err := client.InitClient(hello)
	if err != nil {
		t.Fatalf("InitClient failed: %v", err)
	}
	if err := server.CompleteHandshake(share); err != nil {
		t.Fatalf("CompleteHandshake failed: %v", err)
	}
	return server, client
}

func TestHandshakeStates(t *testing.T) {
	server := channel.NewChannel()
	client := channel.NewChannel()

	if server.State() != channel.StateUninitialized {
		t.Errorf("fresh channel state: %v", server.State())
	}

	hello, err := server.InitServer()
	if err != nil {
		t.Fatalf("InitServer failed: %v", err)
	}
	if server.State() != channel.StateServerReady {
		t.Errorf("post-hello state: %v", server.State())
	}

	share, err := client.InitClient(hello)
	if err != nil {
		t.Fatalf("InitClient failed: %v", err)
	}
	if client.State() != channel.StateHandshakeComplete {
		t.Errorf("client should be complete after InitClient: %v", client.State())
	}

	if err := server.CompleteHandshake(share); err != nil {
		t.Fatalf("CompleteHandshake failed: %v", err)
	}
	if server.State() != channel.StateHandshakeComplete {
		t.Errorf("server should be complete: %v", server.State())
	}

	if server.SessionID() == "" || server.SessionID() != client.SessionID() {
		t.Error("both sides should agree on a non-empty session id")
	}
}

func TestBothDirectionsRoundTrip(t *testing.T) {
	server, client := handshake(t)

	reading := map[string]any{"id": "X1", "value": 42}

	// Server to client: signed.
	env, err := server.EncryptPatientData(reading)
	if err != nil {
		t.Fatalf("server EncryptPatientData failed: %v", err)
	}
	if env.Signature == nil {
		t.Error("server envelopes should carry a signature")
	}
	payload, err := client.DecryptPatientData(env)
	if err != nil {
		t.Fatalf("client DecryptPatientData failed: %v", err)
	}
	if payload["id"] != "X1" || payload["value"] != float64(42) {
		t.Errorf("payload mismatch: %v", payload)
	}

	// Client to server: unsigned.
	env, err = client.EncryptPatientData(reading)
	if err != nil {
		t.Fatalf("client EncryptPatientData failed: %v", err)
	}
	if env.Signature != nil {
		t.Error("client holds no signing key, envelope should be unsigned")
	}
	payload, err = server.DecryptPatientData(env)
	if err != nil {
		t.Fatalf("server DecryptPatientData failed: %v", err)
	}
	if payload["id"] != "X1" {
		t.Errorf("payload mismatch: %v", payload)
	}
}

func TestEncryptBeforeHandshake(t *testing.T) {
	ch := channel.NewChannel()

	if _, err := ch.EncryptPatientData(map[string]any{"x": 1}); !qerrors.Is(err, qerrors.ErrHandshakeIncomplete) {
		t.Errorf("got %v, want ErrHandshakeIncomplete", err)
	}
	if _, err := ch.DecryptPatientData(&channel.SignedEnvelope{}); !qerrors.Is(err, qerrors.ErrHandshakeIncomplete) {
		t.Errorf("got %v, want ErrHandshakeIncomplete", err)
	}

	// Server that has published its hello but not finished is still unusable.
	if _, err := ch.InitServer(); err != nil {
		t.Fatalf("InitServer failed: %v", err)
	}
	if _, err := ch.EncryptPatientData(map[string]any{"x": 1}); !qerrors.Is(err, qerrors.ErrHandshakeIncomplete) {
		t.Errorf("got %v, want ErrHandshakeIncomplete", err)
	}
}

func TestTamperedEnvelopeRecoverable(t *testing.T) {
	server, client := handshake(t)

	env, err := server.EncryptPatientData(map[string]any{"hr": 72})
	if err != nil {
		t.Fatalf("EncryptPatientData failed: %v", err)
	}

	env.Encrypted.Ciphertext[0] ^= 0x01
	payload, err := client.DecryptPatientData(env)
	if err != nil {
		t.Fatalf("tampering should not surface an error, got %v", err)
	}
	if payload != nil {
		t.Fatal("tampered envelope should yield a nil payload")
	}

	// The session key is untouched; the next envelope goes through.
	env2, err := server.EncryptPatientData(map[string]any{"hr": 73})
	if err != nil {
		t.Fatalf("EncryptPatientData failed: %v", err)
	}
	payload, err = client.DecryptPatientData(env2)
	if err != nil || payload == nil {
		t.Fatalf("session should survive a rejected envelope: payload=%v err=%v", payload, err)
	}
}

func TestForgedSignatureRejected(t *testing.T) {
	server, _ := handshake(t)

	env, err := server.EncryptPatientData(map[string]any{"hr": 72})
	if err != nil {
		t.Fatalf("EncryptPatientData failed: %v", err)
	}

	// Server receiving back its own envelope with a corrupted signature.
	env.Signature[0] ^= 0x01
	payload, err := server.DecryptPatientData(env)
	if err != nil {
		t.Fatalf("signature mismatch should not surface an error, got %v", err)
	}
	if payload != nil {
		t.Fatal("forged signature should yield a nil payload")
	}
}

func TestInvalidStateTransitions(t *testing.T) {
	server, client := handshake(t)

	if _, err := server.InitServer(); !qerrors.Is(err, qerrors.ErrInvalidState) {
		t.Errorf("second InitServer: got %v, want ErrInvalidState", err)
	}

	hello2, err := channel.NewChannel().InitServer()
	if err != nil {
		t.Fatalf("InitServer failed: %v", err)
	}
	if _, err := client.InitClient(hello2); !qerrors.Is(err, qerrors.ErrInvalidState) {
		t.Errorf("InitClient on a completed channel: got %v, want ErrInvalidState", err)
	}
}

func TestSessionIDMismatchRejected(t *testing.T) {
	serverA := channel.NewChannel()
	serverB := channel.NewChannel()
	client := channel.NewChannel()

	helloA, err := serverA.InitServer()
	if err != nil {
		t.Fatalf("InitServer failed: %v", err)
	}
	if _, err := serverB.InitServer(); err != nil {
		t.Fatalf("InitServer failed: %v", err)
	}

	share, err := client.InitClient(helloA)
	if err != nil {
		t.Fatalf("InitClient failed: %v", err)
	}

	// Key share for session A delivered to server B.
	if err := serverB.CompleteHandshake(share); err == nil {
		t.Error("mismatched session id should be rejected")
	}
}

func TestVerifyPatientData(t *testing.T) {
	server, client := handshake(t)

	env, err := server.EncryptPatientData(map[string]any{"hr": 72})
	if err != nil {
		t.Fatalf("EncryptPatientData failed: %v", err)
	}

	// Reconstruct the plaintext the signature covers.
	payload, err := client.DecryptPatientData(env)
	if err != nil || payload == nil {
		t.Fatalf("DecryptPatientData failed: payload=%v err=%v", payload, err)
	}

	if client.VerifyPatientData([]byte("anything"), env.Signature) {
		t.Error("the client holds no signing key and should never verify")
	}
	if client.PeerVerifyKey() == nil {
		t.Error("the client should have learned the server's verify key")
	}
	if server.PeerVerifyKey() != nil {
		t.Error("the server has no peer verify key")
	}
}

func TestCloseZeroizes(t *testing.T) {
	server, client := handshake(t)

	server.Close()
	if server.State() != channel.StateUninitialized {
		t.Errorf("closed channel state: %v", server.State())
	}
	if _, err := server.EncryptPatientData(map[string]any{"x": 1}); !qerrors.Is(err, qerrors.ErrHandshakeIncomplete) {
		t.Errorf("closed channel encrypt: got %v, want ErrHandshakeIncomplete", err)
	}
	client.Close()
}

func TestWireHandshakeAndData(t *testing.T) {
	collector := metrics.NewCollector(nil)
	server := channel.NewChannel(channel.WithCollector(collector))
	client := channel.NewChannel(channel.WithCollector(collector))

	helloFrame, err := server.InitServerWire()
	if err != nil {
		t.Fatalf("InitServerWire failed: %v", err)
	}
	shareFrame, err := client.InitClientWire(helloFrame)
	if err != nil {
		t.Fatalf("InitClientWire failed: %v", err)
	}
	if err := server.CompleteHandshakeWire(shareFrame); err != nil {
		t.Fatalf("CompleteHandshakeWire failed: %v", err)
	}

	frame, err := server.SealWire(map[string]any{"spo2": 98})
	if err != nil {
		t.Fatalf("SealWire failed: %v", err)
	}
	payload, err := client.OpenWire(frame)
	if err != nil {
		t.Fatalf("OpenWire failed: %v", err)
	}
	if payload["spo2"] != float64(98) {
		t.Errorf("payload mismatch: %v", payload)
	}

	snap := collector.Snapshot()
	if snap.HandshakesCompleted != 2 {
		t.Errorf("handshakes completed: got %d, want 2", snap.HandshakesCompleted)
	}
	if snap.EnvelopesSealed != 1 || snap.EnvelopesOpened != 1 {
		t.Errorf("envelope counters: %+v", snap)
	}
}
