package channel_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mrityu75/guardian-bed-treehacks/internal/constants"
	qerrors "github.com/mrityu75/guardian-bed-treehacks/internal/errors"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/channel"
)

func TestEnvelopeJSONRoundTrip(t *testing.T) {
	server, client := handshake(t)

	env, err := server.EncryptPatientData(map[string]any{"hr": 72})
	if err != nil {
		t.Fatalf("EncryptPatientData failed: %v", err)
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var restored channel.SignedEnvelope
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	payload, err := client.DecryptPatientData(&restored)
	if err != nil {
		t.Fatalf("DecryptPatientData failed: %v", err)
	}
	if payload == nil || payload["hr"] != float64(72) {
		t.Errorf("payload mismatch after JSON round trip: %v", payload)
	}
}

func TestEnvelopeWireKeys(t *testing.T) {
	server, _ := handshake(t)

	env, err := server.EncryptPatientData(map[string]any{"hr": 72})
	if err != nil {
		t.Fatalf("EncryptPatientData failed: %v", err)
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)

	for _, key := range []string{
		`"encrypted"`, `"ciphertext"`, `"nonce"`, `"mac"`, `"timestamp"`,
		`"signature"`, `"session_id"`, `"data_type"`, `"pqc_version"`,
	} {
		if !strings.Contains(s, key) {
			t.Errorf("serialized envelope missing %s:\n%s", key, s)
		}
	}
	if !strings.Contains(s, `"data_type":"`+constants.DataTypePatientMonitoring+`"`) {
		t.Error("data_type should carry the patient monitoring label")
	}
	if !strings.Contains(s, `"pqc_version":"`+constants.ProtocolVersion+`"`) {
		t.Error("pqc_version should carry the protocol version")
	}
}

func TestUnsignedEnvelopeOmitsSignature(t *testing.T) {
	_, client := handshake(t)

	env, err := client.EncryptPatientData(map[string]any{"hr": 72})
	if err != nil {
		t.Fatalf("EncryptPatientData failed: %v", err)
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), `"signature"`) {
		t.Errorf("unsigned envelope should omit the signature key:\n%s", data)
	}
}

func TestUnmarshalRejectsBadInput(t *testing.T) {
	inputs := []string{
		`not json`,
		`{"encrypted":{"ciphertext":"!!!","nonce":"","mac":""},"session_id":"s"}`,
		`{"encrypted":{"ciphertext":"","nonce":"###","mac":""},"session_id":"s"}`,
		`{"encrypted":{"ciphertext":"","nonce":"","mac":"%%"},"session_id":"s"}`,
		`{"encrypted":{"ciphertext":"","nonce":"","mac":""},"signature":"@@","session_id":"s"}`,
	}
	for i, in := range inputs {
		var env channel.SignedEnvelope
		if err := env.UnmarshalJSON([]byte(in)); !qerrors.Is(err, qerrors.ErrInvalidEnvelope) {
			t.Errorf("input %d: got %v, want ErrInvalidEnvelope", i, err)
		}
	}
}

func TestMarshalNilEncrypted(t *testing.T) {
	env := &channel.SignedEnvelope{}
	if _, err := json.Marshal(env); err == nil {
		t.Error("envelope without an encrypted section should not marshal")
	}
}
