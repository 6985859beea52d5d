package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/mrityu75/guardian-bed-treehacks/pkg/metrics"
)

func TestCollectorCounts(t *testing.T) {
	c := metrics.NewCollector(nil)

	c.HandshakeStarted()
	c.HandshakeCompleted()
	c.EnvelopeSealed(100)
	c.EnvelopeSealed(28)
	c.EnvelopeOpened()
	c.AuthFailure()
	c.QKDRun(false, 3*time.Millisecond)
	c.QKDRun(true, time.Millisecond)

	snap := c.Snapshot()
	if snap.HandshakesStarted != 1 || snap.HandshakesCompleted != 1 {
		t.Errorf("handshake counters: %+v", snap)
	}
	if snap.EnvelopesSealed != 2 {
		t.Errorf("envelopes sealed: got %d, want 2", snap.EnvelopesSealed)
	}
	if snap.PlaintextBytes != 128 {
		t.Errorf("plaintext bytes: got %d, want 128", snap.PlaintextBytes)
	}
	if snap.EnvelopesOpened != 1 {
		t.Errorf("envelopes opened: got %d, want 1", snap.EnvelopesOpened)
	}
	if snap.AuthFailures != 1 {
		t.Errorf("auth failures: got %d, want 1", snap.AuthFailures)
	}
	if snap.QKDRuns != 2 || snap.QKDAborts != 1 {
		t.Errorf("qkd counters: runs=%d aborts=%d", snap.QKDRuns, snap.QKDAborts)
	}
}

func TestNilCollectorSafe(t *testing.T) {
	var c *metrics.Collector

	// All recording methods must be no-ops on a nil collector.
	c.HandshakeStarted()
	c.HandshakeCompleted()
	c.EnvelopeSealed(1)
	c.EnvelopeOpened()
	c.AuthFailure()
	c.QKDRun(false, 0)

	snap := c.Snapshot()
	if snap.HandshakesStarted != 0 {
		t.Error("nil collector snapshot should be zero")
	}
}

func TestWritePrometheus(t *testing.T) {
	c := metrics.NewCollector(metrics.Labels{"instance": "bed-7"})
	c.EnvelopeSealed(42)
	c.AuthFailure()

	var b strings.Builder
	c.WritePrometheus(&b, "guardian")
	out := b.String()

	if !strings.Contains(out, "guardian_envelopes_sealed_total") {
		t.Errorf("missing sealed counter:\n%s", out)
	}
	if !strings.Contains(out, "guardian_auth_failures_total") {
		t.Errorf("missing auth failure counter:\n%s", out)
	}
	if !strings.Contains(out, `instance="bed-7"`) {
		t.Errorf("missing label:\n%s", out)
	}
	if !strings.Contains(out, "# TYPE") {
		t.Errorf("missing TYPE comments:\n%s", out)
	}
}
