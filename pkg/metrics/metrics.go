package metrics

import (
	"fmt"
	"io"
	"sort"
	"sync/atomic"
	"time"
)

// Collector aggregates operation counters from secure channels and QKD runs.
// All methods are safe for concurrent use; a nil *Collector is a valid
// no-op receiver so instrumented code never needs nil checks.
type Collector struct {
	// Channel metrics
	handshakesStarted   atomic.Uint64
	handshakesCompleted atomic.Uint64
	envelopesSealed     atomic.Uint64
	envelopesOpened     atomic.Uint64
	authFailures        atomic.Uint64
	plaintextBytes      atomic.Uint64

	// QKD metrics
	qkdRuns    atomic.Uint64
	qkdAborts  atomic.Uint64
	qkdElapsed atomic.Uint64 // cumulative nanoseconds

	createdAt time.Time
	labels    Labels
}

// Labels represents key-value pairs attached to exported metrics.
type Labels map[string]string

// NewCollector creates a new metrics collector.
func NewCollector(labels Labels) *Collector {
	if labels == nil {
		labels = make(Labels)
	}
	return &Collector{
		createdAt: time.Now(),
		labels:    labels,
	}
}

// HandshakeStarted records a handshake initiation.
func (c *Collector) HandshakeStarted() {
	if c == nil {
		return
	}
	c.handshakesStarted.Add(1)
}

// HandshakeCompleted records a completed handshake.
func (c *Collector) HandshakeCompleted() {
	if c == nil {
		return
	}
	c.handshakesCompleted.Add(1)
}

// EnvelopeSealed records one successful encryption of n plaintext bytes.
func (c *Collector) EnvelopeSealed(n int) {
	if c == nil {
		return
	}
	c.envelopesSealed.Add(1)
	c.plaintextBytes.Add(uint64(n))
}

// EnvelopeOpened records one successful authenticated decryption.
func (c *Collector) EnvelopeOpened() {
	if c == nil {
		return
	}
	c.envelopesOpened.Add(1)
}

// AuthFailure records a rejected envelope (MAC mismatch).
func (c *Collector) AuthFailure() {
	if c == nil {
		return
	}
	c.authFailures.Add(1)
}

// QKDRun records a completed BB84 run and whether it aborted.
func (c *Collector) QKDRun(aborted bool, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.qkdRuns.Add(1)
	if aborted {
		c.qkdAborts.Add(1)
	}
	c.qkdElapsed.Add(uint64(elapsed.Nanoseconds()))
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	HandshakesStarted   uint64
	HandshakesCompleted uint64
	EnvelopesSealed     uint64
	EnvelopesOpened     uint64
	AuthFailures        uint64
	PlaintextBytes      uint64
	QKDRuns             uint64
	QKDAborts           uint64
	QKDElapsed          time.Duration
	Uptime              time.Duration
	Labels              Labels
}

// Snapshot returns a consistent-enough copy of all counters for export.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{
		HandshakesStarted:   c.handshakesStarted.Load(),
		HandshakesCompleted: c.handshakesCompleted.Load(),
		EnvelopesSealed:     c.envelopesSealed.Load(),
		EnvelopesOpened:     c.envelopesOpened.Load(),
		AuthFailures:        c.authFailures.Load(),
		PlaintextBytes:      c.plaintextBytes.Load(),
		QKDRuns:             c.qkdRuns.Load(),
		QKDAborts:           c.qkdAborts.Load(),
		QKDElapsed:          time.Duration(c.qkdElapsed.Load()),
		Uptime:              time.Since(c.createdAt),
		Labels:              c.labels,
	}
}

// WritePrometheus writes all counters in Prometheus text exposition format.
// The namespace is prepended to every metric name (e.g. "guardian_qse").
func (c *Collector) WritePrometheus(w io.Writer, namespace string) {
	snap := c.Snapshot()
	labels := formatLabels(snap.Labels)

	writeMetric := func(name, help, typ string, value float64) {
		fmt.Fprintf(w, "# HELP %s_%s %s\n", namespace, name, help)
		fmt.Fprintf(w, "# TYPE %s_%s %s\n", namespace, name, typ)
		fmt.Fprintf(w, "%s_%s%s %g\n", namespace, name, labels, value)
	}

	writeMetric("handshakes_started_total", "Total handshakes initiated", "counter",
		float64(snap.HandshakesStarted))
	writeMetric("handshakes_completed_total", "Total handshakes completed", "counter",
		float64(snap.HandshakesCompleted))
	writeMetric("envelopes_sealed_total", "Total envelopes encrypted", "counter",
		float64(snap.EnvelopesSealed))
	writeMetric("envelopes_opened_total", "Total envelopes decrypted and authenticated", "counter",
		float64(snap.EnvelopesOpened))
	writeMetric("auth_failures_total", "Total envelopes rejected on MAC mismatch", "counter",
		float64(snap.AuthFailures))
	writeMetric("plaintext_bytes_total", "Total plaintext bytes encrypted", "counter",
		float64(snap.PlaintextBytes))
	writeMetric("qkd_runs_total", "Total BB84 protocol runs", "counter",
		float64(snap.QKDRuns))
	writeMetric("qkd_aborts_total", "Total BB84 runs aborted on eavesdropper detection", "counter",
		float64(snap.QKDAborts))
	writeMetric("uptime_seconds", "Collector uptime in seconds", "gauge",
		snap.Uptime.Seconds())
}

func formatLabels(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := "{"
	for i, k := range keys {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%s=%q", k, labels[k])
	}
	return out + "}"
}
