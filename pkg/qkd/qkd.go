// Package qkd simulates BB84 quantum key distribution between the bed-side
// sensor module (Alice) and the monitoring server (Bob).
//
// Protocol flow, one run:
//
//	Alice                                   Bob
//	  |                                      |
//	  |  1. prepare n qubits in random       |
//	  |     bits and bases, channel noise    |
//	  |     may flip each transmitted bit    |
//	  | -----------  qubits  --------------> |
//	  |                                      |  2. measure each qubit in an
//	  |                                      |     independent random basis
//	  | <--- basis disclosure (classical) -> |
//	  |                                      |
//	  |  3. sift: keep positions where       |
//	  |     bases matched (~50%)             |
//	  |                                      |
//	  |  4. sacrifice a sample of sifted     |
//	  |     bits; QBER > 11% ⇒ abort         |
//	  |                                      |
//	  |  5. privacy amplification: hash      |
//	  |     remaining bits to a 32-byte key  |
//
// # Measurement model
//
// A qubit measured in the basis it was prepared in reproduces its bit
// exactly; measured in the other basis the outcome is uniformly random.
// This is an abstract probabilistic event implemented as a pure function of
// (prepared bit, prepared basis, measuring basis, randomness); there is no
// physical simulator dependency.
//
// # Security
//
// An intercept-resend attacker (see Interceptor) guesses the preparation
// basis correctly only half the time, introducing an expected 25% error
// rate in the matched-basis subset, reliably above the 11% abort bound.
// The basis disclosure in step 2 is assumed to run over an authenticated
// classical channel; bit values are never disclosed except for the
// sacrificed error-check sample.
package qkd

import (
	"time"

	"github.com/mrityu75/guardian-bed-treehacks/internal/constants"
	qerrors "github.com/mrityu75/guardian-bed-treehacks/internal/errors"
	"github.com/mrityu75/guardian-bed-treehacks/pkg/crypto"
)

// Bit is a single classical bit (0 or 1).
type Bit uint8

// Basis is a photon polarization basis.
type Basis uint8

// The two BB84 preparation/measurement bases.
const (
	// BasisRectilinear is the Z basis (|0⟩, |1⟩).
	BasisRectilinear Basis = 0
	// BasisDiagonal is the X basis (|+⟩, |−⟩).
	BasisDiagonal Basis = 1
)

// String returns the conventional single-letter basis name.
func (b Basis) String() string {
	if b == BasisRectilinear {
		return "Z"
	}
	return "X"
}

// Qubit is one simulated photon: the bit it encodes and the basis it was
// prepared in. Transmitting a Qubit value models the quantum channel.
type Qubit struct {
	Bit   Bit
	Basis Basis
}

// Phase tracks progress of one protocol run.
type Phase int

// Protocol phases in order of progression. A run ends in either PhaseKeyed
// or PhaseAborted.
const (
	PhaseNew Phase = iota
	PhasePrepared
	PhaseMeasured
	PhaseSifted
	PhaseErrorChecked
	PhaseKeyed
	PhaseAborted
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNew:
		return "New"
	case PhasePrepared:
		return "Prepared"
	case PhaseMeasured:
		return "Measured"
	case PhaseSifted:
		return "Sifted"
	case PhaseErrorChecked:
		return "ErrorChecked"
	case PhaseKeyed:
		return "Keyed"
	case PhaseAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Config holds the parameters of one protocol run.
type Config struct {
	// Qubits is the number of qubits exchanged. More qubits survive sifting
	// and error checking, feeding more entropy into the final key.
	Qubits int

	// NoiseProb is the probability that the quantum channel flips each
	// transmitted bit, modeling physical decoherence. Must be in [0,1).
	NoiseProb float64

	// SampleFraction is the fraction of the sifted key sacrificed for error
	// estimation. Must be in (0,1].
	SampleFraction float64

	// Threshold is the QBER above which the run aborts as eavesdropped.
	// The BB84 security bound is 0.11; changing it changes the security
	// guarantee and should only be done deliberately.
	Threshold float64
}

// DefaultConfig returns the standard parameters: 256 qubits, a noiseless
// channel, a 20% error-check sample, and the 11% BB84 abort threshold.
func DefaultConfig() Config {
	return Config{
		Qubits:         constants.QKDDefaultQubits,
		NoiseProb:      0,
		SampleFraction: constants.QKDDefaultSampleFraction,
		Threshold:      constants.QKDErrorThreshold,
	}
}

// Validate checks all parameters before any protocol work begins.
func (c Config) Validate() error {
	if c.Qubits <= 0 {
		return qerrors.NewConfigError("qubits", qerrors.ErrEmptyQubitSet)
	}
	if c.NoiseProb < 0 || c.NoiseProb >= 1 {
		return qerrors.NewConfigError("noise", qerrors.ErrInvalidNoise)
	}
	if c.SampleFraction <= 0 || c.SampleFraction > 1 {
		return qerrors.NewConfigError("sample_fraction", qerrors.ErrInvalidSampleFraction)
	}
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return qerrors.NewConfigError("threshold", qerrors.ErrInvalidThreshold)
	}
	return nil
}

// Measure measures a qubit in the given basis.
//
// If the measuring basis matches the preparation basis the encoded bit is
// reproduced exactly; otherwise the outcome is uniformly random (the
// superposition collapses unpredictably in a mismatched basis).
func Measure(q Qubit, basis Basis, rnd BitReader) Bit {
	if basis == q.Basis {
		return q.Bit
	}
	return rnd.Bit()
}

// Exchange is one BB84 protocol run. It carries Alice's preparation record,
// Bob's measurement record, and the evolving sifted key. An Exchange is
// single-use: after PhaseKeyed or PhaseAborted it cannot be restarted.
//
// Not safe for concurrent use.
type Exchange struct {
	cfg   Config
	rng   *bitSource
	phase Phase

	aliceBits  []Bit
	aliceBases []Basis
	bobBases   []Basis
	bobResults []Bit

	aliceSifted []Bit
	bobSifted   []Bit

	sampleSize   int
	errorsFound  int
	errorRate    float64
	eavesdropper bool

	remaining []Bit
	finalKey  []byte
}

// NewExchange creates a protocol run with the given parameters.
func NewExchange(cfg Config) (*Exchange, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Exchange{
		cfg: cfg,
		rng: newBitSource(),
	}, nil
}

// Config returns the parameters of this run.
func (e *Exchange) Config() Config { return e.cfg }

// Phase returns the current protocol phase.
func (e *Exchange) Phase() Phase { return e.phase }

// AlicePrepare draws random bits and bases and prepares one qubit per
// position. Channel noise independently flips each transmitted bit with
// probability NoiseProb; Alice's own record keeps the original bit, which
// is how noise later surfaces as measured error.
func (e *Exchange) AlicePrepare() ([]Qubit, error) {
	if e.phase != PhaseNew {
		return nil, qerrors.ErrInvalidPhase
	}

	n := e.cfg.Qubits
	e.aliceBits = make([]Bit, n)
	e.aliceBases = make([]Basis, n)

	qubits := make([]Qubit, n)
	for i := 0; i < n; i++ {
		e.aliceBits[i] = e.rng.Bit()
		e.aliceBases[i] = e.rng.Basis()

		transmitted := e.aliceBits[i]
		if e.cfg.NoiseProb > 0 && e.rng.Float64() < e.cfg.NoiseProb {
			transmitted ^= 1
		}
		qubits[i] = Qubit{Bit: transmitted, Basis: e.aliceBases[i]}
	}

	e.phase = PhasePrepared
	return qubits, nil
}

// BobMeasure measures each received qubit in an independently random basis.
func (e *Exchange) BobMeasure(qubits []Qubit) ([]Bit, error) {
	if e.phase != PhasePrepared {
		return nil, qerrors.ErrInvalidPhase
	}
	if len(qubits) != e.cfg.Qubits {
		return nil, qerrors.NewProtocolError("measure", qerrors.ErrInvalidMessage)
	}

	n := e.cfg.Qubits
	e.bobBases = make([]Basis, n)
	e.bobResults = make([]Bit, n)
	for i := 0; i < n; i++ {
		e.bobBases[i] = e.rng.Basis()
		e.bobResults[i] = Measure(qubits[i], e.bobBases[i], e.rng)
	}

	e.phase = PhaseMeasured
	return e.bobResults, nil
}

// Sift discards positions where Alice's and Bob's bases differ. Only basis
// choices are disclosed, never bit values; for uniformly random bases the
// expected survival rate is 50%.
func (e *Exchange) Sift() (alice, bob []Bit, err error) {
	if e.phase != PhaseMeasured {
		return nil, nil, qerrors.ErrInvalidPhase
	}

	for i := 0; i < e.cfg.Qubits; i++ {
		if e.aliceBases[i] == e.bobBases[i] {
			e.aliceSifted = append(e.aliceSifted, e.aliceBits[i])
			e.bobSifted = append(e.bobSifted, e.bobResults[i])
		}
	}

	e.phase = PhaseSifted
	return e.aliceSifted, e.bobSifted, nil
}

// ErrorEstimate summarizes the error-check step.
type ErrorEstimate struct {
	SampleSize           int
	ErrorsFound          int
	ErrorRate            float64
	EavesdropperDetected bool
	RemainingBits        int
}

// EstimateError sacrifices a random sample of the sifted key, compares
// Alice's and Bob's bits at those positions, and aborts the run if the
// measured error rate exceeds the configured threshold.
//
// The sample size is clamped to at least one bit: a zero-size sample makes
// error estimation meaningless. Sampled positions are discarded from the
// key whether or not the run survives. If sifting produced no bits at all
// the run aborts: there is nothing to estimate over and nothing to key
// from.
func (e *Exchange) EstimateError() (*ErrorEstimate, error) {
	if e.phase != PhaseSifted {
		return nil, qerrors.ErrInvalidPhase
	}

	m := len(e.aliceSifted)
	if m == 0 {
		e.phase = PhaseAborted
		return &ErrorEstimate{}, nil
	}

	sample := int(float64(m) * e.cfg.SampleFraction)
	if sample < 1 {
		sample = 1
	}
	if sample > m {
		sample = m
	}

	picked := e.rng.sampleIndices(m, sample)
	sampled := make(map[int]bool, sample)
	errs := 0
	for _, i := range picked {
		sampled[i] = true
		if e.aliceSifted[i] != e.bobSifted[i] {
			errs++
		}
	}

	e.sampleSize = sample
	e.errorsFound = errs
	e.errorRate = float64(errs) / float64(sample)
	e.eavesdropper = e.errorRate > e.cfg.Threshold

	for i := 0; i < m; i++ {
		if !sampled[i] {
			e.remaining = append(e.remaining, e.aliceSifted[i])
		}
	}

	est := &ErrorEstimate{
		SampleSize:           sample,
		ErrorsFound:          errs,
		ErrorRate:            e.errorRate,
		EavesdropperDetected: e.eavesdropper,
		RemainingBits:        len(e.remaining),
	}

	if e.eavesdropper {
		e.phase = PhaseAborted
	} else {
		e.phase = PhaseErrorChecked
	}
	return est, nil
}

// PrivacyAmplify compresses the surviving sifted bits into a fixed 32-byte
// key, removing any partial information leaked by basis disclosure or
// channel noise. Only reachable when the error check passed.
func (e *Exchange) PrivacyAmplify() ([]byte, error) {
	if e.phase == PhaseAborted {
		return nil, qerrors.ErrExchangeAborted
	}
	if e.phase != PhaseErrorChecked {
		return nil, qerrors.ErrInvalidPhase
	}

	raw := make([]byte, len(e.remaining))
	for i, b := range e.remaining {
		raw[i] = '0' + byte(b)
	}

	e.finalKey = crypto.Hash256(raw, []byte(constants.DomainTagPrivacyAmp))
	e.phase = PhaseKeyed
	return e.finalKey, nil
}

// ErrorRate returns the QBER measured during error estimation.
func (e *Exchange) ErrorRate() float64 { return e.errorRate }

// EavesdropperDetected reports the verdict of the error check.
func (e *Exchange) EavesdropperDetected() bool { return e.eavesdropper }

// FinalKey returns the amplified key, or an error if the run aborted or has
// not completed.
func (e *Exchange) FinalKey() ([]byte, error) {
	switch e.phase {
	case PhaseKeyed:
		return e.finalKey, nil
	case PhaseAborted:
		return nil, qerrors.ErrExchangeAborted
	default:
		return nil, qerrors.ErrInvalidPhase
	}
}

// Result summarizes a completed protocol run.
type Result struct {
	Qubits               int
	NoiseProb            float64
	SiftedLen            int
	SiftRate             float64
	SampleSize           int
	ErrorsFound          int
	ErrorRate            float64
	EavesdropperDetected bool
	Secure               bool
	Key                  []byte // nil when the run aborted
	Elapsed              time.Duration
}

// Run executes the complete protocol. If interceptor is non-nil it sits on
// the quantum channel between preparation and measurement, modeling an
// intercept-resend attack.
//
// An eavesdropper verdict is not an error: the Result carries
// EavesdropperDetected=true and a nil Key. Errors indicate configuration
// or sequencing problems only.
func (e *Exchange) Run(interceptor *Interceptor) (*Result, error) {
	start := time.Now()

	qubits, err := e.AlicePrepare()
	if err != nil {
		return nil, err
	}
	if interceptor != nil {
		qubits = interceptor.Intercept(qubits)
	}
	if _, err := e.BobMeasure(qubits); err != nil {
		return nil, err
	}
	if _, _, err := e.Sift(); err != nil {
		return nil, err
	}
	est, err := e.EstimateError()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Qubits:               e.cfg.Qubits,
		NoiseProb:            e.cfg.NoiseProb,
		SiftedLen:            len(e.aliceSifted),
		SiftRate:             float64(len(e.aliceSifted)) / float64(e.cfg.Qubits),
		SampleSize:           est.SampleSize,
		ErrorsFound:          est.ErrorsFound,
		ErrorRate:            est.ErrorRate,
		EavesdropperDetected: est.EavesdropperDetected,
		Secure:               e.phase != PhaseAborted,
		Elapsed:              time.Since(start),
	}

	if e.phase != PhaseAborted {
		key, err := e.PrivacyAmplify()
		if err != nil {
			return nil, err
		}
		res.Key = key
	}
	res.Elapsed = time.Since(start)

	return res, nil
}

// ExchangeKey runs the full protocol with the given parameters and returns
// the 32-byte shared key, or nil (with nil error) when the run aborts on a
// detected eavesdropper. The caller decides whether to retry.
func ExchangeKey(cfg Config) ([]byte, error) {
	e, err := NewExchange(cfg)
	if err != nil {
		return nil, err
	}
	res, err := e.Run(nil)
	if err != nil {
		return nil, err
	}
	return res.Key, nil
}
