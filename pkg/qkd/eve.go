// eve.go models an intercept-resend eavesdropper on the quantum channel.
package qkd

// Interceptor performs the intercept-resend attack: it measures each qubit
// in flight in an independently random basis and re-transmits a freshly
// prepared qubit matching its own measurement.
//
// The attack is self-defeating by construction. The interceptor guesses the
// preparation basis correctly only half the time; a wrong guess collapses
// the qubit into the interceptor's basis. Even when Bob's basis matches
// Alice's, he reads a uniformly random bit a quarter of the time.
// The resulting ~25% QBER in the sifted key lands well above the 11% abort
// threshold.
type Interceptor struct {
	rng   *bitSource
	bases []Basis
	bits  []Bit
}

// NewInterceptor creates a fresh interceptor with its own randomness.
func NewInterceptor() *Interceptor {
	return &Interceptor{rng: newBitSource()}
}

// Intercept measures and re-prepares every qubit on the channel, recording
// what it observed.
func (iv *Interceptor) Intercept(qubits []Qubit) []Qubit {
	iv.bases = make([]Basis, len(qubits))
	iv.bits = make([]Bit, len(qubits))

	out := make([]Qubit, len(qubits))
	for i, q := range qubits {
		basis := iv.rng.Basis()
		bit := Measure(q, basis, iv.rng)

		iv.bases[i] = basis
		iv.bits[i] = bit
		out[i] = Qubit{Bit: bit, Basis: basis}
	}
	return out
}

// InterceptedBits returns the bits the interceptor observed on its last
// intercept. The interceptor holds Alice's actual bit only at positions
// where it happened to guess the preparation basis.
func (iv *Interceptor) InterceptedBits() []Bit {
	out := make([]Bit, len(iv.bits))
	copy(out, iv.bits)
	return out
}
