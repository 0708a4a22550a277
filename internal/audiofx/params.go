// Package audiofx renders audio filter presets offline: decode to PCM, run a
// fixed processing chain parameterized by preset data, re-encode to WAV.
//
// Presets are data, not code. A single interpreter reads the fields of Params
// and appends processing stages only for the fields a preset defines, always
// in the same order: highpass, lowpass, brightness, distortion, reverb, echo,
// dynamics normalization, final gain.
package audiofx

// Params is the full parameter set a preset may define. Zero values mean the
// corresponding stage is skipped.
type Params struct {
	// Lowpass and Highpass are cutoff frequencies in Hz.
	Lowpass  float64
	Highpass float64

	// Gain is the final linear output gain. Zero means unity.
	Gain float64

	// Reverb is the wet mix amount in [0,1] for the parallel tap-bank reverb.
	Reverb float64

	// Delay is the echo tap spacing in seconds; Feedback in [0,1) is the
	// per-tap decay ratio. Both must be set for the echo stage to run.
	Delay    float64
	Feedback float64

	// Distortion is the waveshaper saturation amount in [0,1].
	Distortion float64

	// Bright enables the clarity voicing: low-shelf cut, high-shelf boost
	// and a presence peak.
	Bright bool

	// Normalize enables the fixed-setting dynamics compressor.
	Normalize bool
}

// IsZero reports whether no stage is defined, i.e. the no-op fast path.
func (p Params) IsZero() bool {
	return p == Params{}
}

// effectiveGain returns the final-stage linear gain.
func (p Params) effectiveGain() float64 {
	if p.Gain == 0 {
		return 1
	}
	return p.Gain
}
