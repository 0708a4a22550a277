package audiofx

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/delay"
)

// reverbTapsMs are the tap delays of the parallel reverb bank. Mutually
// prime-ish spacings avoid audible comb resonance stacking, the same tuning
// philosophy as a Schroeder comb bank.
var reverbTapsMs = []float64{
	23, 31, 41, 53, 61, 73, 83, 97, 109, 127, 139, 151, 167, 181, 197,
}

// reverbTail is the decay time in seconds appended to the output at full wet.
const reverbTail = 2.5

// tapBank is the parallel reverb: one feedback delay line per tap, each with
// a one-pole lowpass in its feedback path. Later taps get darker filtering so
// the tail loses highs as it decays.
type tapBank struct {
	lines    []*delay.Line
	delays   []int
	damp     []float64
	dampLast []float64
	feedback float64
	wet      float64
}

func newTapBank(sampleRate int, amount float64) (*tapBank, error) {
	b := &tapBank{
		lines:    make([]*delay.Line, len(reverbTapsMs)),
		delays:   make([]int, len(reverbTapsMs)),
		damp:     make([]float64, len(reverbTapsMs)),
		dampLast: make([]float64, len(reverbTapsMs)),
		feedback: 0.28 + 0.62*amount,
		wet:      amount,
	}

	for i, ms := range reverbTapsMs {
		n := int(float64(sampleRate) * ms / 1000)
		if n < 1 {
			n = 1
		}
		line, err := delay.New(n + 1)
		if err != nil {
			return nil, err
		}
		b.lines[i] = line
		b.delays[i] = n
		// Damping coefficient grows with tap index: 0.25 for the earliest
		// tap up to 0.7 for the last.
		b.damp[i] = 0.25 + 0.45*float64(i)/float64(len(reverbTapsMs)-1)
	}

	return b, nil
}

// process runs the bank in place, wet/dry mixed by the configured amount.
func (b *tapBank) process(buf []float64) {
	norm := 1 / math.Sqrt(float64(len(b.lines)))

	for i, x := range buf {
		var wet float64
		for t := range b.lines {
			out := b.lines[t].Read(b.delays[t])
			// One-pole lowpass darkening inside the feedback loop.
			b.dampLast[t] = out*(1-b.damp[t]) + b.dampLast[t]*b.damp[t]
			b.lines[t].Write(x + b.dampLast[t]*b.feedback)
			wet += b.dampLast[t]
		}
		buf[i] = x*(1-b.wet) + wet*norm*b.wet
	}
}

// echoTaps is the number of discrete echo repeats.
const echoTaps = 5

// echo renders discrete repeats at integer multiples of the delay time, each
// decaying exponentially by the feedback ratio and lowpass filtered harder
// with every repeat.
type echo struct {
	line   *delay.Line
	step   int
	gains  [echoTaps]float64
	damp   [echoTaps]float64
	lpLast [echoTaps]float64
}

func newEcho(sampleRate int, delaySec, feedback float64) (*echo, error) {
	step := int(float64(sampleRate) * delaySec)
	if step < 1 {
		step = 1
	}

	line, err := delay.New(step*echoTaps + 1)
	if err != nil {
		return nil, err
	}

	e := &echo{line: line, step: step}
	for t := 0; t < echoTaps; t++ {
		e.gains[t] = math.Pow(feedback, float64(t+1))
		e.damp[t] = 0.2 + 0.13*float64(t)
	}

	return e, nil
}

func (e *echo) process(buf []float64) {
	for i, x := range buf {
		out := x
		for t := 0; t < echoTaps; t++ {
			tap := e.line.Read((t + 1) * e.step)
			e.lpLast[t] = tap*(1-e.damp[t]) + e.lpLast[t]*e.damp[t]
			out += e.lpLast[t] * e.gains[t]
		}
		e.line.Write(x)
		buf[i] = out
	}
}
