package audiofx

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/spectrum"
)

func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// bandMagnitude measures one frequency component over the block.
func bandMagnitude(t *testing.T, samples []float64, freq float64, sampleRate int) float64 {
	t.Helper()
	g, err := spectrum.NewGoertzel(freq, float64(sampleRate))
	if err != nil {
		t.Fatalf("NewGoertzel(%v) error: %v", freq, err)
	}
	g.ProcessBlock(samples)
	return g.Magnitude() / float64(len(samples))
}

func TestRenderNoOpFastPath(t *testing.T) {
	src, err := EncodeWAV(sineBuffer(440, 44100, 1, 0.2))
	if err != nil {
		t.Fatalf("EncodeWAV() error: %v", err)
	}

	res, err := Render(context.Background(), src, Params{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if res.Degraded {
		t.Error("no-op render reported degraded")
	}
	if !bytes.Equal(res.Data, src) {
		t.Error("no-op render modified the payload")
	}
}

func TestRenderTelephonePreset(t *testing.T) {
	// 10-second mono source mixing voice-band and high-frequency energy.
	const sampleRate = 44100
	frames := 10 * sampleRate
	src := &Buffer{SampleRate: sampleRate, Samples: [][]float64{make([]float64, frames)}}
	for i := range src.Samples[0] {
		tt := float64(i) / sampleRate
		src.Samples[0][i] = 0.4*math.Sin(2*math.Pi*1000*tt) + 0.4*math.Sin(2*math.Pi*6000*tt)
	}
	srcWAV, err := EncodeWAV(src)
	if err != nil {
		t.Fatalf("EncodeWAV() error: %v", err)
	}

	params := Params{Lowpass: 3000, Highpass: 400, Gain: 0.75, Distortion: 0.15}
	res, err := Render(context.Background(), srcWAV, params)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if res.Degraded {
		t.Fatal("telephone render reported degraded")
	}

	out, err := DecodeWAV(res.Data)
	if err != nil {
		t.Fatalf("output is not a valid WAV: %v", err)
	}

	if out.Channels() != 1 {
		t.Errorf("channels = %d, want 1", out.Channels())
	}
	if out.SampleRate != sampleRate {
		t.Errorf("sample rate = %d, want %d", out.SampleRate, sampleRate)
	}
	if out.Len() != frames {
		t.Errorf("frames = %d, want %d (no reverb/delay, no tail)", out.Len(), frames)
	}

	if inRMS, outRMS := rms(src.Samples[0]), rms(out.Samples[0]); outRMS >= inRMS {
		t.Errorf("RMS not reduced: in %f, out %f", inRMS, outRMS)
	}

	// Energy above the 3 kHz cutoff must drop much harder than the passband.
	inHigh := bandMagnitude(t, src.Samples[0], 6000, sampleRate)
	outHigh := bandMagnitude(t, out.Samples[0], 6000, sampleRate)
	inMid := bandMagnitude(t, src.Samples[0], 1000, sampleRate)
	outMid := bandMagnitude(t, out.Samples[0], 1000, sampleRate)

	if outHigh >= inHigh*0.5 {
		t.Errorf("6 kHz energy not attenuated: in %g, out %g", inHigh, outHigh)
	}
	if outHigh/inHigh >= outMid/inMid {
		t.Errorf("high band (%g) did not drop more than passband (%g)", outHigh/inHigh, outMid/inMid)
	}
}

func TestRenderReverbExtendsDecayTail(t *testing.T) {
	const sampleRate = 44100
	src := sineBuffer(440, sampleRate, 1, 1.0)
	srcWAV, err := EncodeWAV(src)
	if err != nil {
		t.Fatalf("EncodeWAV() error: %v", err)
	}

	res, err := Render(context.Background(), srcWAV, Params{Reverb: 0.85})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out, err := DecodeWAV(res.Data)
	if err != nil {
		t.Fatalf("output is not a valid WAV: %v", err)
	}

	if out.Len() <= src.Len() {
		t.Fatalf("output (%d frames) not longer than source (%d frames)", out.Len(), src.Len())
	}

	tail := out.Samples[0][src.Len():]
	if rms(tail) == 0 {
		t.Error("no energy beyond the source's natural end; reverb tail missing")
	}
}

func TestRenderEchoProducesRepeats(t *testing.T) {
	const sampleRate = 8000
	// A single click, then silence.
	src := &Buffer{SampleRate: sampleRate, Samples: [][]float64{make([]float64, sampleRate)}}
	src.Samples[0][0] = 0.9
	srcWAV, err := EncodeWAV(src)
	if err != nil {
		t.Fatalf("EncodeWAV() error: %v", err)
	}

	res, err := Render(context.Background(), srcWAV, Params{Delay: 0.1, Feedback: 0.5})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out, err := DecodeWAV(res.Data)
	if err != nil {
		t.Fatalf("output is not a valid WAV: %v", err)
	}

	step := int(0.1 * sampleRate)
	first := math.Abs(out.Samples[0][step])
	second := math.Abs(out.Samples[0][2*step])
	if first == 0 {
		t.Fatal("no echo at the first tap position")
	}
	if second >= first {
		t.Errorf("echo taps not decaying: tap1 %f, tap2 %f", first, second)
	}
}

func TestRenderDegradedFallback(t *testing.T) {
	src := []byte("definitely not a wav file")

	res, err := Render(context.Background(), src, Params{Reverb: 0.5})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !res.Degraded {
		t.Fatal("undecodable source did not report degraded")
	}
	if !bytes.Equal(res.Data, src) {
		t.Error("degraded result does not carry the original payload")
	}
	if !res.Applied.IsZero() {
		t.Error("degraded result claims applied parameters")
	}
}

func TestRenderCancelled(t *testing.T) {
	srcWAV, err := EncodeWAV(sineBuffer(440, 44100, 2, 0.5))
	if err != nil {
		t.Fatalf("EncodeWAV() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Render(ctx, srcWAV, Params{Reverb: 0.5}); err == nil {
		t.Error("Render() with cancelled context did not fail")
	}
}

func TestPreviewMatchesRender(t *testing.T) {
	srcWAV, err := EncodeWAV(sineBuffer(440, 22050, 1, 0.2))
	if err != nil {
		t.Fatalf("EncodeWAV() error: %v", err)
	}

	p := Params{Lowpass: 3000, Highpass: 400, Gain: 0.75}
	preview, err := Preview(context.Background(), srcWAV, p)
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	final, err := Render(context.Background(), srcWAV, p)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !bytes.Equal(preview.Data, final.Data) {
		t.Error("preview and save-path render diverge for identical parameters")
	}
}
