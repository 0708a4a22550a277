package audiofx

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/effects"
	"github.com/cwbudde/algo-dsp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
	"github.com/rs/zerolog/log"
)

// Result is the outcome of one offline render.
//
// Degraded reports the disclosed-fallback path: the source could not be
// decoded or the processing chain could not be built, so Data is the original
// payload untouched and Applied is empty. Callers must never attach
// "filter applied" metadata to a degraded result.
type Result struct {
	Data     []byte
	Degraded bool
	Applied  Params
}

// Render decodes the WAV payload, runs the preset chain offline and encodes
// the result as 16-bit PCM WAV with the source's channel count and sample
// rate preserved.
//
// Fast path: zero params return the source unchanged. Decode or chain
// construction failure returns the original payload with Degraded set; it is
// never reported as an error because the editing session can continue with
// the unfiltered source.
func Render(ctx context.Context, data []byte, p Params) (Result, error) {
	if p.IsZero() {
		return Result{Data: data}, nil
	}

	buf, err := DecodeWAV(data)
	if err != nil {
		log.Warn().Err(err).Msg("Audio decode failed, returning source unprocessed")
		return Result{Data: data, Degraded: true}, nil
	}

	if err := processBuffer(ctx, buf, p); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		log.Warn().Err(err).Msg("Audio chain construction failed, returning source unprocessed")
		return Result{Data: data, Degraded: true}, nil
	}

	out, err := EncodeWAV(buf)
	if err != nil {
		return Result{}, fmt.Errorf("encode processed audio: %w", err)
	}

	log.Debug().
		Int("channels", buf.Channels()).
		Int("sample_rate", buf.SampleRate).
		Float64("duration_s", buf.Duration()).
		Msg("Audio render complete")

	return Result{Data: out, Applied: p}, nil
}

// Preview runs the identical computation as Render for an audible preview.
// The save path always calls Render again; a preview result is never cached
// as the final artifact.
func Preview(ctx context.Context, data []byte, p Params) (Result, error) {
	return Render(ctx, data, p)
}

// tailSamples returns how many silent samples to append before processing so
// reverb and echo decay rings out past the source's natural end.
func tailSamples(sampleRate int, p Params) int {
	var tail float64
	if p.Reverb > 0 {
		tail = reverbTail * p.Reverb
	}
	if p.Delay > 0 {
		echoTail := p.Delay * float64(echoTaps+1)
		if echoTail > tail {
			tail = echoTail
		}
	}
	return int(tail * float64(sampleRate))
}

// processBuffer mutates buf in place, extending it for the decay tail first.
// Stages run in fixed order regardless of which preset defined them.
func processBuffer(ctx context.Context, buf *Buffer, p Params) error {
	sr := float64(buf.SampleRate)

	if tail := tailSamples(buf.SampleRate, p); tail > 0 {
		for ch := range buf.Samples {
			buf.Samples[ch] = append(buf.Samples[ch], make([]float64, tail)...)
		}
	}

	// Each channel gets its own filter state; sections and effect instances
	// are stateful and must not be shared across channels.
	for ch := range buf.Samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := processChannel(buf.Samples[ch], sr, p); err != nil {
			return err
		}
	}

	return nil
}

func processChannel(samples []float64, sampleRate float64, p Params) error {
	if p.Highpass > 0 {
		sec := biquad.NewSection(design.Highpass(p.Highpass, 0.707, sampleRate))
		sec.ProcessBlock(samples)
	}

	if p.Lowpass > 0 {
		sec := biquad.NewSection(design.Lowpass(p.Lowpass, 0.707, sampleRate))
		sec.ProcessBlock(samples)
	}

	if p.Bright {
		// Clarity voicing: thin the low mids, open the top, push presence.
		chain := biquad.NewChain([]biquad.Coefficients{
			design.LowShelf(250, -2, 0.707, sampleRate),
			design.HighShelf(7500, 4.5, 0.707, sampleRate),
			design.Peak(3200, 3, 1.0, sampleRate),
		})
		chain.ProcessBlock(samples)
	}

	if p.Distortion > 0 {
		dist, err := effects.NewDistortion(sampleRate,
			effects.WithDistortionMode(effects.DistortionModeSaturate),
			effects.WithDistortionDrive(1+p.Distortion*9),
		)
		if err != nil {
			return fmt.Errorf("build distortion: %w", err)
		}
		dist.ProcessInPlace(samples)
	}

	if p.Reverb > 0 {
		bank, err := newTapBank(int(sampleRate), p.Reverb)
		if err != nil {
			return fmt.Errorf("build reverb bank: %w", err)
		}
		bank.process(samples)
	}

	if p.Delay > 0 && p.Feedback > 0 {
		ec, err := newEcho(int(sampleRate), p.Delay, p.Feedback)
		if err != nil {
			return fmt.Errorf("build echo: %w", err)
		}
		ec.process(samples)
	}

	if p.Normalize {
		comp, err := dynamics.NewCompressor(sampleRate)
		if err != nil {
			return fmt.Errorf("build compressor: %w", err)
		}
		if err := comp.SetThreshold(-18); err != nil {
			return err
		}
		if err := comp.SetRatio(3); err != nil {
			return err
		}
		if err := comp.SetAttack(5); err != nil {
			return err
		}
		if err := comp.SetRelease(120); err != nil {
			return err
		}
		comp.ProcessInPlace(samples)
	}

	if g := p.effectiveGain(); g != 1 {
		for i := range samples {
			samples[i] *= g
		}
	}

	return nil
}
