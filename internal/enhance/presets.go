package enhance

import "github.com/echocapsule/mediakit/internal/audiofx"

// FilterID names one of the fixed emotional photo/video filters.
type FilterID string

const (
	FilterNone      FilterID = "none"
	FilterYesterday FilterID = "yesterday"
	FilterEcho      FilterID = "echo"
	FilterDream     FilterID = "dream"
)

// FilterChain is the fixed, composable color treatment a named filter maps
// to. Multipliers default to 1 (no-op) and mix amounts to 0. The compositor
// applies the populated fields in struct order.
type FilterChain struct {
	// Sepia and Grayscale are mix amounts in [0,1].
	Sepia     float64
	Grayscale float64

	// Brightness, Contrast and Saturate are multipliers; 1 is neutral.
	Brightness float64
	Contrast   float64
	Saturate   float64

	// Blur is a gaussian sigma in source pixels; 0 disables.
	Blur float64
}

// PhotoFilters maps each filter id to its fixed chain. The values are the
// identity of each look; they are never user-adjustable.
var PhotoFilters = map[FilterID]FilterChain{
	FilterNone: {Brightness: 1, Contrast: 1, Saturate: 1},
	// A warm, slightly faded print from an old shoebox.
	FilterYesterday: {Sepia: 0.45, Brightness: 1.08, Contrast: 1.05, Saturate: 0.85},
	// Washed-out and distant, most of the color drained away.
	FilterEcho: {Grayscale: 0.65, Brightness: 0.96, Contrast: 1.12, Saturate: 0.55},
	// Soft focus and overdriven color, halfway to a memory.
	FilterDream: {Brightness: 1.1, Contrast: 0.95, Saturate: 1.35, Blur: 1.6},
}

// EffectID names an independently toggleable procedural visual effect. Each
// effect runs at a fixed intensity; only on/off is user-controlled.
type EffectID string

const (
	EffectVignette  EffectID = "vignette"
	EffectGrain     EffectID = "grain"
	EffectLightLeak EffectID = "light-leak"
	EffectBokeh     EffectID = "bokeh"
	EffectConfetti  EffectID = "confetti"
	EffectPolaroid  EffectID = "polaroid"
)

// EffectOrder is the fixed order enabled effects are applied in.
var EffectOrder = []EffectID{
	EffectVignette,
	EffectGrain,
	EffectLightLeak,
	EffectBokeh,
	EffectConfetti,
	EffectPolaroid,
}

// AudioFilterID names one of the fixed audio presets.
type AudioFilterID string

const (
	AudioFilterNone         AudioFilterID = "none"
	AudioFilterTelephone    AudioFilterID = "telephone"
	AudioFilterTapeEcho     AudioFilterID = "tape-echo"
	AudioFilterCathedral    AudioFilterID = "cathedral"
	AudioFilterCrystalClear AudioFilterID = "crystal-clear"
	AudioFilterVinylWarmth  AudioFilterID = "vinyl-warmth"
)

// AudioFilters maps each audio preset to its DSP parameters. Presets are
// data; the audiofx interpreter decides which stages run from which fields
// are set.
var AudioFilters = map[AudioFilterID]audiofx.Params{
	AudioFilterNone: {},
	// Narrow band, a little crunch, quieter: the other end of a phone line.
	AudioFilterTelephone: {Lowpass: 3000, Highpass: 400, Gain: 0.75, Distortion: 0.15},
	// Repeating slapback that darkens with every pass.
	AudioFilterTapeEcho: {Delay: 0.25, Feedback: 0.45, Lowpass: 6500, Gain: 0.9},
	// Long stone-room decay.
	AudioFilterCathedral: {Reverb: 0.85, Highpass: 80, Gain: 0.8},
	// Cleaned up and evened out for spoken messages.
	AudioFilterCrystalClear: {Highpass: 60, Bright: true, Normalize: true, Gain: 1.0},
	// Rolled-off top with gentle saturation.
	AudioFilterVinylWarmth: {Lowpass: 9000, Highpass: 45, Distortion: 0.08, Gain: 0.95},
}

// ValidFilter reports whether id names a known photo filter.
func ValidFilter(id FilterID) bool {
	_, ok := PhotoFilters[id]
	return ok
}

// ValidAudioFilter reports whether id names a known audio preset.
func ValidAudioFilter(id AudioFilterID) bool {
	_, ok := AudioFilters[id]
	return ok
}

// ValidEffect reports whether id names a known visual effect.
func ValidEffect(id EffectID) bool {
	for _, e := range EffectOrder {
		if e == id {
			return true
		}
	}
	return false
}
