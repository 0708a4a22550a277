// Package enhance holds the mutable enhancement parameters for an editing
// session: the per-item State, the preset tables, undo/redo history, and the
// carousel Session that keeps one State per media item.
package enhance

// CropRegion is a sub-rectangle of the source in percentage coordinates.
// All fields live in [0,100] and X+Width <= 100, Y+Height <= 100 after Clamp.
type CropRegion struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Clamp forces the region back inside the [0,100] bounds, shrinking the size
// rather than moving the origin when the rectangle overruns an edge.
func (c *CropRegion) Clamp() {
	c.X = clampPct(c.X)
	c.Y = clampPct(c.Y)
	c.Width = clampPct(c.Width)
	c.Height = clampPct(c.Height)

	if c.X+c.Width > 100 {
		c.Width = 100 - c.X
	}
	if c.Y+c.Height > 100 {
		c.Height = 100 - c.Y
	}
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Sticker is one sticker instance, positioned in percentage coordinates.
type Sticker struct {
	ID   string  `json:"id"`
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// TextLayer is a free-form text overlay with its own anchor and rotation.
type TextLayer struct {
	ID           string  `json:"id"`
	Text         string  `json:"text"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Font         string  `json:"font"`
	Size         float64 `json:"size"`
	Color        string  `json:"color"`
	Rotation     float64 `json:"rotation"`
	ShadowBlur   float64 `json:"shadowBlur"`
	OutlineWidth float64 `json:"outlineWidth"`
	OutlineColor string  `json:"outlineColor"`
}

// OverlayText is the legacy single-instance caption / date stamp overlay.
type OverlayText struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

// State is the full parameter set for one media item in the current editing
// session. Exactly one State is live per displayed item; the Session keeps
// the rest.
type State struct {
	FilterID      FilterID      `json:"filterId"`
	AudioFilterID AudioFilterID `json:"audioFilterId"`

	VisualEffects map[EffectID]bool `json:"visualEffects"`

	// Brightness, Contrast and Saturation are percentages in [0,200] with a
	// neutral default of 100.
	Brightness int `json:"brightness"`
	Contrast   int `json:"contrast"`
	Saturation int `json:"saturation"`

	// Rotation is in degrees. Explicit rotate actions step by 90; crop-mode
	// drags may set any value.
	Rotation       float64 `json:"rotation"`
	FlipHorizontal bool    `json:"flipHorizontal"`
	FlipVertical   bool    `json:"flipVertical"`

	Crop *CropRegion `json:"cropRegion,omitempty"`

	Stickers   []Sticker   `json:"stickers"`
	TextLayers []TextLayer `json:"textLayers"`

	Caption   *OverlayText `json:"caption,omitempty"`
	DateStamp *OverlayText `json:"dateStamp,omitempty"`
}

// NewState returns the all-none baseline.
func NewState() *State {
	return &State{
		FilterID:      FilterNone,
		AudioFilterID: AudioFilterNone,
		VisualEffects: make(map[EffectID]bool),
		Brightness:    100,
		Contrast:      100,
		Saturation:    100,
	}
}

// Clone produces a deep copy, used for history snapshots and session storage.
func (s *State) Clone() *State {
	out := *s

	out.VisualEffects = make(map[EffectID]bool, len(s.VisualEffects))
	for k, v := range s.VisualEffects {
		out.VisualEffects[k] = v
	}

	if s.Crop != nil {
		crop := *s.Crop
		out.Crop = &crop
	}

	out.Stickers = append([]Sticker(nil), s.Stickers...)
	out.TextLayers = append([]TextLayer(nil), s.TextLayers...)

	if s.Caption != nil {
		caption := *s.Caption
		out.Caption = &caption
	}
	if s.DateStamp != nil {
		stamp := *s.DateStamp
		out.DateStamp = &stamp
	}

	return &out
}

// IsDefault reports whether every field is at the baseline. Items left at the
// default are passed through untouched on bulk actions, never re-encoded.
func (s *State) IsDefault() bool {
	if s.FilterID != FilterNone || s.AudioFilterID != AudioFilterNone {
		return false
	}
	for _, on := range s.VisualEffects {
		if on {
			return false
		}
	}
	if s.Brightness != 100 || s.Contrast != 100 || s.Saturation != 100 {
		return false
	}
	if s.Rotation != 0 || s.FlipHorizontal || s.FlipVertical {
		return false
	}
	if s.Crop != nil {
		return false
	}
	if len(s.Stickers) > 0 || len(s.TextLayers) > 0 {
		return false
	}
	return s.Caption == nil && s.DateStamp == nil
}

// Equal reports deep equality between two states.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.FilterID != other.FilterID ||
		s.AudioFilterID != other.AudioFilterID ||
		s.Brightness != other.Brightness ||
		s.Contrast != other.Contrast ||
		s.Saturation != other.Saturation ||
		s.Rotation != other.Rotation ||
		s.FlipHorizontal != other.FlipHorizontal ||
		s.FlipVertical != other.FlipVertical {
		return false
	}

	if len(s.effectsOn()) != len(other.effectsOn()) {
		return false
	}
	for _, id := range s.effectsOn() {
		if !other.VisualEffects[id] {
			return false
		}
	}

	if (s.Crop == nil) != (other.Crop == nil) {
		return false
	}
	if s.Crop != nil && *s.Crop != *other.Crop {
		return false
	}

	if len(s.Stickers) != len(other.Stickers) || len(s.TextLayers) != len(other.TextLayers) {
		return false
	}
	for i := range s.Stickers {
		if s.Stickers[i] != other.Stickers[i] {
			return false
		}
	}
	for i := range s.TextLayers {
		if s.TextLayers[i] != other.TextLayers[i] {
			return false
		}
	}

	if (s.Caption == nil) != (other.Caption == nil) {
		return false
	}
	if s.Caption != nil && *s.Caption != *other.Caption {
		return false
	}
	if (s.DateStamp == nil) != (other.DateStamp == nil) {
		return false
	}
	if s.DateStamp != nil && *s.DateStamp != *other.DateStamp {
		return false
	}

	return true
}

func (s *State) effectsOn() []EffectID {
	var on []EffectID
	for id, enabled := range s.VisualEffects {
		if enabled {
			on = append(on, id)
		}
	}
	return on
}
