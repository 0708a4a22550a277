package enhance

import (
	"fmt"

	"github.com/google/uuid"
)

// Editor owns the live State for one media item and records a history
// snapshot before every mutating action. Mutations validate their arguments
// first, so a rejected action leaves both the state and the history stacks
// untouched.
type Editor struct {
	state   *State
	history History
}

// NewEditor wraps an existing state, or the baseline when st is nil.
func NewEditor(st *State) *Editor {
	if st == nil {
		st = NewState()
	}
	return &Editor{state: st}
}

// State returns the live state. Callers treat it as read-only; all mutation
// goes through the editor so history stays consistent.
func (e *Editor) State() *State {
	return e.state
}

// History exposes the undo/redo stacks, mainly for depth queries.
func (e *Editor) History() *History {
	return &e.history
}

// Undo restores the most recent snapshot wholesale. Empty history returns
// ErrNothingToUndo with the state unchanged.
func (e *Editor) Undo() error {
	st, err := e.history.Undo(e.state)
	if err != nil {
		return err
	}
	e.state = st
	return nil
}

// Redo reverses the most recent Undo.
func (e *Editor) Redo() error {
	st, err := e.history.Redo(e.state)
	if err != nil {
		return err
	}
	e.state = st
	return nil
}

func (e *Editor) snapshot() {
	e.history.Push(e.state)
}

// SetFilter selects a photo/video filter.
func (e *Editor) SetFilter(id FilterID) error {
	if !ValidFilter(id) {
		return fmt.Errorf("unknown filter %q", id)
	}
	e.snapshot()
	e.state.FilterID = id
	return nil
}

// SetAudioFilter selects an audio preset.
func (e *Editor) SetAudioFilter(id AudioFilterID) error {
	if !ValidAudioFilter(id) {
		return fmt.Errorf("unknown audio filter %q", id)
	}
	e.snapshot()
	e.state.AudioFilterID = id
	return nil
}

// ToggleEffect flips one visual effect on or off.
func (e *Editor) ToggleEffect(id EffectID) error {
	if !ValidEffect(id) {
		return fmt.Errorf("unknown visual effect %q", id)
	}
	e.snapshot()
	e.state.VisualEffects[id] = !e.state.VisualEffects[id]
	return nil
}

// SetBrightness sets the brightness percentage, clamped to [0,200].
func (e *Editor) SetBrightness(v int) {
	e.snapshot()
	e.state.Brightness = clampAdjust(v)
}

// SetContrast sets the contrast percentage, clamped to [0,200].
func (e *Editor) SetContrast(v int) {
	e.snapshot()
	e.state.Contrast = clampAdjust(v)
}

// SetSaturation sets the saturation percentage, clamped to [0,200].
func (e *Editor) SetSaturation(v int) {
	e.snapshot()
	e.state.Saturation = clampAdjust(v)
}

func clampAdjust(v int) int {
	if v < 0 {
		return 0
	}
	if v > 200 {
		return 200
	}
	return v
}

// Rotate90 advances rotation by a quarter turn clockwise.
func (e *Editor) Rotate90() {
	e.snapshot()
	e.state.Rotation += 90
	for e.state.Rotation >= 360 {
		e.state.Rotation -= 360
	}
}

// SetRotation sets an arbitrary rotation, as produced by a crop-mode drag.
func (e *Editor) SetRotation(deg float64) {
	e.snapshot()
	e.state.Rotation = deg
}

// FlipHorizontal toggles the horizontal mirror.
func (e *Editor) FlipHorizontal() {
	e.snapshot()
	e.state.FlipHorizontal = !e.state.FlipHorizontal
}

// FlipVertical toggles the vertical mirror.
func (e *Editor) FlipVertical() {
	e.snapshot()
	e.state.FlipVertical = !e.state.FlipVertical
}

// SetCrop installs a crop region, clamped to the percentage bounds.
func (e *Editor) SetCrop(region CropRegion) {
	e.snapshot()
	region.Clamp()
	e.state.Crop = &region
}

// ClearCrop removes the crop region.
func (e *Editor) ClearCrop() {
	e.snapshot()
	e.state.Crop = nil
}

// AddSticker appends a sticker instance and returns its generated id.
func (e *Editor) AddSticker(stickerType string, x, y, size float64) Sticker {
	e.snapshot()
	s := Sticker{
		ID:   uuid.NewString(),
		Type: stickerType,
		X:    clampPct(x),
		Y:    clampPct(y),
		Size: size,
	}
	e.state.Stickers = append(e.state.Stickers, s)
	return s
}

// AddTextLayer appends a free text overlay and returns it with a generated id.
func (e *Editor) AddTextLayer(layer TextLayer) TextLayer {
	e.snapshot()
	layer.ID = uuid.NewString()
	layer.X = clampPct(layer.X)
	layer.Y = clampPct(layer.Y)
	e.state.TextLayers = append(e.state.TextLayers, layer)
	return layer
}

// RemoveTextLayer deletes a text overlay by id. Unknown ids are a no-op and
// recorded in history like any other action the user explicitly took.
func (e *Editor) RemoveTextLayer(id string) {
	e.snapshot()
	layers := e.state.TextLayers[:0]
	for _, l := range e.state.TextLayers {
		if l.ID != id {
			layers = append(layers, l)
		}
	}
	e.state.TextLayers = layers
}

// SetCaption installs or replaces the legacy caption overlay.
func (e *Editor) SetCaption(t OverlayText) {
	e.snapshot()
	e.state.Caption = &t
}

// SetDateStamp installs or replaces the date stamp overlay.
func (e *Editor) SetDateStamp(t OverlayText) {
	e.snapshot()
	e.state.DateStamp = &t
}
