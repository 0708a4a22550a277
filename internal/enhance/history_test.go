package enhance

import (
	"errors"
	"testing"
)

func TestUndoRestoresPreMutationState(t *testing.T) {
	e := NewEditor(nil)
	before := e.State().Clone()

	if err := e.SetFilter(FilterYesterday); err != nil {
		t.Fatalf("SetFilter() error: %v", err)
	}
	if e.State().FilterID != FilterYesterday {
		t.Fatalf("FilterID = %q, want %q", e.State().FilterID, FilterYesterday)
	}

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo() error: %v", err)
	}
	if !e.State().Equal(before) {
		t.Errorf("Undo() did not restore the pre-mutation state")
	}
}

func TestUndoEmptyHistoryIsNoOp(t *testing.T) {
	e := NewEditor(nil)
	before := e.State().Clone()

	err := e.Undo()
	if !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() error = %v, want ErrNothingToUndo", err)
	}
	if !e.State().Equal(before) {
		t.Errorf("Undo() on empty history mutated the state")
	}
}

func TestUndoRestoresDeepCopies(t *testing.T) {
	e := NewEditor(nil)
	e.AddSticker("heart", 25, 25, 48)
	before := e.State().Clone()

	e.AddSticker("star", 75, 75, 32)
	if err := e.Undo(); err != nil {
		t.Fatalf("Undo() error: %v", err)
	}

	if len(e.State().Stickers) != 1 {
		t.Fatalf("Stickers after undo = %d, want 1", len(e.State().Stickers))
	}
	if !e.State().Equal(before) {
		t.Errorf("Undo() restored a state that differs from the snapshot")
	}
}

func TestRedoReversesUndo(t *testing.T) {
	e := NewEditor(nil)
	e.SetBrightness(150)
	after := e.State().Clone()

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo() error: %v", err)
	}
	if e.State().Brightness != 100 {
		t.Fatalf("Brightness after undo = %d, want 100", e.State().Brightness)
	}

	if err := e.Redo(); err != nil {
		t.Fatalf("Redo() error: %v", err)
	}
	if !e.State().Equal(after) {
		t.Errorf("Redo() did not restore the undone state")
	}
}

func TestFreshMutationClearsRedo(t *testing.T) {
	e := NewEditor(nil)
	e.SetBrightness(150)
	if err := e.Undo(); err != nil {
		t.Fatalf("Undo() error: %v", err)
	}

	// A divergent edit after undo invalidates the redo branch.
	e.SetContrast(120)

	err := e.Redo()
	if !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() after fresh mutation = %v, want ErrNothingToRedo", err)
	}
	if e.State().Contrast != 120 {
		t.Errorf("Contrast = %d, want 120", e.State().Contrast)
	}
}

func TestEveryMutatorPushesHistory(t *testing.T) {
	e := NewEditor(nil)

	mutations := []func(){
		func() { _ = e.SetFilter(FilterEcho) },
		func() { _ = e.SetAudioFilter(AudioFilterTelephone) },
		func() { _ = e.ToggleEffect(EffectGrain) },
		func() { e.SetBrightness(130) },
		func() { e.SetContrast(90) },
		func() { e.SetSaturation(110) },
		func() { e.Rotate90() },
		func() { e.SetRotation(13.5) },
		func() { e.FlipHorizontal() },
		func() { e.FlipVertical() },
		func() { e.SetCrop(CropRegion{X: 10, Y: 10, Width: 50, Height: 50}) },
		func() { e.ClearCrop() },
		func() { e.AddSticker("sun", 10, 10, 24) },
		func() { e.AddTextLayer(TextLayer{Text: "hello", X: 50, Y: 50}) },
		func() { e.SetCaption(OverlayText{Text: "cap", X: 50, Y: 85}) },
		func() { e.SetDateStamp(OverlayText{Text: "08/31/2026"}) },
	}

	for i, mutate := range mutations {
		depth := e.History().Len()
		mutate()
		if e.History().Len() != depth+1 {
			t.Errorf("mutation %d: history depth = %d, want %d", i, e.History().Len(), depth+1)
		}
	}
}

func TestRejectedMutationLeavesHistoryUntouched(t *testing.T) {
	e := NewEditor(nil)

	if err := e.SetFilter("sharpen"); err == nil {
		t.Fatal("SetFilter() accepted an unknown filter")
	}
	if e.History().Len() != 0 {
		t.Errorf("rejected mutation pushed a history snapshot")
	}
	if err := e.ToggleEffect("rain"); err == nil {
		t.Fatal("ToggleEffect() accepted an unknown effect")
	}
	if e.History().Len() != 0 {
		t.Errorf("rejected effect toggle pushed a history snapshot")
	}
}
