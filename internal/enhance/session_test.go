package enhance

import (
	"testing"

	"github.com/echocapsule/mediakit/internal/media"
)

func testHandles(ids ...string) []media.Handle {
	handles := make([]media.Handle, len(ids))
	for i, id := range ids {
		handles[i] = media.Handle{ID: id, Type: media.TypePhoto, Data: []byte{1}, Filename: id + ".jpg"}
	}
	return handles
}

func TestSessionRequiresItems(t *testing.T) {
	if _, err := NewSession(nil); err == nil {
		t.Error("NewSession(nil) did not fail")
	}
	if _, err := NewSession(testHandles("a", "a")); err == nil {
		t.Error("NewSession() accepted duplicate IDs")
	}
	if _, err := NewSession([]media.Handle{{Type: media.TypePhoto}}); err == nil {
		t.Error("NewSession() accepted a handle without an ID")
	}
}

func TestNavigationRoundTripRestoresState(t *testing.T) {
	s, err := NewSession(testHandles("a", "b"))
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}

	s.Editor().SetBrightness(150)
	saved := s.Editor().State().Clone()

	s.Next()
	if s.Current().ID != "b" {
		t.Fatalf("Current() = %q, want b", s.Current().ID)
	}
	if !s.Editor().State().IsDefault() {
		t.Error("fresh item did not start at the baseline")
	}

	s.Previous()
	if s.Current().ID != "a" {
		t.Fatalf("Current() = %q, want a", s.Current().ID)
	}
	if !s.Editor().State().Equal(saved) {
		t.Error("navigation round-trip lost item a's state")
	}
}

func TestNavigationBoundariesAreNoOps(t *testing.T) {
	s, err := NewSession(testHandles("a", "b"))
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}

	s.Previous()
	if s.Index() != 0 {
		t.Errorf("Previous() at start moved to %d", s.Index())
	}

	s.Next()
	s.Next()
	if s.Index() != 1 {
		t.Errorf("Next() at end moved to %d", s.Index())
	}
}

func TestNavigationClearsHistory(t *testing.T) {
	s, err := NewSession(testHandles("a", "b"))
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}

	s.Editor().SetBrightness(150)
	if s.Editor().History().Len() != 1 {
		t.Fatalf("history depth = %d, want 1", s.Editor().History().Len())
	}

	s.Next()
	s.Previous()

	// Undo must not cross items: the restored editor starts fresh.
	if s.Editor().History().Len() != 0 {
		t.Errorf("history depth after navigation = %d, want 0", s.Editor().History().Len())
	}
	if s.Editor().State().Brightness != 150 {
		t.Errorf("Brightness = %d, want 150", s.Editor().State().Brightness)
	}
}

func TestStateForReturnsLiveAndStored(t *testing.T) {
	s, err := NewSession(testHandles("a", "b", "c"))
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}

	s.Editor().SetSaturation(180)
	if got := s.StateFor("a").Saturation; got != 180 {
		t.Errorf("StateFor(focused) saturation = %d, want 180", got)
	}
	if !s.StateFor("b").IsDefault() {
		t.Error("StateFor(untouched) is not the baseline")
	}

	s.Next()
	if got := s.StateFor("a").Saturation; got != 180 {
		t.Errorf("StateFor(stored) saturation = %d, want 180", got)
	}
}

func TestRemoveKeepsStatesWithTheirItems(t *testing.T) {
	s, err := NewSession(testHandles("a", "b", "c"))
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}

	// Edit item c, then remove item b. The edit must stay with c.
	s.Next()
	s.Next()
	s.Editor().SetContrast(140)
	s.Previous()

	if err := s.Remove("b"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	if got := s.StateFor("c").Contrast; got != 140 {
		t.Errorf("item c contrast after removing b = %d, want 140", got)
	}
	if !s.StateFor("a").IsDefault() {
		t.Error("item a gained state it never had")
	}
}

func TestRemoveLastItemRejected(t *testing.T) {
	s, err := NewSession(testHandles("a"))
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	if err := s.Remove("a"); err == nil {
		t.Error("Remove() emptied the session")
	}
}
