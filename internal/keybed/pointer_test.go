package keybed

import (
	"fmt"
	"testing"

	"fyne.io/fyne/v2"
)

// eventLog records tracker transitions in order so tests can assert on the
// exact sequence.
type eventLog struct {
	entries []string
}

func (l *eventLog) hooks() trackerEvents {
	return trackerEvents{
		repaint: func(note int) { l.entries = append(l.entries, fmt.Sprintf("repaint %d", note)) },
		noteOn:  func(note int, v float32) { l.entries = append(l.entries, fmt.Sprintf("on %d", note)) },
		noteOff: func(note int, v float32) { l.entries = append(l.entries, fmt.Sprintf("off %d", note)) },
	}
}

func (l *eventLog) reset() { l.entries = nil }

func (l *eventLog) expect(t *testing.T, want ...string) {
	t.Helper()
	if len(l.entries) != len(want) {
		t.Fatalf("events = %v, want %v", l.entries, want)
	}
	for i := range want {
		if l.entries[i] != want[i] {
			t.Fatalf("events = %v, want %v", l.entries, want)
		}
	}
}

var (
	mouseA = PointerID{Kind: PointerMouse}
	touch0 = PointerID{Kind: PointerTouch}
	touch1 = PointerID{Kind: PointerTouch, Index: 1}
)

func TestTrackerPressAndRelease(t *testing.T) {
	tr := newTracker()
	log := &eventLog{}

	tr.update(mouseA, 60, 1, true, log.hooks())
	log.expect(t, "repaint -1", "repaint 60", "on 60")
	if !tr.isDown(60) || !tr.isOver(60) {
		t.Fatal("note 60 should be down and hovered")
	}

	log.reset()
	tr.update(mouseA, 60, 1, false, log.hooks())
	log.expect(t, "off 60")
	if tr.isDown(60) {
		t.Fatal("note 60 still down after release")
	}
	if !tr.isOver(60) {
		t.Fatal("hover should survive a release in place")
	}
}

func TestTrackerDragMovesNote(t *testing.T) {
	tr := newTracker()
	log := &eventLog{}

	tr.update(mouseA, 60, 1, true, log.hooks())
	log.reset()

	tr.update(mouseA, 62, 1, true, log.hooks())
	log.expect(t, "repaint 60", "repaint 62", "off 60", "on 62")
}

func TestTrackerDragOffTheEdge(t *testing.T) {
	tr := newTracker()
	log := &eventLog{}

	tr.update(mouseA, 60, 1, true, log.hooks())
	log.reset()

	tr.update(mouseA, -1, 0, true, log.hooks())
	log.expect(t, "repaint 60", "repaint -1", "off 60")
	if tr.isOver(60) || tr.isDown(60) {
		t.Fatal("note 60 should be fully released after leaving the keys")
	}
}

func TestTrackerSharedNoteLastSourceWins(t *testing.T) {
	tr := newTracker()
	log := &eventLog{}

	tr.update(mouseA, 60, 1, true, log.hooks())
	tr.update(touch0, 62, 1, true, log.hooks())
	log.reset()

	// Dragging the touch onto an already-sounding note must not retrigger it.
	tr.update(touch0, 60, 1, true, log.hooks())
	log.expect(t, "repaint 62", "repaint 60", "off 62")

	log.reset()
	tr.update(mouseA, 60, 1, false, log.hooks())
	log.expect(t, "off 60")
}

func TestTrackerIndependentTouches(t *testing.T) {
	tr := newTracker()
	log := &eventLog{}

	tr.update(touch0, 60, 1, true, log.hooks())
	tr.update(touch1, 64, 1, true, log.hooks())
	if !tr.isDown(60) || !tr.isDown(64) {
		t.Fatal("both touches should hold their notes")
	}

	log.reset()
	tr.update(touch0, 60, 1, false, log.hooks())
	log.expect(t, "off 60")
	if !tr.isDown(64) {
		t.Fatal("releasing one touch must not release the other")
	}
}

func TestTrackerReleaseAll(t *testing.T) {
	tr := newTracker()
	log := &eventLog{}

	tr.update(mouseA, 60, 1, true, log.hooks())
	tr.update(touch0, 64, 1, true, log.hooks())
	log.reset()

	tr.releaseAll(log.hooks())
	log.expect(t, "off 60", "off 64", "repaint 60", "repaint 64")
	if tr.isDown(60) || tr.isDown(64) || tr.isOver(60) || tr.isOver(64) {
		t.Fatal("releaseAll must clear all press and hover state")
	}
}

func TestTrackerRemembersLastPosition(t *testing.T) {
	tr := newTracker()

	tr.remember(mouseA, fyne.NewPos(3, 4), true)
	if ps, ok := tr.last[mouseA]; !ok || !ps.down || ps.pos != fyne.NewPos(3, 4) {
		t.Fatal("remember should store the source state")
	}

	tr.forget(mouseA)
	if _, ok := tr.last[mouseA]; ok {
		t.Fatal("forget should drop the source")
	}
}
