package keybed

import "fyne.io/fyne/v2"

// PointerKind distinguishes the independent input streams a pointer event can
// come from.
type PointerKind int

const (
	PointerMouse PointerKind = iota
	PointerTouch
)

// PointerID identifies one pointer source. Identity matching is exact
// (kind and index both compare), so two abstractions of the same physical
// pointer never double-press or half-release a note.
type PointerID struct {
	Kind  PointerKind
	Index int
}

type pointerBinding struct {
	src  PointerID
	note int
}

// pointerState is the last observed position of an active source, kept so
// hover and press can be re-derived after a scroll without a fresh event.
type pointerState struct {
	pos  fyne.Position
	down bool
}

// trackerEvents receives the transitions a tracker update produces.
type trackerEvents struct {
	repaint func(note int)
	noteOn  func(note int, velocity float32)
	noteOff func(note int, velocity float32)
}

// tracker keeps, per pointer source, which note is hovered and which note is
// pressed. A note sounds until its last pressing source releases it.
type tracker struct {
	over []pointerBinding
	down []pointerBinding
	last map[PointerID]pointerState
}

func newTracker() tracker {
	return tracker{last: make(map[PointerID]pointerState)}
}

func bindingIndex(list []pointerBinding, src PointerID) int {
	for i, b := range list {
		if b.src == src {
			return i
		}
	}
	return -1
}

func containsNote(list []pointerBinding, note int) bool {
	for _, b := range list {
		if b.note == note {
			return true
		}
	}
	return false
}

func removeBinding(list []pointerBinding, i int) []pointerBinding {
	return append(list[:i], list[i+1:]...)
}

// isOver reports whether any source is hovering the note.
func (t *tracker) isOver(note int) bool { return containsNote(t.over, note) }

// isDown reports whether any source is pressing the note.
func (t *tracker) isDown(note int) bool { return containsNote(t.down, note) }

func (t *tracker) remember(src PointerID, pos fyne.Position, down bool) {
	t.last[src] = pointerState{pos: pos, down: down}
}

func (t *tracker) forget(src PointerID) {
	delete(t.last, src)
}

// update applies one pointer event for a source: newNote is the note under
// the pointer (-1 for none), pressed whether the event holds a button/touch.
func (t *tracker) update(src PointerID, newNote int, velocity float32, pressed bool, ev trackerEvents) {
	overIdx := bindingIndex(t.over, src)
	downIdx := bindingIndex(t.down, src)

	oldNote := -1
	if overIdx >= 0 {
		oldNote = t.over[overIdx].note
	}
	oldDown := -1
	if downIdx >= 0 {
		oldDown = t.down[downIdx].note
	}

	if oldNote != newNote {
		ev.repaint(oldNote)
		ev.repaint(newNote)

		switch {
		case newNote == -1:
			t.over = removeBinding(t.over, overIdx)
		case oldNote == -1:
			t.over = append(t.over, pointerBinding{src, newNote})
		default:
			t.over[overIdx].note = newNote
		}
	}

	if pressed {
		if newNote == oldDown {
			return
		}

		if oldDown >= 0 {
			t.down = removeBinding(t.down, downIdx)
			if !containsNote(t.down, oldDown) {
				ev.noteOff(oldDown, velocity)
			}
		}

		if newNote >= 0 && !containsNote(t.down, newNote) {
			ev.noteOn(newNote, velocity)
			t.down = append(t.down, pointerBinding{src, newNote})
		}
		return
	}

	if oldDown < 0 {
		return
	}

	t.down = removeBinding(t.down, downIdx)
	if !containsNote(t.down, oldDown) {
		ev.noteOff(oldDown, velocity)
	}
}

// releaseAll force-releases every pressed note and clears all hover state.
func (t *tracker) releaseAll(ev trackerEvents) {
	for _, b := range t.down {
		ev.noteOff(b.note, 0)
	}
	t.down = nil

	for _, b := range t.over {
		ev.repaint(b.note)
	}
	t.over = nil
}
