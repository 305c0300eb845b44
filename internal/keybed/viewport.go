package keybed

import "fyne.io/fyne/v2"

// viewport owns the fractional lowest-visible note and the scroll-button
// policy. Its relayout pass writes the resulting pixel offset back into the
// geometry it is given.
type viewport struct {
	// firstKey is fractional so the wheel can scroll smoothly; its floor is
	// the leftmost (or bottommost) fully tracked key.
	firstKey  float32
	canScroll bool
}

// viewportLayout is the outcome of a relayout pass.
type viewportLayout struct {
	downVisible bool
	upVisible   bool
	buttonBand  float32

	// moved reports that firstKey was snapped or clamped, which observers
	// treat as a viewport change.
	moved bool
}

// relayout recomputes the scroll state for a widget size. Width and height
// are conceptually swapped for vertical orientations so the rest of the logic
// is orientation-agnostic.
func (v *viewport) relayout(g *geometry, size fyne.Size) viewportLayout {
	var out viewportLayout
	if size.Width <= 0 || size.Height <= 0 {
		return out
	}

	g.width, g.height = size.Width, size.Height

	avail := size.Width
	if g.orientation != Horizontal {
		avail = size.Height
	}

	// If we are scrolled away from the range start but the whole remaining
	// span now fits, snap back so no scroll position is stranded.
	if int(v.firstKey) != g.low {
		kx1 := g.keyPos(g.low).start
		kx2 := g.keyPos(g.high).end
		if kx2-kx1 <= avail {
			v.firstKey = float32(g.low)
			out.moved = true
		}
	}

	out.downVisible = v.canScroll && v.firstKey > float32(g.low)

	g.offset = 0

	if v.canScroll {
		out.buttonBand = avail / 2
		if out.buttonBand > 12 {
			out.buttonBand = 12
		}

		// Never reveal blank space past the last key: find the first key that
		// would align the end of the range with the far edge, and clamp the
		// scroll position back to it.
		endOfLastKey := g.keyPos(g.high).end
		lastStartKey, _ := g.remappedNoteAt(endOfLastKey-avail, 0)
		lastStartKey++

		if lastStartKey >= 0 && int(v.firstKey) > lastStartKey {
			v.firstKey = float32(clampInt(g.low, g.high, lastStartKey))
			out.moved = true
		}

		g.offset = g.keyPos(int(v.firstKey)).start
	} else {
		v.firstKey = float32(g.low)
	}

	out.upVisible = v.canScroll && g.keyPos(g.high).start > avail
	return out
}

// octaveStep returns the note the viewport should jump to when paging one
// octave in the given direction.
func (v *viewport) octaveStep(direction int) int {
	note := int(v.firstKey)
	if direction < 0 {
		note = (note - 1) / 12
	} else {
		note = note/12 + 1
	}
	return note * 12
}
