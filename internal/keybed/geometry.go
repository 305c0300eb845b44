package keybed

import "fyne.io/fyne/v2"

// Orientation controls which way the keyboard strip runs.
type Orientation int

const (
	// Horizontal lays the keys out left-to-right with the strike edge at the bottom.
	Horizontal Orientation = iota
	// VerticalFacingLeft runs top-to-bottom with the strike edge on the left.
	VerticalFacingLeft
	// VerticalFacingRight runs bottom-to-top with the strike edge on the right.
	VerticalFacingRight
)

func (o Orientation) String() string {
	switch o {
	case VerticalFacingLeft:
		return "vertical-left"
	case VerticalFacingRight:
		return "vertical-right"
	default:
		return "horizontal"
	}
}

var (
	whiteNotes = [7]int{0, 2, 4, 5, 7, 9, 11}
	blackNotes = [5]int{1, 3, 6, 8, 10}
)

func isBlackNote(note int) bool {
	switch note % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

// span is a half-open [start, end) pixel interval along the keyboard axis.
type span struct {
	start, end float32
}

func (s span) length() float32 { return s.end - s.start }

func (s span) contains(x float32) bool { return x >= s.start && x < s.end }

// geometry maps note numbers to pixel spans and back. All coordinates are in
// the keyboard's own space; noteAt normalizes for orientation before testing.
type geometry struct {
	orientation      Orientation
	keyWidth         float32
	blackWidthRatio  float32
	blackLengthRatio float32
	low, high        int

	// offset is the scroll pixel offset, width/height the widget size.
	// Both are owned by the viewport relayout pass.
	offset        float32
	width, height float32
}

// keyPosition returns the absolute pixel span of a note for a given unit key
// width, ignoring scroll offset and range start. White notes sit at integer
// multiples of the unit width; black notes are pulled back by a per-position
// fraction of the black-note width.
func (g *geometry) keyPosition(note int, target float32) span {
	notePos := [12]float32{
		0, 1 - g.blackWidthRatio*0.6,
		1, 2 - g.blackWidthRatio*0.4,
		2,
		3, 4 - g.blackWidthRatio*0.7,
		4, 5 - g.blackWidthRatio*0.5,
		5, 6 - g.blackWidthRatio*0.3,
		6,
	}

	octave := note / 12
	idx := note % 12

	start := float32(octave)*7*target + notePos[idx]*target
	width := target
	if isBlackNote(note) {
		width = g.blackWidthRatio * target
	}
	return span{start, start + width}
}

// keyPos returns the on-screen pixel span of a note, relative to the range
// start and shifted by the current scroll offset.
func (g *geometry) keyPos(note int) span {
	p := g.keyPosition(note, g.keyWidth)
	shift := g.offset + g.keyPosition(g.low, g.keyWidth).start
	return span{p.start - shift, p.end - shift}
}

// totalWidth is the pixel position of the far end of the last key.
func (g *geometry) totalWidth() float32 { return g.keyPos(g.high).end }

// whiteNoteLength is the perpendicular extent of a white key.
func (g *geometry) whiteNoteLength() float32 {
	if g.orientation == Horizontal {
		return g.height
	}
	return g.width
}

func (g *geometry) blackNoteLength() float32 {
	return g.whiteNoteLength() * g.blackLengthRatio
}

// rectForKey returns the key's rectangle in widget coordinates. Recomputed on
// every layout pass; never cached across resizes.
func (g *geometry) rectForKey(note int) (fyne.Position, fyne.Size) {
	pos := g.keyPos(note)
	x := pos.start
	w := pos.length()

	if isBlackNote(note) {
		bl := g.blackNoteLength()
		switch g.orientation {
		case VerticalFacingLeft:
			return fyne.NewPos(g.width-bl, x), fyne.NewSize(bl, w)
		case VerticalFacingRight:
			return fyne.NewPos(0, g.height-x-w), fyne.NewSize(bl, w)
		default:
			return fyne.NewPos(x, 0), fyne.NewSize(w, bl)
		}
	}

	switch g.orientation {
	case VerticalFacingLeft:
		return fyne.NewPos(0, x), fyne.NewSize(g.width, w)
	case VerticalFacingRight:
		return fyne.NewPos(0, g.height-x-w), fyne.NewSize(g.width, w)
	default:
		return fyne.NewPos(x, 0), fyne.NewSize(w, g.height)
	}
}

// noteAt hit-tests a point in widget coordinates. It returns the note under
// the point and the velocity fraction along the key's strike axis, or (-1, 0)
// when the point misses every key.
func (g *geometry) noteAt(p fyne.Position) (int, float32) {
	if p.X < 0 || p.Y < 0 || p.X >= g.width || p.Y >= g.height {
		return -1, 0
	}

	x, y := p.X, p.Y
	switch g.orientation {
	case VerticalFacingLeft:
		x, y = p.Y, g.width-p.X
	case VerticalFacingRight:
		x, y = g.height-p.Y, p.X
	}
	return g.remappedNoteAt(x, y)
}

// remappedNoteAt works in orientation-normalized coordinates. Black keys are
// tested first since they render on top, in ascending octave order.
func (g *geometry) remappedNoteAt(x, y float32) (int, float32) {
	if blackLen := g.blackNoteLength(); y < blackLen && blackLen > 0 {
		for octaveStart := 12 * (g.low / 12); octaveStart <= g.high; octaveStart += 12 {
			for _, bn := range blackNotes {
				note := octaveStart + bn
				if note >= g.low && note <= g.high && g.keyPos(note).contains(x) {
					return note, y / blackLen
				}
			}
		}
	}

	for octaveStart := 12 * (g.low / 12); octaveStart <= g.high; octaveStart += 12 {
		for _, wn := range whiteNotes {
			note := octaveStart + wn
			if note >= g.low && note <= g.high && g.keyPos(note).contains(x) {
				return note, y / g.whiteNoteLength()
			}
		}
	}
	return -1, 0
}

func clampInt(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(lo, hi, v float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
