package keybed

import (
	"testing"

	"fyne.io/fyne/v2"
)

func testGeometry(low, high int, keyWidth, w, h float32) *geometry {
	return &geometry{
		orientation:      Horizontal,
		keyWidth:         keyWidth,
		blackWidthRatio:  0.7,
		blackLengthRatio: 0.7,
		low:              low,
		high:             high,
		width:            w,
		height:           h,
	}
}

func approx(a, b float32) bool {
	d := a - b
	return d < 0.001 && d > -0.001
}

func TestKeyPosOctaveLayout(t *testing.T) {
	g := testGeometry(60, 72, 20, 300, 100)

	// C at the range start sits at pixel zero, one unit wide.
	c := g.keyPos(60)
	if !approx(c.start, 0) || !approx(c.length(), 20) {
		t.Fatalf("keyPos(60) = [%v, %v), want [0, 20)", c.start, c.end)
	}

	// C# is pulled back from the white boundary by 0.6 of its width.
	cs := g.keyPos(61)
	if !approx(cs.start, 11.6) || !approx(cs.length(), 14) {
		t.Fatalf("keyPos(61) = [%v, %v), want start 11.6 width 14", cs.start, cs.length())
	}

	// The octave above starts exactly seven units along.
	c2 := g.keyPos(72)
	if !approx(c2.start, 140) {
		t.Fatalf("keyPos(72).start = %v, want 140", c2.start)
	}
}

func TestKeyPosAppliesScrollOffset(t *testing.T) {
	g := testGeometry(0, 127, 16, 320, 80)
	g.offset = g.keyPosition(12, 16).start // scrolled one octave in

	if p := g.keyPos(12); !approx(p.start, 0) {
		t.Fatalf("keyPos(12).start = %v, want 0", p.start)
	}
	if p := g.keyPos(0); !approx(p.start, -112) {
		t.Fatalf("keyPos(0).start = %v, want -112", p.start)
	}
}

func TestTotalWidth(t *testing.T) {
	g := testGeometry(0, 127, 16, 1200, 80)
	if got := g.totalWidth(); !approx(got, 1200) {
		t.Fatalf("totalWidth() = %v, want 1200", got)
	}
}

func TestNoteAtRoundTrip(t *testing.T) {
	g := testGeometry(0, 127, 20, 1500, 100)

	for note := g.low; note <= g.high; note++ {
		p := g.keyPos(note)
		x := (p.start + p.end) / 2
		y := g.height * 0.9
		if isBlackNote(note) {
			y = g.blackNoteLength() / 2
		}

		got, _ := g.noteAt(fyne.NewPos(x, y))
		if got != note {
			t.Fatalf("noteAt(center of %d) = %d", note, got)
		}
	}
}

func TestNoteAtBlackWinsOverWhite(t *testing.T) {
	g := testGeometry(60, 72, 20, 300, 100)

	// Inside C#'s span and above the black key length: C#.
	if got, _ := g.noteAt(fyne.NewPos(15, 10)); got != 61 {
		t.Fatalf("noteAt in black zone = %d, want 61", got)
	}
	// Same X below the black keys: the white C underneath.
	if got, _ := g.noteAt(fyne.NewPos(15, 90)); got != 60 {
		t.Fatalf("noteAt below black zone = %d, want 60", got)
	}
}

func TestNoteAtVelocityFraction(t *testing.T) {
	g := testGeometry(60, 72, 20, 300, 100)

	if _, v := g.noteAt(fyne.NewPos(5, 25)); !approx(v, 0.25) {
		t.Fatalf("white fraction = %v, want 0.25", v)
	}
	if _, v := g.noteAt(fyne.NewPos(15, 35)); !approx(v, 0.5) {
		t.Fatalf("black fraction = %v, want 0.5 (black length 70)", v)
	}
}

func TestNoteAtOutOfBounds(t *testing.T) {
	g := testGeometry(60, 72, 20, 300, 100)

	for _, p := range []fyne.Position{
		fyne.NewPos(-1, 50),
		fyne.NewPos(50, -1),
		fyne.NewPos(300, 50),
		fyne.NewPos(50, 100),
		fyne.NewPos(250, 50), // inside the widget but past the last key
	} {
		if got, _ := g.noteAt(p); got != -1 {
			t.Fatalf("noteAt(%v) = %d, want -1", p, got)
		}
	}
}

func TestRectForKeyOrientations(t *testing.T) {
	g := testGeometry(60, 72, 20, 300, 100)

	pos, size := g.rectForKey(60)
	if pos != fyne.NewPos(0, 0) || size != fyne.NewSize(20, 100) {
		t.Fatalf("horizontal white rect = %v %v", pos, size)
	}
	pos, size = g.rectForKey(61)
	if !approx(pos.X, 11.6) || pos.Y != 0 || !approx(size.Width, 14) || !approx(size.Height, 70) {
		t.Fatalf("horizontal black rect = %v %v", pos, size)
	}

	g.orientation = VerticalFacingLeft
	g.width, g.height = 100, 300
	pos, size = g.rectForKey(60)
	if pos != fyne.NewPos(0, 0) || size != fyne.NewSize(100, 20) {
		t.Fatalf("vertical-left white rect = %v %v", pos, size)
	}
	pos, size = g.rectForKey(61)
	if !approx(pos.X, 30) || !approx(pos.Y, 11.6) {
		t.Fatalf("vertical-left black rect pos = %v, want (30, 11.6)", pos)
	}

	g.orientation = VerticalFacingRight
	pos, size = g.rectForKey(60)
	if pos != fyne.NewPos(0, 280) || size != fyne.NewSize(100, 20) {
		t.Fatalf("vertical-right white rect = %v %v", pos, size)
	}
}

func TestNoteAtVerticalOrientations(t *testing.T) {
	g := testGeometry(60, 72, 20, 100, 300)

	g.orientation = VerticalFacingLeft
	// Near the strike edge (left), within the first key's span.
	if got, _ := g.noteAt(fyne.NewPos(95, 10)); got != 60 {
		t.Fatalf("vertical-left noteAt = %d, want 60", got)
	}

	g.orientation = VerticalFacingRight
	// The lowest key sits at the bottom when facing right.
	if got, _ := g.noteAt(fyne.NewPos(5, 290)); got != 60 {
		t.Fatalf("vertical-right noteAt = %d, want 60", got)
	}
}
