package keybed

import (
	"testing"

	"fyne.io/fyne/v2"
)

func TestOctaveStep(t *testing.T) {
	tests := []struct {
		firstKey  float32
		direction int
		want      int
	}{
		{12, 1, 24},
		{12, -1, 0},
		{13, -1, 12},
		{23, 1, 24},
		{0, -1, -12}, // clamped later by SetLowestVisibleNote
	}
	for _, tc := range tests {
		v := viewport{firstKey: tc.firstKey}
		if got := v.octaveStep(tc.direction); got != tc.want {
			t.Fatalf("octaveStep(%v, %d) = %d, want %d", tc.firstKey, tc.direction, got, tc.want)
		}
	}
}

func TestRelayoutSnapsWhenRangeFits(t *testing.T) {
	g := testGeometry(60, 72, 16, 0, 0)
	v := viewport{firstKey: 65, canScroll: true}

	res := v.relayout(g, fyne.NewSize(200, 80))

	if v.firstKey != 60 {
		t.Fatalf("firstKey = %v, want 60", v.firstKey)
	}
	if !res.moved {
		t.Fatal("expected moved after snap")
	}
	if res.downVisible || res.upVisible {
		t.Fatalf("no scroll buttons expected, got down=%v up=%v", res.downVisible, res.upVisible)
	}
	if g.offset != 0 {
		t.Fatalf("offset = %v, want 0", g.offset)
	}
}

func TestRelayoutClampsToKeepLastKeyVisible(t *testing.T) {
	g := testGeometry(0, 127, 16, 0, 0)
	v := viewport{firstKey: 127, canScroll: true}

	res := v.relayout(g, fyne.NewSize(320, 80))

	if v.firstKey != 95 {
		t.Fatalf("firstKey = %v, want 95", v.firstKey)
	}
	if !res.moved {
		t.Fatal("expected moved after clamp")
	}
	if !approx(g.offset, 880) {
		t.Fatalf("offset = %v, want 880", g.offset)
	}
	if !res.downVisible {
		t.Fatal("down button should be visible when scrolled off the range start")
	}
	if res.upVisible {
		t.Fatal("up button should hide when the last key is flush with the edge")
	}
}

func TestRelayoutScrolledMidRange(t *testing.T) {
	g := testGeometry(0, 127, 16, 0, 0)
	v := viewport{firstKey: 12, canScroll: true}

	res := v.relayout(g, fyne.NewSize(320, 80))

	if res.moved {
		t.Fatal("firstKey should be stable mid-range")
	}
	if !res.downVisible || !res.upVisible {
		t.Fatalf("both buttons expected, got down=%v up=%v", res.downVisible, res.upVisible)
	}
	if !approx(g.offset, 112) {
		t.Fatalf("offset = %v, want 112", g.offset)
	}
}

func TestRelayoutButtonBand(t *testing.T) {
	g := testGeometry(0, 127, 16, 0, 0)
	v := viewport{firstKey: 12, canScroll: true}

	if res := v.relayout(g, fyne.NewSize(300, 80)); res.buttonBand != 12 {
		t.Fatalf("buttonBand = %v, want 12", res.buttonBand)
	}
	if res := v.relayout(g, fyne.NewSize(16, 80)); res.buttonBand != 8 {
		t.Fatalf("buttonBand = %v, want half the width for narrow widgets", res.buttonBand)
	}
}

func TestRelayoutScrollDisabled(t *testing.T) {
	g := testGeometry(0, 127, 16, 0, 0)
	v := viewport{firstKey: 40, canScroll: false}

	res := v.relayout(g, fyne.NewSize(320, 80))

	if v.firstKey != 0 {
		t.Fatalf("firstKey = %v, want range start when scrolling is off", v.firstKey)
	}
	if g.offset != 0 {
		t.Fatalf("offset = %v, want 0", g.offset)
	}
	if res.downVisible || res.upVisible {
		t.Fatal("buttons must hide when scrolling is off")
	}
}

func TestRelayoutIgnoresZeroSize(t *testing.T) {
	g := testGeometry(0, 127, 16, 100, 50)
	v := viewport{firstKey: 40, canScroll: true}

	res := v.relayout(g, fyne.NewSize(0, 0))

	if res.moved || v.firstKey != 40 {
		t.Fatalf("zero size must not disturb the viewport, firstKey = %v", v.firstKey)
	}
	if g.width != 100 || g.height != 50 {
		t.Fatal("zero size must not overwrite the stored dimensions")
	}
}
