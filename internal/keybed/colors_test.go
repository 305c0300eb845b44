package keybed

import (
	"image/color"
	"testing"
)

func rgba(c color.Color) (uint32, uint32, uint32, uint32) {
	r, g, b, a := c.RGBA()
	return r, g, b, a
}

func TestOverlayColor(t *testing.T) {
	white := color.NRGBA{0xff, 0xff, 0xff, 0xff}

	// A transparent overlay leaves the base untouched.
	r, g, b, a := rgba(overlayColor(white, transparent))
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Fatalf("transparent overlay changed the base: %x %x %x %x", r, g, b, a)
	}

	// An opaque overlay replaces it.
	red := color.NRGBA{0xff, 0x00, 0x00, 0xff}
	r, g, b, _ = rgba(overlayColor(white, red))
	if r != 0xffff || g != 0 || b != 0 {
		t.Fatalf("opaque overlay = %x %x %x, want pure red", r, g, b)
	}
}

func TestBrighterColor(t *testing.T) {
	r, g, b, a := rgba(brighterColor(color.NRGBA{0x00, 0x00, 0x00, 0xff}))
	if r == 0 || r != g || g != b {
		t.Fatalf("brighter black should be a gray, got %x %x %x", r, g, b)
	}
	if a != 0xffff {
		t.Fatalf("alpha = %x, must be preserved", a)
	}
}
