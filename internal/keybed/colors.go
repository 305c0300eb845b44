package keybed

import "image/color"

// Scheme holds the colors the keyboard paints with. Overlays are
// alpha-composited onto the base key color, pressed under hover.
type Scheme struct {
	WhiteNote        color.Color
	BlackNote        color.Color
	KeySeparator     color.Color
	KeyDownOverlay   color.Color
	MouseOverOverlay color.Color
	Shadow           color.Color
	TextLabel        color.Color
	ScrollBackground color.Color
	ScrollHover      color.Color
}

func DefaultScheme() Scheme {
	return Scheme{
		WhiteNote:        color.NRGBA{0xff, 0xff, 0xff, 0xff},
		BlackNote:        color.NRGBA{0x00, 0x00, 0x00, 0xff},
		KeySeparator:     color.NRGBA{0x00, 0x00, 0x00, 0x66},
		KeyDownOverlay:   color.NRGBA{0xff, 0xb0, 0x00, 0xb3},
		MouseOverOverlay: color.NRGBA{0xff, 0xff, 0x00, 0x66},
		Shadow:           color.NRGBA{0x00, 0x00, 0x00, 0x4d},
		TextLabel:        color.NRGBA{0x00, 0x00, 0x00, 0xff},
		ScrollBackground: color.NRGBA{0xd3, 0xd3, 0xd3, 0xff},
		ScrollHover:      color.NRGBA{0xe8, 0xe8, 0xe8, 0xff},
	}
}

// overlayColor source-over composites top onto base.
func overlayColor(base, top color.Color) color.Color {
	br, bg, bb, ba := base.RGBA()
	tr, tg, tb, ta := top.RGBA()

	inv := 0xffff - ta
	blend := func(b, t uint32) uint16 {
		return uint16(t + b*inv/0xffff)
	}
	return color.RGBA64{
		R: blend(br, tr),
		G: blend(bg, tg),
		B: blend(bb, tb),
		A: blend(ba, ta),
	}
}

// brighterColor nudges a color toward white, used for the raised face of an
// unpressed black key.
func brighterColor(c color.Color) color.Color {
	r, g, b, a := c.RGBA()
	up := func(v uint32) uint16 {
		return uint16(v + (0xffff-v)*2/5)
	}
	return color.RGBA64{R: up(r), G: up(g), B: up(b), A: uint16(a)}
}

var transparent = color.NRGBA{0, 0, 0, 0}
