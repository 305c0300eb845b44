package keybed

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// tickInterval is the fixed repaint-reconciliation rate (~20 Hz).
const tickInterval = 50 * time.Millisecond

// keyboardRenderer owns one canvas rectangle per key, updated in place so a
// single note change repaints a single object.
type keyboardRenderer struct {
	kb *Keyboard

	background *canvas.Rectangle
	keys       [128]*canvas.Rectangle
	faces      [128]*canvas.Rectangle // raised top face of unpressed black keys
	labels     [128]*canvas.Text      // octave labels, C notes only
	shadow     *canvas.LinearGradient
	edge       *canvas.Rectangle
	scrollDown *scrollButton
	scrollUp   *scrollButton

	objects []fyne.CanvasObject
	stop    chan struct{}
}

func newKeyboardRenderer(kb *Keyboard) *keyboardRenderer {
	r := &keyboardRenderer{kb: kb}

	r.background = canvas.NewRectangle(kb.colors.WhiteNote)
	r.shadow = canvas.NewVerticalGradient(kb.colors.Shadow, transparent)
	r.edge = canvas.NewRectangle(kb.colors.KeySeparator)
	r.scrollDown = newScrollButton(kb, -1)
	r.scrollUp = newScrollButton(kb, 1)

	r.objects = append(r.objects, r.background)

	for n := 0; n < 128; n++ {
		rect := canvas.NewRectangle(kb.colors.WhiteNote)
		r.keys[n] = rect
		if isBlackNote(n) {
			continue
		}
		rect.StrokeWidth = 1
		rect.StrokeColor = kb.colors.KeySeparator
		r.objects = append(r.objects, rect)

		if n%12 == 0 {
			label := canvas.NewText("", kb.colors.TextLabel)
			label.Alignment = fyne.TextAlignCenter
			r.labels[n] = label
			r.objects = append(r.objects, label)
		}
	}

	r.objects = append(r.objects, r.shadow, r.edge)

	for n := 0; n < 128; n++ {
		if !isBlackNote(n) {
			continue
		}
		r.keys[n].FillColor = kb.colors.BlackNote
		face := canvas.NewRectangle(brighterColor(kb.colors.BlackNote))
		r.faces[n] = face
		r.objects = append(r.objects, r.keys[n], face)
	}

	r.objects = append(r.objects, r.scrollDown, r.scrollUp)
	return r
}

// start launches the fixed-rate tick; it runs until Destroy.
func (r *keyboardRenderer) start() {
	r.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				if fyne.CurrentApp() == nil {
					continue
				}
				fyne.Do(r.kb.tick)
			}
		}
	}()
}

// Layout implements fyne.WidgetRenderer.
func (r *keyboardRenderer) Layout(size fyne.Size) {
	res := r.kb.relayout(size)
	r.place(res)
	r.recolorAll()
}

// place positions every canvas object for the current geometry.
func (r *keyboardRenderer) place(res viewportLayout) {
	g := &r.kb.geom

	r.background.Move(fyne.NewPos(0, 0))
	r.background.Resize(fyne.NewSize(g.width, g.height))

	for n := 0; n < 128; n++ {
		rect := r.keys[n]
		if n < g.low || n > g.high {
			rect.Hide()
			if r.faces[n] != nil {
				r.faces[n].Hide()
			}
			if r.labels[n] != nil {
				r.labels[n].Hide()
			}
			continue
		}
		rect.Show()

		pos, sz := g.rectForKey(n)
		rect.Move(pos)
		rect.Resize(sz)

		if face := r.faces[n]; face != nil {
			face.Move(blackFacePos(g.orientation, pos, sz))
			face.Resize(blackFaceSize(g.orientation, sz))
		}
		if label := r.labels[n]; label != nil {
			r.placeLabel(label, n, pos, sz)
		}
	}

	r.placeShadow()
	r.placeScrollButtons(res)
}

func blackFacePos(o Orientation, pos fyne.Position, sz fyne.Size) fyne.Position {
	switch o {
	case VerticalFacingLeft:
		return fyne.NewPos(pos.X+sz.Width/8, pos.Y+sz.Height/8)
	case VerticalFacingRight:
		return fyne.NewPos(pos.X, pos.Y+sz.Height/8)
	default:
		return fyne.NewPos(pos.X+sz.Width/8, pos.Y)
	}
}

func blackFaceSize(o Orientation, sz fyne.Size) fyne.Size {
	if o == Horizontal {
		return fyne.NewSize(sz.Width*6/8, sz.Height*7/8)
	}
	return fyne.NewSize(sz.Width*7/8, sz.Height*6/8)
}

func (r *keyboardRenderer) placeLabel(label *canvas.Text, note int, pos fyne.Position, sz fyne.Size) {
	label.Show()
	label.Text = r.kb.whiteNoteText(note)
	label.Color = r.kb.colors.TextLabel

	fontSize := r.kb.geom.keyWidth * 0.9
	if fontSize > 12 {
		fontSize = 12
	}
	label.TextSize = fontSize

	switch r.kb.geom.orientation {
	case VerticalFacingLeft:
		label.Move(fyne.NewPos(pos.X+2, pos.Y+(sz.Height-fontSize)/2-2))
		label.Resize(fyne.NewSize(fontSize+4, fontSize+4))
	case VerticalFacingRight:
		label.Move(fyne.NewPos(pos.X+sz.Width-fontSize-6, pos.Y+(sz.Height-fontSize)/2-2))
		label.Resize(fyne.NewSize(fontSize+4, fontSize+4))
	default:
		label.Move(fyne.NewPos(pos.X+1, pos.Y+sz.Height-fontSize-6))
		label.Resize(fyne.NewSize(sz.Width-2, fontSize+4))
	}
}

// placeShadow lays the gradient band and the separator line along the strike
// edge, running only as far as the last key.
func (r *keyboardRenderer) placeShadow() {
	g := &r.kb.geom
	extent := g.keyPos(g.high).end

	switch g.orientation {
	case VerticalFacingLeft:
		r.shadow.Angle = 90
		r.shadow.Move(fyne.NewPos(g.width-5, 0))
		r.shadow.Resize(fyne.NewSize(5, extent))
		r.edge.Move(fyne.NewPos(0, 0))
		r.edge.Resize(fyne.NewSize(1, extent))
	case VerticalFacingRight:
		r.shadow.Angle = 270
		r.shadow.Move(fyne.NewPos(0, 0))
		r.shadow.Resize(fyne.NewSize(5, extent))
		r.edge.Move(fyne.NewPos(g.width-1, 0))
		r.edge.Resize(fyne.NewSize(1, extent))
	default:
		r.shadow.Angle = 0
		r.shadow.Move(fyne.NewPos(0, 0))
		r.shadow.Resize(fyne.NewSize(extent, 5))
		r.edge.Move(fyne.NewPos(0, g.height-1))
		r.edge.Resize(fyne.NewSize(extent, 1))
	}
}

func (r *keyboardRenderer) placeScrollButtons(res viewportLayout) {
	g := &r.kb.geom
	band := res.buttonBand

	r.scrollDown.updateIcon(g.orientation)
	r.scrollUp.updateIcon(g.orientation)

	switch g.orientation {
	case VerticalFacingLeft:
		r.scrollDown.Move(fyne.NewPos(0, 0))
		r.scrollDown.Resize(fyne.NewSize(g.width, band))
		r.scrollUp.Move(fyne.NewPos(0, g.height-band))
		r.scrollUp.Resize(fyne.NewSize(g.width, band))
	case VerticalFacingRight:
		r.scrollDown.Move(fyne.NewPos(0, g.height-band))
		r.scrollDown.Resize(fyne.NewSize(g.width, band))
		r.scrollUp.Move(fyne.NewPos(0, 0))
		r.scrollUp.Resize(fyne.NewSize(g.width, band))
	default:
		r.scrollDown.Move(fyne.NewPos(0, 0))
		r.scrollDown.Resize(fyne.NewSize(band, g.height))
		r.scrollUp.Move(fyne.NewPos(g.width-band, 0))
		r.scrollUp.Resize(fyne.NewSize(band, g.height))
	}

	setShown(r.scrollDown, res.downVisible)
	setShown(r.scrollUp, res.upVisible)
}

func setShown(o fyne.CanvasObject, shown bool) {
	if shown {
		o.Show()
	} else {
		o.Hide()
	}
}

// recolorKey recomputes the paint color of one key from the shared note
// state (filtered by the display channel mask) and the hover set.
func (r *keyboardRenderer) recolorKey(note int) {
	kb := r.kb
	on := kb.state.IsNoteOnForChannels(kb.channelMask, note)
	over := kb.track.isOver(note)

	if isBlackNote(note) {
		c := kb.colors.BlackNote
		if on {
			c = overlayColor(c, kb.colors.KeyDownOverlay)
		}
		if over {
			c = overlayColor(c, kb.colors.MouseOverOverlay)
		}
		r.keys[note].FillColor = c

		face := r.faces[note]
		face.FillColor = brighterColor(c)
		inRange := note >= kb.geom.low && note <= kb.geom.high
		setShown(face, inRange && !on)
		return
	}

	c := kb.colors.WhiteNote
	if on {
		c = overlayColor(c, kb.colors.KeyDownOverlay)
	}
	if over {
		c = overlayColor(c, kb.colors.MouseOverOverlay)
	}
	r.keys[note].FillColor = c
	r.keys[note].StrokeColor = kb.colors.KeySeparator
}

func (r *keyboardRenderer) recolorAll() {
	for n := r.kb.geom.low; n <= r.kb.geom.high; n++ {
		r.recolorKey(n)
	}
}

// refreshKey repaints a single note's rectangle.
func (r *keyboardRenderer) refreshKey(note int) {
	r.recolorKey(note)
	r.keys[note].Refresh()
	if face := r.faces[note]; face != nil {
		face.Refresh()
	}
}

// Refresh implements fyne.WidgetRenderer.
func (r *keyboardRenderer) Refresh() {
	r.background.FillColor = r.kb.colors.WhiteNote
	r.shadow.StartColor = r.kb.colors.Shadow
	r.edge.FillColor = r.kb.colors.KeySeparator

	r.Layout(r.kb.Size())

	r.background.Refresh()
	r.shadow.Refresh()
	r.edge.Refresh()
	for n := r.kb.geom.low; n <= r.kb.geom.high; n++ {
		r.keys[n].Refresh()
		if face := r.faces[n]; face != nil {
			face.Refresh()
		}
		if label := r.labels[n]; label != nil {
			label.Refresh()
		}
	}
	r.scrollDown.Refresh()
	r.scrollUp.Refresh()
}

// MinSize implements fyne.WidgetRenderer: one octave along the axis, a
// playable depth across it.
func (r *keyboardRenderer) MinSize() fyne.Size {
	along := 7 * r.kb.geom.keyWidth
	if r.kb.geom.orientation == Horizontal {
		return fyne.NewSize(along, 40)
	}
	return fyne.NewSize(40, along)
}

// Objects implements fyne.WidgetRenderer.
func (r *keyboardRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy implements fyne.WidgetRenderer: it stops the tick and releases the
// note-state subscription so no dangling callback outlives the widget.
func (r *keyboardRenderer) Destroy() {
	close(r.stop)
	r.kb.state.RemoveListener(r.kb)
	r.kb.renderer = nil
}

// ============ SCROLL BUTTONS ============

// scrollButton is the octave-paging button shown at each end of a scrollable
// keyboard.
type scrollButton struct {
	widget.BaseWidget
	kb    *Keyboard
	delta int

	bg   *canvas.Rectangle
	icon *canvas.Image
}

var (
	_ fyne.Tappable     = (*scrollButton)(nil)
	_ desktop.Hoverable = (*scrollButton)(nil)
)

func newScrollButton(kb *Keyboard, delta int) *scrollButton {
	b := &scrollButton{kb: kb, delta: delta}
	b.bg = canvas.NewRectangle(kb.colors.ScrollBackground)
	b.icon = canvas.NewImageFromResource(theme.MenuDropUpIcon())
	b.icon.FillMode = canvas.ImageFillContain
	b.ExtendBaseWidget(b)
	b.Hide()
	return b
}

func (b *scrollButton) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(b.bg, b.icon))
}

// updateIcon picks the arrow for the current orientation and direction.
func (b *scrollButton) updateIcon(o Orientation) {
	var res fyne.Resource
	switch o {
	case VerticalFacingLeft:
		if b.delta > 0 {
			res = theme.MenuDropDownIcon()
		} else {
			res = theme.MenuDropUpIcon()
		}
	case VerticalFacingRight:
		if b.delta > 0 {
			res = theme.MenuDropUpIcon()
		} else {
			res = theme.MenuDropDownIcon()
		}
	default:
		if b.delta > 0 {
			res = theme.NavigateNextIcon()
		} else {
			res = theme.NavigateBackIcon()
		}
	}
	if b.icon.Resource != res {
		b.icon.Resource = res
		b.icon.Refresh()
	}
}

// Tapped implements fyne.Tappable.
func (b *scrollButton) Tapped(*fyne.PointEvent) {
	b.kb.ScrollByOctave(b.delta)
}

// MouseIn implements desktop.Hoverable.
func (b *scrollButton) MouseIn(*desktop.MouseEvent) {
	b.bg.FillColor = b.kb.colors.ScrollHover
	b.bg.Refresh()
}

// MouseMoved implements desktop.Hoverable.
func (b *scrollButton) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (b *scrollButton) MouseOut() {
	b.bg.FillColor = b.kb.colors.ScrollBackground
	b.bg.Refresh()
}
