// Package keybed implements the on-screen piano keyboard widget. The widget
// turns mouse, touch, and QWERTY input into note-on/note-off calls against a
// shared notes.State, and reflects external state changes (e.g. a hardware
// MIDI input feeding the same State) back into its rendering.
package keybed

import (
	"fmt"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"github.com/PixPMusic/gopher-keys/internal/notes"
)

// Hooks lets a host veto or react to pointer presses on specific keys, e.g.
// to implement chord lock or a custom velocity curve. Nil fields accept all
// presses and do nothing.
type Hooks struct {
	MouseDownOnKey    func(note int) bool
	MouseDraggedToKey func(note int)
	MouseUpOnKey      func(note int)
}

// Keyboard is the piano widget. All methods must be called on the UI
// goroutine; the only cross-thread path in is the notes.State listener, which
// just flags a recheck for the periodic tick.
type Keyboard struct {
	widget.BaseWidget

	state *notes.State

	geom  geometry
	view  viewport
	track tracker
	keys  keyMap

	keysDown map[fyne.KeyName]bool // logical key state
	pressed  noteBitset            // notes sounding due to physical keys
	drawn    noteBitset            // note on/off state most recently rendered

	midiChannel          int
	channelMask          uint16
	velocity             float32
	velocityFromPosition bool
	baseOctave           int
	middleCOctave        int

	colors Scheme
	hooks  Hooks

	onViewportChanged func()

	// stateDirty is the only field touched from other goroutines.
	stateDirty    atomic.Bool
	watchPointers bool
	mouseHeld     bool

	renderer *keyboardRenderer
}

var (
	_ fyne.Widget       = (*Keyboard)(nil)
	_ fyne.Draggable    = (*Keyboard)(nil)
	_ fyne.Scrollable   = (*Keyboard)(nil)
	_ desktop.Mouseable = (*Keyboard)(nil)
	_ desktop.Hoverable = (*Keyboard)(nil)
	_ desktop.Keyable   = (*Keyboard)(nil)
	_ mobile.Touchable  = (*Keyboard)(nil)
	_ notes.Listener    = (*Keyboard)(nil)
)

// New creates a keyboard observing the given state. The widget registers
// itself as a state listener; the registration is released when the renderer
// is destroyed.
func New(state *notes.State) *Keyboard {
	kb := &Keyboard{
		state: state,
		geom: geometry{
			orientation:      Horizontal,
			keyWidth:         16,
			blackWidthRatio:  0.7,
			blackLengthRatio: 0.7,
			low:              0,
			high:             127,
		},
		view:          viewport{firstKey: 12, canScroll: true},
		track:         newTracker(),
		keysDown:      make(map[fyne.KeyName]bool),
		midiChannel:   1,
		channelMask:   0xffff,
		velocity:      1,
		baseOctave:    6,
		middleCOctave: 3,
		colors:        DefaultScheme(),
	}

	for offset, key := range defaultKeyOrder {
		kb.keys.bind(key, offset)
	}

	state.AddListener(kb)
	kb.stateDirty.Store(true)
	kb.ExtendBaseWidget(kb)
	return kb
}

// ============ CONFIGURATION ============

// SetKeyWidth sets the unit key width in pixels. Non-positive widths are
// ignored.
func (kb *Keyboard) SetKeyWidth(width float32) {
	if width <= 0 || width == kb.geom.keyWidth {
		return
	}
	kb.geom.keyWidth = width
	kb.Refresh()
}

func (kb *Keyboard) KeyWidth() float32 { return kb.geom.keyWidth }

func (kb *Keyboard) SetOrientation(o Orientation) {
	if o == kb.geom.orientation {
		return
	}
	kb.geom.orientation = o
	kb.Refresh()
}

func (kb *Keyboard) Orientation() Orientation { return kb.geom.orientation }

// SetAvailableRange sets the inclusive note interval the widget displays.
// Bounds are clamped into [0,127]; a reversed pair collapses onto low.
func (kb *Keyboard) SetAvailableRange(low, high int) {
	low = clampInt(0, 127, low)
	high = clampInt(0, 127, high)
	if high < low {
		high = low
	}
	if low == kb.geom.low && high == kb.geom.high {
		return
	}
	kb.geom.low = low
	kb.geom.high = high
	kb.view.firstKey = clampFloat(float32(low), float32(high), kb.view.firstKey)
	kb.Refresh()
}

func (kb *Keyboard) AvailableRange() (low, high int) { return kb.geom.low, kb.geom.high }

// SetLowestVisibleNote scrolls the keyboard so the given note is the first
// one displayed.
func (kb *Keyboard) SetLowestVisibleNote(note int) {
	kb.SetLowestVisibleNoteFloat(float32(note))
}

// SetLowestVisibleNoteFloat is the fractional form used for smooth
// scrolling. Observers are only notified when the floored key changes, but a
// relayout happens on any change since the pixel offset depends on the
// fraction.
func (kb *Keyboard) SetLowestVisibleNoteFloat(note float32) {
	note = clampFloat(float32(kb.geom.low), float32(kb.geom.high), note)
	if note == kb.view.firstKey {
		return
	}
	moved := int(kb.view.firstKey) != int(note)
	kb.view.firstKey = note
	if moved {
		kb.notifyViewportChanged()
	}
	kb.Refresh()
}

func (kb *Keyboard) LowestVisibleNote() float32 { return kb.view.firstKey }

func (kb *Keyboard) SetScrollButtonsVisible(canScroll bool) {
	if canScroll == kb.view.canScroll {
		return
	}
	kb.view.canScroll = canScroll
	kb.Refresh()
}

// ScrollByOctave pages the viewport to the start of the adjacent octave.
func (kb *Keyboard) ScrollByOctave(direction int) {
	kb.SetLowestVisibleNote(kb.view.octaveStep(direction))
}

// SetMidiChannel selects the channel (1..16) played notes are sent on.
// Switching silently releases every currently held note first.
func (kb *Keyboard) SetMidiChannel(channel int) {
	channel = clampInt(1, 16, channel)
	if channel == kb.midiChannel {
		return
	}
	kb.resetAnyKeysInUse()
	kb.midiChannel = channel
}

func (kb *Keyboard) MidiChannel() int { return kb.midiChannel }

// SetMidiChannelsToDisplay filters which channels of the shared state are
// reflected in the rendering (bit n-1 = channel n).
func (kb *Keyboard) SetMidiChannelsToDisplay(mask uint16) {
	kb.channelMask = mask
	kb.stateDirty.Store(true)
}

// SetVelocity sets the velocity scalar in [0,1] and whether the strike
// position along a key also scales the velocity.
func (kb *Keyboard) SetVelocity(velocity float32, useMousePosition bool) {
	kb.velocity = clampFloat(0, 1, velocity)
	kb.velocityFromPosition = useMousePosition
}

func (kb *Keyboard) SetBlackNoteWidthProportion(ratio float32) {
	ratio = clampFloat(0, 1, ratio)
	if ratio == kb.geom.blackWidthRatio {
		return
	}
	kb.geom.blackWidthRatio = ratio
	kb.Refresh()
}

func (kb *Keyboard) SetBlackNoteLengthProportion(ratio float32) {
	ratio = clampFloat(0, 1, ratio)
	if ratio == kb.geom.blackLengthRatio {
		return
	}
	kb.geom.blackLengthRatio = ratio
	kb.Refresh()
}

// SetOctaveForMiddleC changes the octave number printed on the C below the
// labels, e.g. 4 makes note 60 read "C4".
func (kb *Keyboard) SetOctaveForMiddleC(octave int) {
	if octave == kb.middleCOctave {
		return
	}
	kb.middleCOctave = octave
	kb.Refresh()
}

// SetKeyPressBaseOctave sets the octave (0..10) QWERTY note offsets are
// relative to.
func (kb *Keyboard) SetKeyPressBaseOctave(octave int) {
	kb.baseOctave = clampInt(0, 10, octave)
}

// BindKeyPress maps a logical key to a note offset from the base octave's C.
// Any previous binding for the same offset is replaced.
func (kb *Keyboard) BindKeyPress(key fyne.KeyName, offset int) {
	kb.keys.bind(key, offset)
}

// UnbindKeyPress removes the binding for a note offset.
func (kb *Keyboard) UnbindKeyPress(offset int) {
	kb.keys.unbindOffset(offset)
}

// ClearKeyMappings releases anything held and removes all bindings.
func (kb *Keyboard) ClearKeyMappings() {
	kb.resetAnyKeysInUse()
	kb.keys.clear()
}

func (kb *Keyboard) SetColors(scheme Scheme) {
	kb.colors = scheme
	kb.Refresh()
}

func (kb *Keyboard) SetHooks(hooks Hooks) { kb.hooks = hooks }

// SetOnViewportChanged registers a callback fired whenever the lowest
// visible key moves to a different note, whether by scrolling or by a
// relayout snap.
func (kb *Keyboard) SetOnViewportChanged(f func()) { kb.onViewportChanged = f }

func (kb *Keyboard) notifyViewportChanged() {
	if kb.onViewportChanged != nil {
		kb.onViewportChanged()
	}
}

// ============ NOTE STATE ============

// OnNoteOn implements notes.Listener. It may run on any goroutine (a MIDI
// input callback), so it only flags the periodic tick to rescan.
func (kb *Keyboard) OnNoteOn(channel, note int, velocity float32) {
	kb.stateDirty.Store(true)
}

// OnNoteOff implements notes.Listener.
func (kb *Keyboard) OnNoteOff(channel, note int, velocity float32) {
	kb.stateDirty.Store(true)
}

// tick runs at a fixed rate on the UI goroutine. It reconciles the rendered
// note state with the shared state and replays cached pointer positions while
// a press is live, so scrolling under a held pointer retargets the note.
func (kb *Keyboard) tick() {
	if kb.stateDirty.Swap(false) {
		for n := kb.geom.low; n <= kb.geom.high; n++ {
			on := kb.state.IsNoteOnForChannels(kb.channelMask, n)
			if kb.drawn.test(n) != on {
				if on {
					kb.drawn.set(n)
				} else {
					kb.drawn.clear(n)
				}
				kb.repaintKey(n)
			}
		}
	}

	if !kb.watchPointers {
		return
	}
	for src, ps := range kb.track.last {
		kb.updatePointer(src, ps.pos, ps.down)
	}
}

// resetAnyKeysInUse releases every note held by pointers or physical keys.
func (kb *Keyboard) resetAnyKeysInUse() {
	if !kb.pressed.isZero() {
		for n := 127; n >= 0; n-- {
			if kb.pressed.test(n) {
				kb.state.NoteOff(kb.midiChannel, n, 0)
			}
		}
		kb.pressed = noteBitset{}
	}
	kb.track.releaseAll(kb.trackerEvents())
}

// ============ POINTER INPUT ============

var mouseSource = PointerID{Kind: PointerMouse}

func (kb *Keyboard) trackerEvents() trackerEvents {
	return trackerEvents{
		repaint: kb.repaintKey,
		noteOn: func(note int, velocity float32) {
			kb.state.NoteOn(kb.midiChannel, note, velocity)
		},
		noteOff: func(note int, velocity float32) {
			kb.state.NoteOff(kb.midiChannel, note, velocity)
		},
	}
}

// eventVelocity derives the note-on/off velocity from the strike fraction.
func (kb *Keyboard) eventVelocity(fraction float32) float32 {
	v := float32(1)
	if kb.velocityFromPosition {
		v = fraction * kb.velocity
	}
	if v < 0 {
		v = 0
	}
	return v
}

func (kb *Keyboard) updatePointer(src PointerID, pos fyne.Position, pressed bool) {
	note, fraction := kb.geom.noteAt(pos)
	kb.track.remember(src, pos, pressed)
	kb.track.update(src, note, kb.eventVelocity(fraction), pressed, kb.trackerEvents())
}

// pointerExit clears hover (and any press, as if dragged off the edge) for a
// source that left the widget.
func (kb *Keyboard) pointerExit(src PointerID, pressed bool) {
	kb.track.update(src, -1, kb.eventVelocity(0), pressed, kb.trackerEvents())
	kb.track.forget(src)
}

// MouseDown implements desktop.Mouseable.
func (kb *Keyboard) MouseDown(ev *desktop.MouseEvent) {
	note, _ := kb.geom.noteAt(ev.Position)
	if note < 0 {
		return
	}
	if kb.hooks.MouseDownOnKey != nil && !kb.hooks.MouseDownOnKey(note) {
		return
	}

	kb.requestFocus()
	kb.mouseHeld = true
	kb.updatePointer(mouseSource, ev.Position, true)
	kb.watchPointers = true
}

// MouseUp implements desktop.Mouseable.
func (kb *Keyboard) MouseUp(ev *desktop.MouseEvent) {
	kb.mouseHeld = false
	kb.updatePointer(mouseSource, ev.Position, false)
	kb.watchPointers = false

	if note, _ := kb.geom.noteAt(ev.Position); note >= 0 && kb.hooks.MouseUpOnKey != nil {
		kb.hooks.MouseUpOnKey(note)
	}
}

// Dragged implements fyne.Draggable.
func (kb *Keyboard) Dragged(ev *fyne.DragEvent) {
	kb.mouseHeld = true
	if note, _ := kb.geom.noteAt(ev.Position); note >= 0 && kb.hooks.MouseDraggedToKey != nil {
		kb.hooks.MouseDraggedToKey(note)
	}
	kb.updatePointer(mouseSource, ev.Position, true)
}

// DragEnd implements fyne.Draggable. MouseUp normally follows and releases
// the note; this covers drivers that end a drag without one.
func (kb *Keyboard) DragEnd() {
	kb.mouseHeld = false
	if ps, ok := kb.track.last[mouseSource]; ok && ps.down {
		kb.updatePointer(mouseSource, ps.pos, false)
	}
	kb.watchPointers = false
}

// MouseIn implements desktop.Hoverable.
func (kb *Keyboard) MouseIn(ev *desktop.MouseEvent) {
	kb.updatePointer(mouseSource, ev.Position, kb.mouseHeld)
}

// MouseMoved implements desktop.Hoverable.
func (kb *Keyboard) MouseMoved(ev *desktop.MouseEvent) {
	kb.updatePointer(mouseSource, ev.Position, kb.mouseHeld)
	if !kb.mouseHeld {
		kb.watchPointers = false
	}
}

// MouseOut implements desktop.Hoverable.
func (kb *Keyboard) MouseOut() {
	kb.pointerExit(mouseSource, kb.mouseHeld)
}

// Scrolled implements fyne.Scrollable: the wheel scrolls the viewport along
// the keyboard axis, one key per key-width of wheel travel.
func (kb *Keyboard) Scrolled(ev *fyne.ScrollEvent) {
	var amount float32
	switch {
	case kb.geom.orientation == Horizontal && ev.Scrolled.DX != 0:
		amount = ev.Scrolled.DX
	case kb.geom.orientation == VerticalFacingLeft:
		amount = ev.Scrolled.DY
	default:
		amount = -ev.Scrolled.DY
	}
	kb.SetLowestVisibleNoteFloat(kb.view.firstKey - amount/kb.geom.keyWidth)
}

// TouchDown implements mobile.Touchable.
func (kb *Keyboard) TouchDown(ev *mobile.TouchEvent) {
	src := PointerID{Kind: PointerTouch}
	note, _ := kb.geom.noteAt(ev.Position)
	if note < 0 {
		return
	}
	if kb.hooks.MouseDownOnKey != nil && !kb.hooks.MouseDownOnKey(note) {
		return
	}
	kb.updatePointer(src, ev.Position, true)
	kb.watchPointers = true
}

// TouchUp implements mobile.Touchable.
func (kb *Keyboard) TouchUp(ev *mobile.TouchEvent) {
	src := PointerID{Kind: PointerTouch}
	kb.updatePointer(src, ev.Position, false)
	kb.track.forget(src)
	kb.watchPointers = false
}

// TouchCancel implements mobile.Touchable.
func (kb *Keyboard) TouchCancel(ev *mobile.TouchEvent) {
	kb.pointerExit(PointerID{Kind: PointerTouch}, true)
}

func (kb *Keyboard) requestFocus() {
	if app := fyne.CurrentApp(); app != nil && app.Driver() != nil {
		if c := app.Driver().CanvasForObject(kb); c != nil {
			c.Focus(kb)
		}
	}
}

// ============ PHYSICAL KEYS ============

// KeyDown implements desktop.Keyable.
func (kb *Keyboard) KeyDown(ev *fyne.KeyEvent) {
	if kb.keysDown[ev.Name] {
		return // key auto-repeat
	}
	kb.keysDown[ev.Name] = true
	kb.keyStateChanged()
}

// KeyUp implements desktop.Keyable.
func (kb *Keyboard) KeyUp(ev *fyne.KeyEvent) {
	if !kb.keysDown[ev.Name] {
		return
	}
	delete(kb.keysDown, ev.Name)
	kb.keyStateChanged()
}

// keyStateChanged walks the binding table and reconciles the physical-press
// set, emitting note-on/off for transitions. It reports whether any binding
// matched so a host embedding the widget can treat the event as consumed.
func (kb *Keyboard) keyStateChanged() bool {
	used := false
	for _, b := range kb.keys.bindings {
		note := 12*kb.baseOctave + b.Offset
		if note < 0 || note > 127 {
			continue
		}
		if kb.keysDown[b.Key] {
			if !kb.pressed.test(note) {
				kb.pressed.set(note)
				kb.state.NoteOn(kb.midiChannel, note, kb.velocity)
				used = true
			}
		} else if kb.pressed.test(note) {
			kb.pressed.clear(note)
			kb.state.NoteOff(kb.midiChannel, note, 0)
			used = true
		}
	}
	return used
}

// FocusGained implements fyne.Focusable.
func (kb *Keyboard) FocusGained() {}

// FocusLost implements fyne.Focusable: anything held is released, since key
// up events will no longer arrive.
func (kb *Keyboard) FocusLost() {
	kb.keysDown = make(map[fyne.KeyName]bool)
	kb.resetAnyKeysInUse()
}

// TypedRune implements fyne.Focusable.
func (kb *Keyboard) TypedRune(rune) {}

// TypedKey implements fyne.Focusable.
func (kb *Keyboard) TypedKey(*fyne.KeyEvent) {}

// ============ LAYOUT & RENDERING ============

// relayout recomputes the viewport for a widget size and notifies observers
// when the lowest visible key was snapped.
func (kb *Keyboard) relayout(size fyne.Size) viewportLayout {
	res := kb.view.relayout(&kb.geom, size)
	if res.moved {
		kb.notifyViewportChanged()
	}
	return res
}

// KeyRect returns the current rectangle of a note in widget coordinates.
func (kb *Keyboard) KeyRect(note int) (fyne.Position, fyne.Size) {
	return kb.geom.rectForKey(note)
}

// NoteAtPosition hit-tests a point in widget coordinates, returning -1 when
// no key is under it.
func (kb *Keyboard) NoteAtPosition(pos fyne.Position) int {
	note, _ := kb.geom.noteAt(pos)
	return note
}

// TotalKeyboardWidth is the pixel length of the full note range at the
// current key width.
func (kb *Keyboard) TotalKeyboardWidth() float32 {
	return kb.geom.totalWidth()
}

// whiteNoteText is the label for a white key; only Cs are labelled.
func (kb *Keyboard) whiteNoteText(note int) string {
	if note%12 != 0 {
		return ""
	}
	return fmt.Sprintf("C%d", note/12+kb.middleCOctave-5)
}

func (kb *Keyboard) repaintKey(note int) {
	if kb.renderer == nil || note < kb.geom.low || note > kb.geom.high {
		return
	}
	kb.renderer.refreshKey(note)
}

// CreateRenderer implements fyne.Widget.
func (kb *Keyboard) CreateRenderer() fyne.WidgetRenderer {
	r := newKeyboardRenderer(kb)
	kb.renderer = r
	r.start()
	return r
}
