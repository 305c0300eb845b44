package keybed

import "fyne.io/fyne/v2"

// KeyBinding ties a logical keyboard key to a note offset relative to the
// base octave.
type KeyBinding struct {
	Key    fyne.KeyName
	Offset int
}

// keyMap is an ordered binding table. Each note offset has at most one bound
// key; a key name may be reused by rebinding it to another offset.
type keyMap struct {
	bindings []KeyBinding
}

// bind replaces any existing binding for the same offset (not the same key)
// and appends the new pair.
func (m *keyMap) bind(key fyne.KeyName, offset int) {
	m.unbindOffset(offset)
	m.bindings = append(m.bindings, KeyBinding{Key: key, Offset: offset})
}

// unbindOffset removes every binding for the offset.
func (m *keyMap) unbindOffset(offset int) {
	kept := m.bindings[:0]
	for _, b := range m.bindings {
		if b.Offset != offset {
			kept = append(kept, b)
		}
	}
	m.bindings = kept
}

func (m *keyMap) clear() {
	m.bindings = nil
}

// defaultKeyOrder is the home-row QWERTY layout bound at construction,
// offsets 0..16 from the base octave's C.
var defaultKeyOrder = []fyne.KeyName{
	fyne.KeyA, fyne.KeyW, fyne.KeyS, fyne.KeyE, fyne.KeyD,
	fyne.KeyF, fyne.KeyT, fyne.KeyG, fyne.KeyY, fyne.KeyH,
	fyne.KeyU, fyne.KeyJ, fyne.KeyK, fyne.KeyO, fyne.KeyL,
	fyne.KeyP, fyne.KeySemicolon,
}
