package keybed

import (
	"testing"

	"fyne.io/fyne/v2"
)

func TestKeyMapBindReplacesOffset(t *testing.T) {
	var m keyMap
	m.bind(fyne.KeyA, 0)
	m.bind(fyne.KeyZ, 0)

	if len(m.bindings) != 1 {
		t.Fatalf("bindings = %v, want one entry per offset", m.bindings)
	}
	if m.bindings[0].Key != fyne.KeyZ {
		t.Fatalf("offset 0 bound to %v, want the latest key", m.bindings[0].Key)
	}
}

func TestKeyMapSameKeyMultipleOffsets(t *testing.T) {
	var m keyMap
	m.bind(fyne.KeyA, 0)
	m.bind(fyne.KeyA, 12)

	if len(m.bindings) != 2 {
		t.Fatalf("bindings = %v, want the same key playable at two offsets", m.bindings)
	}
}

func TestKeyMapUnbindOffset(t *testing.T) {
	var m keyMap
	m.bind(fyne.KeyA, 0)
	m.bind(fyne.KeyW, 1)

	m.unbindOffset(0)
	if len(m.bindings) != 1 || m.bindings[0].Offset != 1 {
		t.Fatalf("bindings = %v after unbind", m.bindings)
	}

	m.clear()
	if len(m.bindings) != 0 {
		t.Fatal("clear should remove every binding")
	}
}

func TestDefaultKeyOrderCoversSeventeenOffsets(t *testing.T) {
	if len(defaultKeyOrder) != 17 {
		t.Fatalf("default layout has %d keys, want 17 (C to E an octave up)", len(defaultKeyOrder))
	}
	if defaultKeyOrder[0] != fyne.KeyA || defaultKeyOrder[16] != fyne.KeySemicolon {
		t.Fatal("default layout should run from A to semicolon")
	}
}
