package keybed

// noteBitset is a 128-bit flag set, one bit per MIDI note.
type noteBitset [2]uint64

func (b *noteBitset) set(note int) {
	if uint(note) < 128 {
		b[note>>6] |= 1 << (uint(note) & 63)
	}
}

func (b *noteBitset) clear(note int) {
	if uint(note) < 128 {
		b[note>>6] &^= 1 << (uint(note) & 63)
	}
}

func (b *noteBitset) test(note int) bool {
	if uint(note) >= 128 {
		return false
	}
	return b[note>>6]&(1<<(uint(note)&63)) != 0
}

func (b *noteBitset) isZero() bool { return b[0] == 0 && b[1] == 0 }
