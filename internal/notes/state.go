// Package notes holds the shared note-state model observed by keyboard
// widgets and MIDI bridges alike. One State may be watched by any number of
// listeners, and may be mutated from any goroutine (a hardware MIDI input
// callback, the UI thread, ...).
package notes

import "sync"

// Listener receives note transitions. Callbacks may fire on any goroutine
// and must not block; UI observers should only flag work for later.
type Listener interface {
	OnNoteOn(channel, note int, velocity float32)
	OnNoteOff(channel, note int, velocity float32)
}

// State tracks which of the 128 MIDI notes are sounding on which of the 16
// channels. Channels are numbered 1..16; velocities are normalized to [0,1].
type State struct {
	mu        sync.Mutex
	channels  [128]uint16 // bit n-1 set = note sounding on channel n
	listeners []Listener
}

func NewState() *State {
	return &State{}
}

func validNote(note int) bool { return note >= 0 && note < 128 }

func channelBit(channel int) uint16 {
	if channel < 1 || channel > 16 {
		return 0
	}
	return 1 << uint(channel-1)
}

// NoteOn marks the note sounding on the channel and notifies listeners.
// Out-of-range notes and channels are ignored.
func (s *State) NoteOn(channel, note int, velocity float32) {
	bit := channelBit(channel)
	if bit == 0 || !validNote(note) {
		return
	}
	velocity = clamp01(velocity)

	s.mu.Lock()
	s.channels[note] |= bit
	targets := s.snapshotListeners()
	s.mu.Unlock()

	for _, l := range targets {
		l.OnNoteOn(channel, note, velocity)
	}
}

// NoteOff clears the note on the channel. Listeners are only notified when
// the note was actually sounding there.
func (s *State) NoteOff(channel, note int, velocity float32) {
	bit := channelBit(channel)
	if bit == 0 || !validNote(note) {
		return
	}
	velocity = clamp01(velocity)

	s.mu.Lock()
	wasOn := s.channels[note]&bit != 0
	s.channels[note] &^= bit
	targets := s.snapshotListeners()
	s.mu.Unlock()

	if !wasOn {
		return
	}
	for _, l := range targets {
		l.OnNoteOff(channel, note, velocity)
	}
}

// AllNotesOff releases every sounding note on the channel.
func (s *State) AllNotesOff(channel int) {
	bit := channelBit(channel)
	if bit == 0 {
		return
	}
	for note := 0; note < 128; note++ {
		s.NoteOff(channel, note, 0)
	}
}

// IsNoteOn reports whether the note is sounding on the given channel.
func (s *State) IsNoteOn(channel, note int) bool {
	return s.IsNoteOnForChannels(channelBit(channel), note)
}

// IsNoteOnForChannels reports whether the note is sounding on any channel in
// the mask (bit n-1 = channel n).
func (s *State) IsNoteOnForChannels(mask uint16, note int) bool {
	if !validNote(note) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channels[note]&mask != 0
}

// AddListener registers a listener. Adding the same listener twice is a
// no-op.
func (s *State) AddListener(l Listener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.listeners {
		if existing == l {
			return
		}
	}
	s.listeners = append(s.listeners, l)
}

// RemoveListener deregisters a listener. Observers must call this before
// they are torn down so no dangling callback remains.
func (s *State) RemoveListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.listeners {
		if existing == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// snapshotListeners must be called with the lock held; callbacks run on a
// copy so a listener may remove itself mid-dispatch.
func (s *State) snapshotListeners() []Listener {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
