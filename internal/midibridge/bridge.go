// Package midibridge connects the shared note state to real MIDI ports:
// incoming hardware notes are mirrored into the state (and so onto every
// keyboard widget observing it), and notes played in the UI are forwarded to
// a MIDI output port.
package midibridge

import (
	"fmt"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver

	"github.com/PixPMusic/gopher-keys/internal/notes"
)

// Bridge owns at most one open input and one open output port.
type Bridge struct {
	mu    sync.Mutex
	state *notes.State

	inStop func()
	send   func(midi.Message) error
}

// New creates a bridge around the shared state. Call Close when done to shut
// the MIDI driver down.
func New(state *notes.State) *Bridge {
	b := &Bridge{state: state}
	state.AddListener(b)
	return b
}

// Close stops listening, detaches from the state, and closes the driver.
func (b *Bridge) Close() {
	b.CloseInput()
	b.mu.Lock()
	b.send = nil
	b.mu.Unlock()
	b.state.RemoveListener(b)
	midi.CloseDriver()
}

// ListInPorts returns the names of available MIDI input ports.
func (b *Bridge) ListInPorts() []string {
	ins := midi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// ListOutPorts returns the names of available MIDI output ports.
func (b *Bridge) ListOutPorts() []string {
	outs := midi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

func findInPort(name string) drivers.In {
	for _, in := range midi.GetInPorts() {
		if in.String() == name {
			return in
		}
	}
	return nil
}

func findOutPort(name string) drivers.Out {
	for _, out := range midi.GetOutPorts() {
		if out.String() == name {
			return out
		}
	}
	return nil
}

// OpenInput starts mirroring note events from the named port into the shared
// state. The listener callback runs on the driver's goroutine; notes.State
// is safe to mutate from there.
func (b *Bridge) OpenInput(portName string) error {
	b.CloseInput()
	if portName == "" {
		return nil
	}

	inPort := findInPort(portName)
	if inPort == nil {
		return fmt.Errorf("input port not found: %s", portName)
	}

	stop, err := midi.ListenTo(inPort, func(msg midi.Message, timestampms int32) {
		var channel, key, velocity uint8
		switch {
		case msg.GetNoteOn(&channel, &key, &velocity):
			if velocity > 0 {
				b.state.NoteOn(int(channel)+1, int(key), float32(velocity)/127)
			} else {
				b.state.NoteOff(int(channel)+1, int(key), 0)
			}
		case msg.GetNoteOff(&channel, &key, &velocity):
			b.state.NoteOff(int(channel)+1, int(key), float32(velocity)/127)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start listening: %w", err)
	}

	b.mu.Lock()
	b.inStop = stop
	b.mu.Unlock()
	return nil
}

// CloseInput stops the input listener, if any.
func (b *Bridge) CloseInput() {
	b.mu.Lock()
	stop := b.inStop
	b.inStop = nil
	b.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// OpenOutput routes every note transition of the shared state to the named
// port. An empty name disables output.
func (b *Bridge) OpenOutput(portName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.send = nil
	if portName == "" {
		return nil
	}

	outPort := findOutPort(portName)
	if outPort == nil {
		return fmt.Errorf("output port not found: %s", portName)
	}

	send, err := midi.SendTo(outPort)
	if err != nil {
		return fmt.Errorf("failed to create sender: %w", err)
	}
	b.send = send
	return nil
}

// OnNoteOn implements notes.Listener.
func (b *Bridge) OnNoteOn(channel, note int, velocity float32) {
	b.sendMessage(midi.NoteOn(uint8(channel-1), uint8(note), velocityByte(velocity)))
}

// OnNoteOff implements notes.Listener.
func (b *Bridge) OnNoteOff(channel, note int, velocity float32) {
	b.sendMessage(midi.NoteOff(uint8(channel-1), uint8(note)))
}

func (b *Bridge) sendMessage(msg midi.Message) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send == nil {
		return
	}
	// Errors here are transient port hiccups; dropping the message beats
	// blocking a UI event.
	_ = send(msg)
}

func velocityByte(v float32) uint8 {
	if v <= 0 {
		return 1 // velocity 0 would read as note-off
	}
	if v >= 1 {
		return 127
	}
	return uint8(v*126) + 1
}
