// Package input turns raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a movement or fire key counts as held after
// its last byte. Terminals only repeat keys, they never report releases.
const keyHoldDuration = 30 * time.Millisecond

// Input is the key state for one frame.
//
// Left, Right and Fire are held keys: they stay true for keyHoldDuration after
// the last press so auto-repeat gaps do not stutter. Everything else is a tap
// and is reported only in the frame its byte arrived.
type Input struct {
	Left  bool
	Right bool
	Fire  bool

	Quit      bool
	Enter     bool
	Backspace bool
	Escape    bool
	Upgrade   bool // ]
	Downgrade bool // [
	Triple    bool // t
	Math      bool // m
	Skip      bool // s
	Restart   bool // r
	Number    int  // Last digit pressed this frame, -1 if none

	Typed   []byte // Printable bytes in arrival order, for answer entry
	Pressed []byte // Raw bytes read this frame
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	fire  time.Time
}

// Stream delivers input bytes via a channel and tracks held keys across frames.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// Reset forgets held keys, e.g. when switching screens.
func (s *Stream) Reset() {
	s.state = keyState{}
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	var buf []byte
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	return s.parse(buf, time.Now())
}

// parse decodes buf into an Input at time now, updating held key state.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	state := &s.state
	in := Input{Number: -1, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C':
				state.right = now
				i += 2
				continue
			case 'D':
				state.left = now
				i += 2
				continue
			case 'A', 'B':
				i += 2
				continue
			}
		}

		applyByte(state, &in, b, now)
	}

	in.Left = now.Sub(state.left) < keyHoldDuration
	in.Right = now.Sub(state.right) < keyHoldDuration
	in.Fire = now.Sub(state.fire) < keyHoldDuration
	return in
}

func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case ' ':
		state.fire = now
	case '\n', '\r':
		in.Enter = true
	case '\b', '\x7f':
		in.Backspace = true
	case '\x1b':
		in.Escape = true
	case ']':
		in.Upgrade = true
	case '[':
		in.Downgrade = true
	case 't', 'T':
		in.Triple = true
	case 'm', 'M':
		in.Math = true
	case 's', 'S':
		in.Skip = true
	case 'r', 'R':
		in.Restart = true
	}

	if b >= '0' && b <= '9' {
		in.Number = int(b - '0')
	}
	if isAnswerByte(b) {
		in.Typed = append(in.Typed, b)
	}
}

// isAnswerByte reports whether b can appear in a numeric answer.
func isAnswerByte(b byte) bool {
	return (b >= '0' && b <= '9') || b == '-' || b == '.'
}
