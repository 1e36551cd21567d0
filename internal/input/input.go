// Package input turns raw terminal bytes into per-frame key presses.
package input

import (
	"bufio"
)

// Input is everything the player pressed since the previous read. Each key
// byte counts once, so toggles such as the bow draw fire exactly once per
// keystroke and held keys repeat at the terminal's key-repeat rate.
type Input struct {
	Quit   bool
	Space  bool
	Enter  bool
	Escape bool

	// Raise and Lower count aim presses: up/left/W/A raise the bow,
	// down/right/S/D lower it.
	Raise int
	Lower int

	Pressed []byte
}

// AimSteps returns the net aim change in steps, negative raising the bow.
func (in Input) AimSteps() int {
	return in.Lower - in.Raise
}

// Any reports whether a key was pressed.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes read by a background goroutine.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r until it fails.
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

// Closed reports whether the reader has ended, e.g. the session hung up.
func (s *Stream) Closed() bool {
	return s.closed
}

// drain collects all bytes available without blocking.
func (s *Stream) drain() []byte {
	var buf []byte
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				return buf
			}
			buf = append(buf, b)
		default:
			return buf
		}
	}
}

// ReadInput drains the stream without blocking and parses what arrived.
func ReadInput(s *Stream) Input {
	return Parse(s.drain())
}

// ResetKeyInput discards pending bytes so a keystroke that changed screens
// is not replayed on the next one.
func ResetKeyInput(s *Stream) {
	s.drain()
}

// Parse decodes one batch of terminal bytes, including CSI arrow keys.
func Parse(buf []byte) Input {
	in := Input{Pressed: buf}
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A', 'D':
				in.Raise++
				i += 2
				continue
			case 'B', 'C':
				in.Lower++
				i += 2
				continue
			}
		}
		applyByte(&in, b)
	}
	return in
}

func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', 3: // 3 is Ctrl+C in raw mode
		in.Quit = true
	case 'a', 'A', 'w', 'W':
		in.Raise++
	case 'd', 'D', 's', 'S':
		in.Lower++
	case ' ':
		in.Space = true
	case '\n', '\r':
		in.Enter = true
	case '\x1b':
		in.Escape = true
	}
}
