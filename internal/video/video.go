// Package video defines the frame-source boundary the detectors consume.
// Decoding itself is an external concern; the default implementation pipes
// frames out of an ffmpeg subprocess.
package video

import (
	"errors"
	"io"
)

// ErrCannotOpen indicates the video source could not be opened at all.
var ErrCannotOpen = errors.New("cannot open video")

// Frame is one decoded video frame as a JPEG image. Index is the zero-based
// position in the decoded stream.
type Frame struct {
	Index int
	JPEG  []byte
}

// Source yields the frames of one video in order. Next returns io.EOF when
// the stream is exhausted.
type Source interface {
	Next() (*Frame, error)
	Close() error
}

// Opener opens a video file and returns its frame source.
type Opener func(path string) (Source, error)

// SliceSource serves pre-decoded frames from memory. Used by tests and by
// the mock provider wiring.
type SliceSource struct {
	frames [][]byte
	pos    int
}

// NewSliceSource wraps raw frame payloads in a Source.
func NewSliceSource(frames [][]byte) *SliceSource {
	return &SliceSource{frames: frames}
}

func (s *SliceSource) Next() (*Frame, error) {
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := &Frame{Index: s.pos, JPEG: s.frames[s.pos]}
	s.pos++
	return f, nil
}

func (s *SliceSource) Close() error { return nil }
