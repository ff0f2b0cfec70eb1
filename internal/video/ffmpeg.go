package video

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// jpegSOI/jpegEOI are the JPEG start/end-of-image markers used to split
// the MJPEG stream ffmpeg writes to stdout.
var (
	jpegSOI = []byte{0xFF, 0xD8}
	jpegEOI = []byte{0xFF, 0xD9}
)

// NewFFmpegOpener returns an Opener that decodes videos by spawning the
// given ffmpeg binary and reading an MJPEG stream from its stdout. Each
// decoded frame arrives as one complete JPEG image.
func NewFFmpegOpener(bin string) Opener {
	if bin == "" {
		bin = "ffmpeg"
	}
	return func(path string) (Source, error) {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrCannotOpen, path)
		}

		cmd := exec.Command(bin,
			"-hide_banner", "-loglevel", "error",
			"-i", path,
			"-f", "image2pipe",
			"-vcodec", "mjpeg",
			"-q:v", "2",
			"-",
		)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCannotOpen, err)
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("%w: start %s: %v", ErrCannotOpen, bin, err)
		}

		return &ffmpegSource{
			cmd:    cmd,
			reader: bufio.NewReaderSize(stdout, 1<<20),
		}, nil
	}
}

type ffmpegSource struct {
	cmd    *exec.Cmd
	reader *bufio.Reader
	index  int
}

func (s *ffmpegSource) Next() (*Frame, error) {
	img, err := readJPEG(s.reader)
	if err != nil {
		return nil, err
	}
	f := &Frame{Index: s.index, JPEG: img}
	s.index++
	return f, nil
}

func (s *ffmpegSource) Close() error {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	// Reap the child; the error is expected after a kill.
	_ = s.cmd.Wait()
	return nil
}

// readJPEG scans r for the next complete SOI..EOI image.
func readJPEG(r *bufio.Reader) ([]byte, error) {
	// Seek the start-of-image marker, discarding any leading junk. The
	// byte after 0xFF may itself be 0xFF (fill bytes), so it is re-checked
	// as a marker prefix instead of being consumed outright.
	b, err := r.ReadByte()
	if err != nil {
		return nil, io.EOF
	}
	for {
		if b != 0xFF {
			if b, err = r.ReadByte(); err != nil {
				return nil, io.EOF
			}
			continue
		}
		nxt, err := r.ReadByte()
		if err != nil {
			return nil, io.EOF
		}
		if nxt == 0xD8 {
			break
		}
		b = nxt
	}

	buf := bytes.NewBuffer(nil)
	buf.Write(jpegSOI)

	prev := byte(0)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, io.ErrUnexpectedEOF
		}
		buf.WriteByte(b)
		if prev == 0xFF && b == 0xD9 {
			return buf.Bytes(), nil
		}
		prev = b
	}
}
