package video

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceSource(t *testing.T) {
	src := NewSliceSource([][]byte{{0x01}, {0x02}})

	f, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, f.Index)
	assert.Equal(t, []byte{0x01}, f.JPEG)

	f, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, f.Index)

	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, src.Close())
}

// fakeJPEG builds a minimal SOI + payload + EOI image.
func fakeJPEG(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})
	buf.Write(payload)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

func TestReadJPEG_SplitsStream(t *testing.T) {
	var stream bytes.Buffer
	first := fakeJPEG([]byte{0x00, 0x11, 0x22})
	second := fakeJPEG([]byte{0x33, 0x44})
	stream.Write(first)
	stream.Write(second)

	r := bufio.NewReader(&stream)

	img, err := readJPEG(r)
	require.NoError(t, err)
	assert.Equal(t, first, img)

	img, err = readJPEG(r)
	require.NoError(t, err)
	assert.Equal(t, second, img)

	_, err = readJPEG(r)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadJPEG_SkipsLeadingJunk(t *testing.T) {
	var stream bytes.Buffer
	stream.Write([]byte{0x00, 0xAB, 0xFF, 0x00}) // noise before the SOI
	want := fakeJPEG([]byte{0x77})
	stream.Write(want)

	img, err := readJPEG(bufio.NewReader(&stream))
	require.NoError(t, err)
	assert.Equal(t, want, img)
}

func TestReadJPEG_FillBytesBeforeSOI(t *testing.T) {
	var stream bytes.Buffer
	stream.Write([]byte{0xFF, 0xFF, 0xFF}) // fill bytes running into the SOI
	want := fakeJPEG([]byte{0x5A})
	stream.Write(want)

	img, err := readJPEG(bufio.NewReader(&stream))
	require.NoError(t, err)
	assert.Equal(t, want, img)
}

func TestReadJPEG_TruncatedImage(t *testing.T) {
	stream := bytes.NewReader([]byte{0xFF, 0xD8, 0x01, 0x02}) // no EOI

	_, err := readJPEG(bufio.NewReader(stream))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestFFmpegOpener_MissingFile(t *testing.T) {
	open := NewFFmpegOpener("ffmpeg")

	_, err := open("testdata/does_not_exist.mp4")
	assert.ErrorIs(t, err, ErrCannotOpen)
}
