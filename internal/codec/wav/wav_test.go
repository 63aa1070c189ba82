package wav

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture describes a synthetic WAV file for tests.
type fixture struct {
	codec      uint16
	channels   uint16
	rate       uint32
	bits       uint16
	extraChunk []byte // raw chunk (tag+len+payload) inserted before data
	data       []byte
}

func writeFixture(t *testing.T, fx fixture) string {
	t.Helper()

	var buf bytes.Buffer
	byteRate := fx.rate * uint32(fx.channels) * uint32(fx.bits) / 8
	blockAlign := fx.channels * fx.bits / 8

	body := 36 + len(fx.extraChunk) + len(fx.data)
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(body))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, fx.codec)
	binary.Write(&buf, binary.LittleEndian, fx.channels)
	binary.Write(&buf, binary.LittleEndian, fx.rate)
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, fx.bits)

	buf.Write(fx.extraChunk)

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(fx.data)))
	buf.Write(fx.data)

	path := filepath.Join(t.TempDir(), "test.wav")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func openFixture(t *testing.T, fx fixture) (*Reader, *os.File) {
	t.Helper()
	f, err := os.Open(writeFixture(t, fx))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	r, err := NewReader(f)
	require.NoError(t, err)
	return r, f
}

func stereo44k(data []byte) fixture {
	return fixture{codec: 1, channels: 2, rate: 44100, bits: 16, data: data}
}

func TestReaderRoundTrip(t *testing.T) {
	// Two seconds of 44.1kHz stereo 16-bit audio.
	data := make([]byte, 44100*2*2*2)
	for i := range data {
		data[i] = byte(i)
	}
	r, _ := openFixture(t, stereo44k(data))

	assert.Equal(t, 44100, r.Rate())
	assert.Equal(t, 2, r.Channels())
	assert.Equal(t, 2, r.Duration())
	assert.Equal(t, int64(44), r.DataOffset())
	assert.Equal(t, int64(len(data)), r.DataSize())

	// The whole data window must come back, chunk by chunk, unchanged.
	var got []byte
	buf := make([]byte, 8192)
	for {
		n, err := r.ReadChunk(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}
	assert.Equal(t, data, got)
	assert.Equal(t, 1.0, r.Progress())
}

func TestReaderRejectsUnsupported(t *testing.T) {
	tests := []struct {
		name string
		fx   fixture
	}{
		{"non-PCM codec", fixture{codec: 85, channels: 2, rate: 44100, bits: 16, data: []byte{0, 0}}},
		{"8-bit depth", fixture{codec: 1, channels: 2, rate: 44100, bits: 8, data: []byte{0, 0}}},
		{"24-bit depth", fixture{codec: 1, channels: 2, rate: 44100, bits: 24, data: []byte{0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := os.Open(writeFixture(t, tt.fx))
			require.NoError(t, err)
			defer f.Close()
			_, err = NewReader(f)
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
		})
	}
}

func TestReaderRejectsMalformed(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		raw  []byte
	}{
		{"truncated", []byte("RIFF")},
		{"wrong magic", bytes.Repeat([]byte("JUNKJUNK"), 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			require.NoError(t, os.WriteFile(path, tt.raw, 0o644))
			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()
			_, err = NewReader(f)
			assert.ErrorIs(t, err, ErrMalformedFile)
		})
	}
}

func TestReaderScansPastExtraChunks(t *testing.T) {
	// A LIST chunk sits between fmt and data; the reader must walk to
	// the real data chunk instead of trusting offset 36.
	list := []byte("LIST")
	list = append(list, 4, 0, 0, 0) // length 4
	list = append(list, 'I', 'N', 'F', 'O')

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	fx := stereo44k(data)
	fx.extraChunk = list
	r, _ := openFixture(t, fx)

	assert.Equal(t, int64(44+len(list)), r.DataOffset())
	assert.Equal(t, int64(len(data)), r.DataSize())

	buf := make([]byte, 16)
	n, err := r.ReadChunk(buf)
	require.NoError(t, err)
	assert.Equal(t, data, buf[:n])
}

func TestReaderMissingDataChunk(t *testing.T) {
	fx := stereo44k(nil)
	path := writeFixture(t, fx)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// Corrupt the data tag so the scan runs off the end of the file.
	copy(raw[36:40], "junk")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = NewReader(f)
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestReaderSeekSeconds(t *testing.T) {
	// One second of audio at 44.1kHz stereo: 176400 bytes.
	data := make([]byte, 44100*2*2)
	r, f := openFixture(t, stereo44k(data))

	require.NoError(t, r.SeekSeconds(0))
	pos, _ := f.Seek(0, io.SeekCurrent)
	assert.Equal(t, r.DataOffset(), pos)

	// Past the end clamps to the data window boundary.
	require.NoError(t, r.SeekSeconds(10))
	pos, _ = f.Seek(0, io.SeekCurrent)
	assert.Equal(t, r.DataOffset()+r.DataSize(), pos)

	_, err := r.ReadChunk(make([]byte, 4))
	assert.ErrorIs(t, err, io.EOF)
}
