package fifo

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempFIFO(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.fifo")
	require.NoError(t, Ensure(path))
	return path
}

// pollUntil polls up to n times, returning the first non-empty batch.
func pollUntil(r *Reader, n int) []string {
	for range n {
		if lines := r.Poll(); lines != nil {
			return lines
		}
	}
	return nil
}

func TestEnsure(t *testing.T) {
	path := tempFIFO(t)
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, fi.Mode()&os.ModeNamedPipe)

	// Idempotent on an existing FIFO.
	assert.NoError(t, Ensure(path))

	// Refuses to adopt a regular file.
	regular := filepath.Join(t.TempDir(), "regular")
	require.NoError(t, os.WriteFile(regular, nil, 0o644))
	assert.Error(t, Ensure(regular))
}

func TestReaderLines(t *testing.T) {
	path := tempFIFO(t)
	r := OpenReader(path)
	defer r.Close()

	// Nothing written yet: quiet, not an error.
	assert.Nil(t, r.Poll())

	w, err := os.OpenFile(path, os.O_WRONLY|syscall.O_NONBLOCK, 0)
	require.NoError(t, err)
	defer w.Close()

	// One complete line plus a partial one.
	_, err = w.WriteString("PLAY /music/a.mp3\nVOL")
	require.NoError(t, err)
	assert.Equal(t, []string{"PLAY /music/a.mp3"}, pollUntil(r, 4))

	// The partial line completes across writes.
	_, err = w.WriteString(" 42\n\n  \n")
	require.NoError(t, err)
	assert.Equal(t, []string{"VOL 42"}, pollUntil(r, 4))
}

func TestReaderSurvivesWriterDeparture(t *testing.T) {
	path := tempFIFO(t)
	r := OpenReader(path)
	defer r.Close()

	w, err := os.OpenFile(path, os.O_WRONLY|syscall.O_NONBLOCK, 0)
	require.NoError(t, err)
	_, err = w.WriteString("STOP\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"STOP"}, pollUntil(r, 4))
	require.NoError(t, w.Close())

	// Departed writer: polls stay quiet while the FIFO reopens.
	for range 4 {
		r.Poll()
	}

	// A fresh writer is picked up without restarting the reader.
	w2, err := os.OpenFile(path, os.O_WRONLY|syscall.O_NONBLOCK, 0)
	require.NoError(t, err)
	defer w2.Close()
	_, err = w2.WriteString("TOGGLE\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"TOGGLE"}, pollUntil(r, 4))
}

func TestReaderTruncatesOverlongLine(t *testing.T) {
	path := tempFIFO(t)
	r := OpenReader(path)
	defer r.Close()

	w, err := os.OpenFile(path, os.O_WRONLY|syscall.O_NONBLOCK, 0)
	require.NoError(t, err)
	defer w.Close()

	long := strings.Repeat("A", MaxLineLen+100)
	_, err = w.WriteString(long + "\nNEXT\n")
	require.NoError(t, err)

	var lines []string
	for range 8 {
		lines = append(lines, r.Poll()...)
		if len(lines) >= 2 {
			break
		}
	}
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Repeat("A", MaxLineLen), lines[0])
	assert.Equal(t, "NEXT", lines[1])
}

func TestWriterSkipsWithoutReader(t *testing.T) {
	w := NewWriter(tempFIFO(t))
	// Nobody listening: a silent no-op.
	w.WriteLine([]byte(`{"state":"stopped"}`))
}

func TestWriterDeliversToReader(t *testing.T) {
	path := tempFIFO(t)
	f, err := os.OpenFile(path, os.O_RDONLY|syscall.O_NONBLOCK, 0)
	require.NoError(t, err)
	defer f.Close()

	NewWriter(path).WriteLine([]byte(`{"vol":80}`))

	buf := make([]byte, 128)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "{\"vol\":80}\n", string(buf[:n]))
}

func TestSend(t *testing.T) {
	path := tempFIFO(t)

	// No reader attached: the control client must fail loudly.
	assert.Error(t, Send(path, "PLAY x"))

	f, err := os.OpenFile(path, os.O_RDONLY|syscall.O_NONBLOCK, 0)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, Send(path, "PLAY x"))
	buf := make([]byte, 64)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "PLAY x\n", string(buf[:n]))
}
