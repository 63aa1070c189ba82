// Package track owns the playback context of one open media file:
// decode progress, position/duration estimates, and format state.
package track

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pageramp/pagerampd/internal/codec/mp3"
	"github.com/pageramp/pagerampd/internal/codec/wav"
	"github.com/pageramp/pagerampd/internal/pcm"
)

const (
	// DefaultRate and DefaultChannels are assumed until the format
	// reports otherwise.
	DefaultRate     = 44100
	DefaultChannels = 2

	// wavChunkSize bounds one WAV decode unit.
	wavChunkSize = 8192

	// fallbackKbps seeds the MP3 duration estimate before the first
	// decoded frame reports a real bitrate.
	fallbackKbps = 128
)

// Config carries per-track decode settings.
type Config struct {
	// BufSize and MaxBufSize size the MP3 bitstream buffer; zero means
	// the codec defaults.
	BufSize    int
	MaxBufSize int
	// NewDecoder builds the MP3 frame decoder. Nil means the go-mp3
	// backed production decoder; tests substitute stubs.
	NewDecoder func() mp3.FrameDecoder
}

// Track is the active playback context for one open file. Closing it
// resets every field in one place; a partially reset context is the
// bug class this layout avoids.
type Track struct {
	f    *os.File
	path string
	size int64

	rate     int
	channels int
	duration int // seconds, exact for WAV, estimated for MP3
	position int // seconds

	wav *wav.Reader
	mp3 *mp3.Reader
	dec mp3.FrameDecoder

	bytesDecoded int64
	framesOut    int64

	chunk   []byte  // WAV read scratch
	samples []int16 // WAV sample scratch
}

// Open opens path and prepares the matching format reader. WAV is
// detected by extension; everything else is treated as MP3.
func Open(path string, cfg Config) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat track: %w", err)
	}

	t := &Track{
		f:        f,
		path:     path,
		size:     fi.Size(),
		rate:     DefaultRate,
		channels: DefaultChannels,
	}

	if isWAV(path) {
		r, err := wav.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		t.wav = r
		t.rate = r.Rate()
		t.channels = r.Channels()
		t.duration = r.Duration()
		t.chunk = make([]byte, wavChunkSize)
		t.samples = make([]int16, wavChunkSize/2)
		log.Info("opened WAV", "file", t.Name(), "rate", t.rate, "channels", t.channels, "dur", t.duration)
	} else {
		newDec := cfg.NewDecoder
		if newDec == nil {
			newDec = func() mp3.FrameDecoder { return mp3.NewDecoder() }
		}
		t.dec = newDec()
		t.mp3 = mp3.NewReader(f, t.dec, cfg.BufSize, cfg.MaxBufSize)
		// Rough guess until the first frame reports a bitrate.
		if t.size > 0 {
			t.duration = int(t.size * 8 / (fallbackKbps * 1000))
		}
		log.Debug("opened MP3", "file", t.Name(), "size", t.size, "estDur", t.duration)
	}
	return t, nil
}

func isWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// NextUnit decodes and emits exactly one unit: a WAV chunk or an MP3
// frame. done reports end of stream.
func (t *Track) NextUnit(w *pcm.Writer) (done bool, err error) {
	if t.f == nil {
		return true, nil
	}
	if t.wav != nil {
		return t.nextWAVChunk(w)
	}
	return t.nextMP3Frame(w)
}

func (t *Track) nextWAVChunk(w *pcm.Writer) (bool, error) {
	n, err := t.wav.ReadChunk(t.chunk)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	// Whole sample frames only; a trailing partial frame is dropped.
	usable := n - n%(2*t.channels)
	smp := t.samples[:usable/2]
	for i := range smp {
		smp[i] = int16(binary.LittleEndian.Uint16(t.chunk[i*2:]))
	}
	out, err := w.WriteFrames(smp, t.channels, t.rate)
	if err != nil {
		return false, err
	}
	t.framesOut += int64(out)
	t.position = int(t.wav.Progress() * float64(t.duration))
	return false, nil
}

func (t *Track) nextMP3Frame(w *pcm.Writer) (bool, error) {
	f, err := t.mp3.NextFrame()
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	t.bytesDecoded += int64(f.BytesConsumed)
	if len(f.PCM) == 0 {
		return false, nil
	}

	// First frame at a non-default rate: adopt the real format and
	// redo the duration estimate from the reported bitrate.
	if t.rate == DefaultRate && f.SampleRate > 0 && f.SampleRate != DefaultRate {
		t.rate = f.SampleRate
		t.channels = f.Channels
		if f.BitrateKbps > 0 && t.size > 0 {
			t.duration = int(t.size * 8 / int64(f.BitrateKbps*1000))
		}
		log.Info("MP3 format", "file", t.Name(), "rate", t.rate, "channels", t.channels, "kbps", f.BitrateKbps)
	}

	out, err := w.WriteFrames(f.PCM, f.Channels, f.SampleRate)
	if err != nil {
		return false, err
	}
	t.framesOut += int64(out)

	// Position is a byte-offset ratio, not frame-accurate.
	if t.duration > 0 && t.size > 0 {
		t.position = int(float64(t.bytesDecoded) / float64(t.size) * float64(t.duration))
	}
	return false, nil
}

// Seek repositions playback to target seconds, clamped into
// [0,duration] when the duration is known. WAV seeks land on the exact
// byte offset; MP3 seeks estimate one from the file-size ratio and
// reset the decoder to resync from there.
func (t *Track) Seek(target int) {
	if t.f == nil || t.size <= 0 {
		return
	}
	if target < 0 {
		target = 0
	}
	if t.duration > 0 && target > t.duration {
		target = t.duration
	}

	if t.wav != nil {
		if err := t.wav.SeekSeconds(target); err != nil {
			log.Error("seek failed", "file", t.Name(), "err", err)
			return
		}
	} else {
		if t.duration <= 0 {
			return
		}
		off := int64(float64(target) / float64(t.duration) * float64(t.size))
		if off >= t.size {
			off = t.size - 1
		}
		if _, err := t.f.Seek(off, io.SeekStart); err != nil {
			log.Error("seek failed", "file", t.Name(), "err", err)
			return
		}
		t.mp3.Discard() // buffer cursors cleared, decoder resynced
		t.bytesDecoded = off
	}

	t.position = target
	t.framesOut = 0
	log.Debug("seek", "file", t.Name(), "pos", target)
}

// Close releases the file and zeroes the whole context together.
func (t *Track) Close() {
	if t.f != nil {
		t.f.Close()
		t.f = nil
	}
	if t.dec != nil {
		t.dec.Close()
		t.dec = nil
	}
	t.wav, t.mp3 = nil, nil
	t.path = ""
	t.size = 0
	t.duration, t.position = 0, 0
	t.bytesDecoded, t.framesOut = 0, 0
	t.rate, t.channels = DefaultRate, DefaultChannels
	t.chunk, t.samples = nil, nil
}

// Path returns the full path of the open file, or "".
func (t *Track) Path() string { return t.path }

// Name returns the basename of the open file, or "".
func (t *Track) Name() string {
	if t.path == "" {
		return ""
	}
	return filepath.Base(t.path)
}

// Position returns the current position estimate in seconds.
func (t *Track) Position() int { return t.position }

// Duration returns the known or estimated duration in seconds.
func (t *Track) Duration() int { return t.duration }

// Rate returns the detected sample rate.
func (t *Track) Rate() int { return t.rate }

// Channels returns the detected channel count.
func (t *Track) Channels() int { return t.channels }

// FramesWritten returns output sample frames since open or last seek.
func (t *Track) FramesWritten() int64 { return t.framesOut }
