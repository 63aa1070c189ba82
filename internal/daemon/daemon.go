// Package daemon ties the playback engine together: a single-threaded
// cooperative loop that polls commands, decodes one unit at a time,
// and reports status.
package daemon

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pageramp/pagerampd/internal/codec/mp3"
	"github.com/pageramp/pagerampd/internal/config"
	"github.com/pageramp/pagerampd/internal/fifo"
	"github.com/pageramp/pagerampd/internal/pcm"
	"github.com/pageramp/pagerampd/internal/playlist"
	"github.com/pageramp/pagerampd/internal/track"
)

// Daemon owns all playback state. Every field is touched only from
// the goroutine running Run; commands mutate state synchronously
// between decode units, so no locking is needed or wanted.
type Daemon struct {
	cfg config.Config

	state    State
	vol      *pcm.Volume
	out      *pcm.Writer
	track    *track.Track
	playlist *playlist.Playlist

	cmds   *fifo.Reader
	status *fifo.Writer

	// newDecoder overrides the MP3 frame decoder; tests use stubs.
	newDecoder func() mp3.FrameDecoder

	lastStatus time.Time
	quit       bool
}

// New builds a daemon emitting PCM to out (stdout in production).
func New(cfg config.Config, out io.Writer) *Daemon {
	vol := pcm.NewVolume(cfg.Volume)
	return &Daemon{
		cfg:      cfg,
		vol:      vol,
		out:      pcm.NewWriter(out, vol),
		playlist: playlist.New(),
	}
}

// Run executes the main loop until a QUIT command arrives or ctx is
// cancelled. Each iteration: dispatch pending commands, decode one
// unit when playing (or sleep briefly when not), and emit status on
// the configured interval.
func (d *Daemon) Run(ctx context.Context) error {
	if err := fifo.Ensure(d.cfg.CmdFIFO); err != nil {
		return err
	}
	if err := fifo.Ensure(d.cfg.StatusFIFO); err != nil {
		return err
	}
	d.cmds = fifo.OpenReader(d.cfg.CmdFIFO)
	d.status = fifo.NewWriter(d.cfg.StatusFIFO)
	defer d.shutdown()

	log.Info("daemon started",
		"pid", os.Getpid(), "cmd", d.cfg.CmdFIFO, "status", d.cfg.StatusFIFO)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down on signal")
			return nil
		default:
		}

		for _, line := range d.cmds.Poll() {
			d.Dispatch(line)
		}
		if d.quit {
			log.Info("shutting down on QUIT")
			return nil
		}

		if d.state == Playing && d.track != nil {
			d.step()
		} else {
			time.Sleep(d.cfg.IdleSleep())
		}

		if time.Since(d.lastStatus) >= d.cfg.StatusInterval() {
			d.emitStatus()
			d.lastStatus = time.Now()
		}
	}
}

// step decodes and emits exactly one unit, advancing the playlist at
// end of stream. A decode error counts as the end of that track.
func (d *Daemon) step() {
	done, err := d.track.NextUnit(d.out)
	if err != nil {
		log.Error("decode failed, skipping track", "file", d.track.Name(), "err", err)
		d.advance()
		return
	}
	if done {
		log.Debug("track finished",
			"file", d.track.Name(), "frames", d.track.FramesWritten())
		d.advance()
	}
}

func (d *Daemon) shutdown() {
	d.closeTrack()
	if d.cmds != nil {
		d.cmds.Close()
	}
	log.Info("daemon stopped")
}
