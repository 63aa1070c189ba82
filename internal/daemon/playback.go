package daemon

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/pageramp/pagerampd/internal/track"
)

// restartThreshold is how far into a track PREV restarts it instead of
// stepping back an entry.
const restartThreshold = 3 // seconds

// playIndex opens the playlist entry at i and enters Playing. On open
// failure the current track and state are left as they were.
func (d *Daemon) playIndex(i int) error {
	path := d.playlist.Path(i)
	if path == "" {
		return fmt.Errorf("playlist index %d out of range", i)
	}
	d.playlist.Jump(i)

	t, err := track.Open(path, d.trackConfig())
	if err != nil {
		log.Error("cannot open track", "path", path, "err", err)
		return err
	}
	d.closeTrack()
	d.track = t
	d.state = Playing
	log.Info("playing", "file", t.Name(), "track", i+1, "of", d.playlist.Len())
	return nil
}

// advance moves to the next playable entry; unplayable ones are
// skipped, and running off the end stops playback. The walk is bounded
// by the playlist length, so a list of nothing but bad entries still
// terminates in Stopped.
func (d *Daemon) advance() {
	for d.playlist.Next() {
		if d.playIndex(d.playlist.Index()) == nil {
			return
		}
	}
	d.stop()
}

// retreat restarts the current track when more than a few seconds in,
// otherwise steps back one entry.
func (d *Daemon) retreat() {
	if d.playlist.Len() == 0 {
		return
	}
	if d.track != nil && d.track.Position() > restartThreshold {
		d.playIndex(d.playlist.Index()) //nolint:errcheck
		return
	}
	d.playlist.Prev()
	d.playIndex(d.playlist.Index()) //nolint:errcheck
}

// stop enters Stopped and clears the whole track context.
func (d *Daemon) stop() {
	d.state = Stopped
	d.closeTrack()
}

func (d *Daemon) closeTrack() {
	if d.track != nil {
		d.track.Close()
		d.track = nil
	}
}

func (d *Daemon) trackConfig() track.Config {
	return track.Config{
		BufSize:    d.cfg.ReadBufKB * 1024,
		MaxBufSize: d.cfg.MaxBufKB * 1024,
		NewDecoder: d.newDecoder,
	}
}
