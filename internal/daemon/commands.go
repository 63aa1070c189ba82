package daemon

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Dispatch parses and executes one command line. Keywords are
// case-sensitive; unknown input is logged and dropped.
func (d *Daemon) Dispatch(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	log.Debug("command", "line", line)

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "PLAY":
		if arg == "" {
			log.Warn("PLAY without a path")
			return
		}
		// Single-file play is a one-entry playlist.
		d.playlist.Set(arg)
		d.playIndex(0) //nolint:errcheck

	case "PAUSE":
		if d.state == Playing {
			d.state = Paused
		}

	case "RESUME":
		if d.state == Paused {
			d.state = Playing
		}

	case "TOGGLE":
		switch d.state {
		case Playing:
			d.state = Paused
		case Paused:
			d.state = Playing
		}

	case "STOP":
		d.stop()

	case "NEXT":
		d.advance()

	case "PREV":
		d.retreat()

	case "SEEK":
		n, rel, ok := parseOffset(arg)
		if !ok {
			log.Warn("bad SEEK argument", "arg", arg)
			return
		}
		if d.track == nil {
			return
		}
		target := n
		if rel {
			target = d.track.Position() + n
		}
		d.track.Seek(target)

	case "VOL":
		n, rel, ok := parseOffset(arg)
		if !ok {
			log.Warn("bad VOL argument", "arg", arg)
			return
		}
		if rel {
			n = d.vol.Level() + n
		}
		d.vol.Set(n)

	case "PLAYLIST":
		if arg == "" {
			log.Warn("PLAYLIST without a path")
			return
		}
		n, err := d.playlist.Load(arg)
		if err != nil {
			log.Error("playlist load failed", "path", arg, "err", err)
			return
		}
		log.Info("playlist loaded", "path", arg, "tracks", n)
		if n > 0 {
			d.playIndex(0) //nolint:errcheck
		}

	case "QUEUE":
		if arg != "" {
			d.playlist.Add(arg)
		}

	case "JUMP":
		i, err := strconv.Atoi(arg)
		if err != nil {
			log.Warn("bad JUMP argument", "arg", arg)
			return
		}
		d.playIndex(i) //nolint:errcheck

	case "STATUS":
		d.emitStatus()

	case "QUIT":
		d.quit = true

	default:
		log.Warn("unknown command", "line", line)
	}
}

// parseOffset parses "n", "+n" or "-n"; rel reports the signed forms.
func parseOffset(arg string) (n int, rel bool, ok bool) {
	if arg == "" {
		return 0, false, false
	}
	rel = arg[0] == '+' || arg[0] == '-'
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, false, false
	}
	return n, rel, true
}
