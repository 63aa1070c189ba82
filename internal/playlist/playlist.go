// Package playlist keeps the ordered track list and its cursor.
package playlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// MaxTracks bounds the playlist; additions beyond it are dropped, not
// errors, matching the daemon's best-effort command handling.
const MaxTracks = 256

// Playlist is an ordered list of track paths with a current index. The
// index stays in [0,len) whenever the list is non-empty.
type Playlist struct {
	tracks []string
	index  int
}

// New returns an empty playlist.
func New() *Playlist { return &Playlist{} }

// Load replaces the playlist with the contents of an m3u-style file:
// one path per line, blank lines and #-comments skipped, capped at
// MaxTracks. The index resets to zero. Returns the new length.
func (p *Playlist) Load(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open playlist: %w", err)
	}
	defer f.Close()

	var tracks []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(tracks) >= MaxTracks {
			break
		}
		tracks = append(tracks, line)
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("read playlist: %w", err)
	}
	p.tracks, p.index = tracks, 0
	return len(tracks), nil
}

// Set replaces the playlist wholesale and resets the index.
func (p *Playlist) Set(paths ...string) {
	if len(paths) > MaxTracks {
		paths = paths[:MaxTracks]
	}
	p.tracks = append(p.tracks[:0:0], paths...)
	p.index = 0
}

// Add appends one track. Silently ignored at capacity.
func (p *Playlist) Add(path string) {
	if len(p.tracks) >= MaxTracks {
		return
	}
	p.tracks = append(p.tracks, path)
}

// Len returns the number of tracks.
func (p *Playlist) Len() int { return len(p.tracks) }

// Index returns the current cursor position.
func (p *Playlist) Index() int { return p.index }

// Path returns the track at i, or "" when out of bounds.
func (p *Playlist) Path(i int) string {
	if i < 0 || i >= len(p.tracks) {
		return ""
	}
	return p.tracks[i]
}

// Jump moves the cursor to i, reporting whether i was in bounds.
func (p *Playlist) Jump(i int) bool {
	if i < 0 || i >= len(p.tracks) {
		return false
	}
	p.index = i
	return true
}

// Next advances the cursor, reporting false at the end of the list.
func (p *Playlist) Next() bool {
	if p.index+1 >= len(p.tracks) {
		return false
	}
	p.index++
	return true
}

// Prev moves the cursor back one entry, pinned at zero.
func (p *Playlist) Prev() {
	if p.index > 0 {
		p.index--
	}
}

// Clear empties the playlist.
func (p *Playlist) Clear() {
	p.tracks, p.index = nil, 0
}
