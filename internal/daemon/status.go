package daemon

import (
	"encoding/json"

	"github.com/pageramp/pagerampd/internal/track"
)

// Status is a point-in-time snapshot of the session, serialized as one
// JSON line on the status FIFO. The field names are the wire protocol;
// existing consumers parse them.
type Status struct {
	State    string `json:"state"`
	File     string `json:"file"`
	Position int    `json:"pos"`
	Duration int    `json:"dur"`
	Volume   int    `json:"vol"`
	Track    int    `json:"track"` // 1-based
	Total    int    `json:"total"`
	Rate     int    `json:"rate"`
}

// Snapshot derives the current status. Nothing is cached; every call
// recomputes from live session state.
func (d *Daemon) Snapshot() Status {
	st := Status{
		State:  d.state.String(),
		Volume: d.vol.Level(),
		Track:  d.playlist.Index() + 1,
		Total:  d.playlist.Len(),
		Rate:   track.DefaultRate,
	}
	if d.track != nil {
		st.File = d.track.Name()
		st.Position = d.track.Position()
		st.Duration = d.track.Duration()
		st.Rate = d.track.Rate()
	}
	return st
}

// emitStatus performs one best-effort status write.
func (d *Daemon) emitStatus() {
	if d.status == nil {
		return
	}
	b, err := json.Marshal(d.Snapshot())
	if err != nil {
		return
	}
	d.status.WriteLine(b)
}
