package daemon

// State is the playback state machine's position. It starts Stopped
// and never terminates; QUIT ends the loop, not the machine.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the wire name used in status records.
func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}
