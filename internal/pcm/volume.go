package pcm

const (
	volShift = 15
	// VolMax is Q15 unity gain: a factor of 32768 leaves samples untouched.
	VolMax = 1 << volShift
)

// Volume maps a 0-100 level onto a Q15 fixed-point gain factor.
type Volume struct {
	level  int
	factor int32
}

// NewVolume returns a Volume set to the given level.
func NewVolume(level int) *Volume {
	v := &Volume{}
	v.Set(level)
	return v
}

// Set clamps level into [0,100] and derives the Q15 factor.
func (v *Volume) Set(level int) {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	v.level = level
	v.factor = int32(level * VolMax / 100)
}

// Level returns the clamped 0-100 level.
func (v *Volume) Level() int { return v.level }

// Factor returns the Q15 gain factor.
func (v *Volume) Factor() int32 { return v.factor }

// Apply scales samples in place. Unity gain is a no-op.
func (v *Volume) Apply(samples []int16) {
	if v.factor >= VolMax {
		return
	}
	f := v.factor
	for i, s := range samples {
		samples[i] = int16(int32(s) * f >> volShift)
	}
}
