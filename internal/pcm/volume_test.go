package pcm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolumeClamp(t *testing.T) {
	tests := []struct {
		name       string
		level      int
		wantLevel  int
		wantFactor int32
	}{
		{"zero", 0, 0, 0},
		{"negative clamps to zero", -17, 0, 0},
		{"half", 50, 50, 50 * VolMax / 100},
		{"default", 80, 80, 80 * VolMax / 100},
		{"full", 100, 100, VolMax},
		{"over clamps to full", 250, 100, VolMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVolume(tt.level)
			assert.Equal(t, tt.wantLevel, v.Level())
			assert.Equal(t, tt.wantFactor, v.Factor())
		})
	}
}

func TestVolumeFactorInvariant(t *testing.T) {
	v := NewVolume(0)
	for level := -50; level <= 150; level++ {
		v.Set(level)
		assert.GreaterOrEqual(t, v.Level(), 0)
		assert.LessOrEqual(t, v.Level(), 100)
		assert.Equal(t, int32(v.Level()*VolMax/100), v.Factor())
	}
}

func TestVolumeApply(t *testing.T) {
	samples := []int16{0, 100, -100, 32767, -32768}

	half := NewVolume(50)
	got := append([]int16(nil), samples...)
	half.Apply(got)
	for i, s := range samples {
		want := int16(int32(s) * half.Factor() >> 15)
		assert.Equal(t, want, got[i], "sample %d", i)
	}

	mute := NewVolume(0)
	got = append([]int16(nil), samples...)
	mute.Apply(got)
	assert.Equal(t, []int16{0, 0, 0, 0, 0}, got)
}

func TestVolumeApplyUnityIsNoop(t *testing.T) {
	samples := []int16{1, -1, 32767, -32768, 12345}
	want := append([]int16(nil), samples...)
	NewVolume(100).Apply(samples)
	assert.Equal(t, want, samples)
}
