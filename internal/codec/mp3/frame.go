// Package mp3 pulls PCM out of MP3 bitstreams one frame at a time.
//
// The package splits the work in two: frame boundaries and metadata
// come from header parsing here, while the compressed audio itself is
// synthesized by an external decoder behind the FrameDecoder
// interface.
package mp3

// Layer III bitrate tables, kbps. Index 0 is "free" and 15 invalid;
// both are rejected so the scanner skips such headers.
var (
	bitrateV1 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	bitrateV2 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
)

// MPEG1 sample rates; halved for MPEG2, quartered for MPEG2.5.
var sampleRates = [4]int{44100, 48000, 32000, 0}

// frameHeader is one decoded 4-byte Layer III frame header.
type frameHeader struct {
	mpeg1       bool
	bitrateKbps int
	sampleRate  int
	channels    int
	frameBytes  int
	samples     int // per channel
}

// parseFrameHeader decodes the header starting at b[0]. ok is false
// when b does not hold a valid Layer III sync pattern.
func parseFrameHeader(b []byte) (frameHeader, bool) {
	if len(b) < 4 {
		return frameHeader{}, false
	}
	if b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return frameHeader{}, false
	}

	version := (b[1] >> 3) & 0x3 // 0=2.5, 1=reserved, 2=MPEG2, 3=MPEG1
	layer := (b[1] >> 1) & 0x3   // 1=Layer III
	if version == 1 || layer != 1 {
		return frameHeader{}, false
	}

	srIdx := (b[2] >> 2) & 0x3
	if srIdx == 3 {
		return frameHeader{}, false
	}

	var h frameHeader
	h.mpeg1 = version == 3
	h.sampleRate = sampleRates[srIdx]
	switch version {
	case 2:
		h.sampleRate /= 2
	case 0:
		h.sampleRate /= 4
	}

	brIdx := (b[2] >> 4) & 0xF
	if h.mpeg1 {
		h.bitrateKbps = bitrateV1[brIdx]
		h.samples = 1152
	} else {
		h.bitrateKbps = bitrateV2[brIdx]
		h.samples = 576
	}
	if h.bitrateKbps == 0 {
		return frameHeader{}, false
	}

	if b[3]>>6 == 3 {
		h.channels = 1
	} else {
		h.channels = 2
	}

	padding := int((b[2] >> 1) & 1)
	h.frameBytes = h.samples/8*h.bitrateKbps*1000/h.sampleRate + padding
	return h, true
}

// findFrame scans b for the next valid frame header and returns its
// offset. ok is false when no header starts within b.
func findFrame(b []byte) (off int, h frameHeader, ok bool) {
	for i := 0; i+4 <= len(b); i++ {
		if h, ok := parseFrameHeader(b[i:]); ok {
			return i, h, true
		}
	}
	return 0, frameHeader{}, false
}

// id3v2Size returns the total length of an ID3v2 tag starting at b[0],
// or 0 if b does not start with one. The size field is syncsafe.
func id3v2Size(b []byte) int {
	if len(b) < 10 || b[0] != 'I' || b[1] != 'D' || b[2] != '3' {
		return 0
	}
	size := int(b[6]&0x7F)<<21 | int(b[7]&0x7F)<<14 | int(b[8]&0x7F)<<7 | int(b[9]&0x7F)
	return 10 + size
}
