package recorder

import "time"

// SilenceDetector watches per-frame energy and signals sustained silence
// exactly once per session: when a contiguous run of silent frames covers
// the whole configured window. Frame-sequenced, not wall-clock based, so
// stop decisions always land on a frame boundary.
type SilenceDetector struct {
	windowFrames int
	floorDB      float64

	run   int
	total int
	fired bool
}

// NewSilenceDetector builds a detector for the given window and energy
// floor. frameDur is the duration one observed frame represents.
func NewSilenceDetector(window time.Duration, floorDB float64, frameDur time.Duration) *SilenceDetector {
	frames := int(window / frameDur)
	if frames < 1 {
		frames = 1
	}
	return &SilenceDetector{windowFrames: frames, floorDB: floorDB}
}

// Observe feeds one frame's energy in dBFS. Returns true on the single
// frame where sustained silence is established; false forever after.
func (d *SilenceDetector) Observe(db float64) bool {
	d.total++
	if db < d.floorDB {
		d.run++
	} else {
		d.run = 0
	}
	// the total check keeps a session that opens on pure silence from
	// stopping before the user had a chance to speak at all
	if !d.fired && d.run >= d.windowFrames && d.total > d.windowFrames {
		d.fired = true
		return true
	}
	return false
}

// Reset prepares the detector for a new session.
func (d *SilenceDetector) Reset() {
	d.run = 0
	d.total = 0
	d.fired = false
}
