// Package beep plays short audible cues so the user knows the recorder state
// without looking at a terminal: a high tick when recording starts, a lower
// one when it stops, and a low double beep on errors. Playback failures are
// silent; a missing speaker must never break dictation.
package beep

var disabled bool

// Disable turns all cues off for the rest of the process.
func Disable() { disabled = true }

const (
	sampleRate = 44100

	startFreq   = 1200
	startVolume = 0.5
	startDecay  = 60

	stopFreq   = 900
	stopVolume = 0.5
	stopDecay  = 40

	errorFreq   = 350
	errorVolume = 0.6
	errorDecay  = 30
)
