package recorder

import (
	"time"

	"github.com/beee003/vox-cli/audio"
	"github.com/beee003/vox-cli/encoder"
)

type State int32

const (
	Idle State = iota
	Recording
	Finalizing
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Finalizing:
		return "finalizing"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// session owns the frame buffer for one recording. Frames are appended in
// arrival order and the buffer is never shared outside the state machine.
type session struct {
	frames   []audio.Frame
	start    time.Time
	deadline time.Time
}

func newSession(maxDuration time.Duration) *session {
	now := time.Now()
	return &session{
		start:    now,
		deadline: now.Add(maxDuration),
	}
}

func (s *session) append(f audio.Frame) {
	s.frames = append(s.frames, f)
}

// samples concatenates all frames into one contiguous buffer, preserving
// arrival order.
func (s *session) samples() []int16 {
	total := 0
	for _, f := range s.frames {
		total += len(f.Samples)
	}
	out := make([]int16, 0, total)
	for _, f := range s.frames {
		out = append(out, f.Samples...)
	}
	return out
}

func (s *session) duration() time.Duration {
	total := 0
	for _, f := range s.frames {
		total += len(f.Samples)
	}
	return time.Duration(total) * time.Second / encoder.SampleRate
}

func (s *session) deadlineReached(t time.Time) bool {
	return !t.Before(s.deadline)
}
