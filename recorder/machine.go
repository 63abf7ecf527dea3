// Package recorder holds the recording state machine: a single control loop
// that owns the session buffer, samples stop triggers on frame boundaries,
// and drives capture through transcription to delivery.
package recorder

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/beee003/vox-cli/audio"
	"github.com/beee003/vox-cli/encoder"
	"github.com/beee003/vox-cli/hotkey"
	"github.com/beee003/vox-cli/transcriber"
)

type StopReason int

const (
	StopHotkey StopReason = iota
	StopSilence
	StopDeadline
)

func (r StopReason) String() string {
	switch r {
	case StopHotkey:
		return "hotkey release"
	case StopSilence:
		return "sustained silence"
	case StopDeadline:
		return "max duration"
	}
	return "unknown"
}

// Sink receives the final text exactly once per successful session.
type Sink interface {
	Deliver(text string) error
}

// Hooks observe session progress. All fields are optional and are called
// from the state machine goroutine, never concurrently.
type Hooks struct {
	OnStart    func(device string)
	OnLevel    func(db float64)
	OnStop     func(reason StopReason, audioLen time.Duration)
	OnText     func(text string)
	OnNoSpeech func()
	OnError    func(err error)
}

type Config struct {
	MaxDuration   time.Duration
	SilenceWindow time.Duration
	SilenceFloor  float64 // dBFS below which a frame counts as silent
}

// frameDuration is the nominal time one capture frame represents.
const frameDuration = time.Duration(audio.FrameSamples) * time.Second / encoder.SampleRate

// sessions shorter than this are treated as an accidental tap: nothing is
// transcribed and nothing is delivered
const minSessionSamples = encoder.SampleRate / 10

type Machine struct {
	dev      audio.CaptureDevice
	trans    transcriber.Transcriber
	sink     Sink
	cleaners []func(string) string
	cfg      Config
	hooks    Hooks
	state    atomic.Int32
}

// New wires the pipeline. cleaners run in order over the raw transcript
// before delivery; pass none to deliver the raw text.
func New(dev audio.CaptureDevice, trans transcriber.Transcriber, sink Sink, cleaners []func(string) string, cfg Config, hooks Hooks) *Machine {
	return &Machine{
		dev:      dev,
		trans:    trans,
		sink:     sink,
		cleaners: cleaners,
		cfg:      cfg,
		hooks:    hooks,
	}
}

func (m *Machine) State() State { return State(m.state.Load()) }

func (m *Machine) setState(s State) { m.state.Store(int32(s)) }

// RecordOnce runs a single session without a hotkey: recording stops on
// sustained silence, the max duration, or ctx cancellation.
func (m *Machine) RecordOnce(ctx context.Context) error {
	return m.runSession(ctx, nil)
}

// Listen runs the push-to-talk daemon loop until ctx is cancelled. A press
// while a session is active is a no-op; edges queued during a session are
// discarded before the next one starts.
func (m *Machine) Listen(ctx context.Context, hk hotkey.Hotkey) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-hk.Keydown():
		}
		drain(hk.Keyup())
		m.runSession(ctx, hk.Keyup())
		drain(hk.Keydown())

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func drain(ch <-chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// runSession owns the whole session lifecycle. Stop triggers are sampled
// once per frame, in fixed priority: hotkey release, then sustained
// silence, then the recording deadline.
func (m *Machine) runSession(ctx context.Context, release <-chan struct{}) error {
	m.setState(Recording)
	defer m.setState(Idle)

	stream, err := audio.Record(m.dev)
	if err != nil {
		m.setState(Aborted)
		m.fail(err)
		return err
	}
	defer stream.Stop()

	sess := newSession(m.cfg.MaxDuration)
	det := NewSilenceDetector(m.cfg.SilenceWindow, m.cfg.SilenceFloor, frameDuration)

	if m.hooks.OnStart != nil {
		m.hooks.OnStart(m.dev.DeviceName())
	}

	var reason StopReason
recording:
	for {
		frame, err := stream.Next(ctx)
		if err != nil {
			m.setState(Aborted)
			m.fail(err)
			return err
		}
		sess.append(frame)
		if m.hooks.OnLevel != nil {
			m.hooks.OnLevel(frame.DB())
		}

		select {
		case <-release:
			reason = StopHotkey
			break recording
		default:
		}
		if det.Observe(frame.DB()) {
			reason = StopSilence
			break recording
		}
		if sess.deadlineReached(frame.Time) {
			reason = StopDeadline
			break recording
		}
	}

	stream.Stop()
	m.setState(Finalizing)
	if m.hooks.OnStop != nil {
		m.hooks.OnStop(reason, sess.duration())
	}

	return m.finalize(ctx, sess)
}

func (m *Machine) finalize(ctx context.Context, sess *session) error {
	samples := sess.samples()
	if len(samples) < minSessionSamples {
		m.noSpeech()
		return nil
	}
	normalizePeak(samples)

	res, err := m.trans.Transcribe(ctx, samples)
	if err != nil {
		m.setState(Aborted)
		m.fail(err)
		return err
	}
	if res.NoSpeech {
		m.noSpeech()
		return nil
	}

	text := res.Text
	for _, clean := range m.cleaners {
		text = clean(text)
	}
	if strings.TrimSpace(text) == "" {
		m.noSpeech()
		return nil
	}

	if err := m.sink.Deliver(text); err != nil {
		m.fail(err)
		return err
	}
	if m.hooks.OnText != nil {
		m.hooks.OnText(text)
	}
	return nil
}

func (m *Machine) fail(err error) {
	if m.hooks.OnError != nil {
		m.hooks.OnError(err)
	}
}

func (m *Machine) noSpeech() {
	if m.hooks.OnNoSpeech != nil {
		m.hooks.OnNoSpeech()
	}
}

// normalizePeak scales the buffer so its loudest sample hits full scale,
// compensating for quiet microphones before transcription.
func normalizePeak(samples []int16) {
	peak := 0
	for _, s := range samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 || peak >= 32767 {
		return
	}
	gain := 32767.0 / float64(peak)
	for i, s := range samples {
		samples[i] = int16(float64(s) * gain)
	}
}
