package recorder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/beee003/vox-cli/audio"
	"github.com/beee003/vox-cli/hotkey"
	"github.com/beee003/vox-cli/transcriber"
)

type fakeSink struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (s *fakeSink) Deliver(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.texts = append(s.texts, text)
	return nil
}

func (s *fakeSink) delivered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

// loud fills a buffer with a strong alternating signal, around -12 dBFS.
func loud(n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = 8000
		} else {
			out[i] = -8000
		}
	}
	return out
}

func testConfig() Config {
	return Config{
		MaxDuration:   30 * time.Second,
		SilenceWindow: time.Hour,
		SilenceFloor:  -40,
	}
}

func fakeDevice(t *testing.T, pcm []int16, chunk int, silenceTail bool) audio.CaptureDevice {
	t.Helper()
	ctx := audio.NewFakeContext(pcm, chunk, false, silenceTail)
	dev, err := ctx.NewCapture(nil, audio.DefaultCaptureConfig())
	if err != nil {
		t.Fatal(err)
	}
	return dev
}

func pressedRelease() chan struct{} {
	ch := make(chan struct{}, 1)
	ch <- struct{}{}
	return ch
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestHotkeyReleaseDelivers(t *testing.T) {
	dev := fakeDevice(t, loud(2048), 2048, false)
	ft := &transcriber.Fake{Text: "hello world"}
	sink := &fakeSink{}
	var reason StopReason
	m := New(dev, ft, sink, nil, testConfig(), Hooks{
		OnStop: func(r StopReason, _ time.Duration) { reason = r },
	})

	if err := m.runSession(testCtx(t), pressedRelease()); err != nil {
		t.Fatal(err)
	}
	if got := sink.delivered(); len(got) != 1 || got[0] != "hello world" {
		t.Fatalf("delivered %v, want exactly [hello world]", got)
	}
	if ft.Calls() != 1 {
		t.Errorf("Transcribe called %d times, want 1", ft.Calls())
	}
	if reason != StopHotkey {
		t.Errorf("stop reason = %v, want %v", reason, StopHotkey)
	}
	if m.State() != Idle {
		t.Errorf("state = %v, want idle", m.State())
	}
}

func TestSilenceStopsRecording(t *testing.T) {
	pcm := append(loud(1024), make([]int16, 6*1024)...)
	dev := fakeDevice(t, pcm, 1024, false)
	ft := &transcriber.Fake{Text: "ok"}
	sink := &fakeSink{}
	cfg := testConfig()
	cfg.SilenceWindow = 5 * frameDuration
	var reason StopReason
	m := New(dev, ft, sink, nil, cfg, Hooks{
		OnStop: func(r StopReason, _ time.Duration) { reason = r },
	})

	if err := m.RecordOnce(testCtx(t)); err != nil {
		t.Fatal(err)
	}
	if reason != StopSilence {
		t.Errorf("stop reason = %v, want %v", reason, StopSilence)
	}
	if got := sink.delivered(); len(got) != 1 {
		t.Fatalf("delivered %v, want one delivery", got)
	}
}

func TestDeadlineStopsRecording(t *testing.T) {
	dev := fakeDevice(t, loud(40*1024), 1024, false)
	ft := &transcriber.Fake{Text: "ok"}
	sink := &fakeSink{}
	cfg := testConfig()
	cfg.MaxDuration = 5 * time.Millisecond
	var reason StopReason
	m := New(dev, ft, sink, nil, cfg, Hooks{
		OnStop: func(r StopReason, _ time.Duration) { reason = r },
	})

	if err := m.RecordOnce(testCtx(t)); err != nil {
		t.Fatal(err)
	}
	if reason != StopDeadline {
		t.Errorf("stop reason = %v, want %v", reason, StopDeadline)
	}
}

func TestTinySessionIsNoOp(t *testing.T) {
	dev := fakeDevice(t, loud(512), 512, false)
	ft := &transcriber.Fake{Text: "should not appear"}
	sink := &fakeSink{}
	noSpeech := false
	m := New(dev, ft, sink, nil, testConfig(), Hooks{
		OnNoSpeech: func() { noSpeech = true },
	})

	if err := m.runSession(testCtx(t), pressedRelease()); err != nil {
		t.Fatal(err)
	}
	if ft.Calls() != 0 {
		t.Errorf("Transcribe called %d times for a tap, want 0", ft.Calls())
	}
	if got := sink.delivered(); len(got) != 0 {
		t.Errorf("delivered %v for a tap", got)
	}
	if !noSpeech {
		t.Error("OnNoSpeech not called")
	}
}

func TestTranscriptionFailureAbortsToIdle(t *testing.T) {
	dev := fakeDevice(t, loud(2048), 2048, false)
	ft := &transcriber.Fake{Err: &transcriber.TranscriptionError{Backend: "fake", Err: errors.New("boom")}}
	sink := &fakeSink{}
	var gotErr error
	m := New(dev, ft, sink, nil, testConfig(), Hooks{
		OnError: func(err error) { gotErr = err },
	})

	err := m.runSession(testCtx(t), pressedRelease())
	var terr *transcriber.TranscriptionError
	if !errors.As(err, &terr) {
		t.Fatalf("got %v, want TranscriptionError", err)
	}
	if gotErr == nil {
		t.Error("OnError not called")
	}
	if got := sink.delivered(); len(got) != 0 {
		t.Errorf("delivered %v after transcription failure", got)
	}
	if m.State() != Idle {
		t.Errorf("state = %v, want idle", m.State())
	}
}

func TestNoSpeechSkipsDelivery(t *testing.T) {
	dev := fakeDevice(t, loud(2048), 2048, false)
	ft := &transcriber.Fake{Text: ""}
	sink := &fakeSink{}
	noSpeech := false
	m := New(dev, ft, sink, nil, testConfig(), Hooks{
		OnNoSpeech: func() { noSpeech = true },
	})

	if err := m.runSession(testCtx(t), pressedRelease()); err != nil {
		t.Fatal(err)
	}
	if !noSpeech {
		t.Error("OnNoSpeech not called")
	}
	if got := sink.delivered(); len(got) != 0 {
		t.Errorf("delivered %v for empty transcript", got)
	}
}

func TestCleanedToEmptySkipsDelivery(t *testing.T) {
	dev := fakeDevice(t, loud(2048), 2048, false)
	ft := &transcriber.Fake{Text: "um uh"}
	sink := &fakeSink{}
	cleaners := []func(string) string{func(string) string { return "  " }}
	m := New(dev, ft, sink, cleaners, testConfig(), Hooks{})

	if err := m.runSession(testCtx(t), pressedRelease()); err != nil {
		t.Fatal(err)
	}
	if got := sink.delivered(); len(got) != 0 {
		t.Errorf("delivered %v for cleaned-to-empty transcript", got)
	}
}

func TestCleanersRunInOrder(t *testing.T) {
	dev := fakeDevice(t, loud(2048), 2048, false)
	ft := &transcriber.Fake{Text: "raw"}
	sink := &fakeSink{}
	cleaners := []func(string) string{
		func(s string) string { return s + "|first" },
		func(s string) string { return s + "|second" },
	}
	m := New(dev, ft, sink, cleaners, testConfig(), Hooks{})

	if err := m.runSession(testCtx(t), pressedRelease()); err != nil {
		t.Fatal(err)
	}
	got := sink.delivered()
	if len(got) != 1 || got[0] != "raw|first|second" {
		t.Fatalf("delivered %v, want [raw|first|second]", got)
	}
}

func TestBufferPreservesFrameOrder(t *testing.T) {
	speech := loud(1024)
	speech[0] = 32767 // full-scale peak so normalization leaves the buffer untouched
	pcm := append(append([]int16(nil), speech...), make([]int16, 4*1024)...)

	dev := fakeDevice(t, pcm, 1024, false)
	ft := &transcriber.Fake{Text: "ok"}
	sink := &fakeSink{}
	cfg := testConfig()
	cfg.SilenceWindow = 3 * frameDuration
	m := New(dev, ft, sink, nil, cfg, Hooks{})

	if err := m.RecordOnce(testCtx(t)); err != nil {
		t.Fatal(err)
	}

	// silence fires on the 4th frame, so exactly 4 frames were buffered
	want := pcm[:4*1024]
	got := ft.LastPCM()
	if len(got) != len(want) {
		t.Fatalf("buffered %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDeviceStartFailure(t *testing.T) {
	dev := &audio.FakeCapture{StartErr: errors.New("device busy")}
	ft := &transcriber.Fake{Text: "x"}
	sink := &fakeSink{}
	var gotErr error
	m := New(dev, ft, sink, nil, testConfig(), Hooks{
		OnError: func(err error) { gotErr = err },
	})

	err := m.RecordOnce(testCtx(t))
	var derr *audio.DeviceError
	if !errors.As(err, &derr) {
		t.Fatalf("got %v, want DeviceError", err)
	}
	if gotErr == nil {
		t.Error("OnError not called")
	}
	if got := sink.delivered(); len(got) != 0 {
		t.Errorf("delivered %v after device failure", got)
	}
}

func TestListenPushToTalkLoop(t *testing.T) {
	hk := hotkey.NewFake()
	dev := fakeDevice(t, loud(8*1024), 1024, true)
	ft := &transcriber.Fake{Text: "hello"}
	sink := &fakeSink{}
	delivered := make(chan string, 1)
	m := New(dev, ft, sink, nil, testConfig(), Hooks{
		OnText: func(text string) { delivered <- text },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Listen(ctx, hk) }()

	hk.Press()
	time.Sleep(30 * time.Millisecond)
	hk.Press() // pressed mid-session: must not queue another recording
	hk.Release()

	select {
	case got := <-delivered:
		if got != "hello" {
			t.Errorf("delivered %q, want hello", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no delivery after release")
	}

	time.Sleep(30 * time.Millisecond)
	if ft.Calls() != 1 {
		t.Errorf("Transcribe called %d times, want 1", ft.Calls())
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Listen returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Listen did not stop on cancel")
	}
}

func TestNormalizePeak(t *testing.T) {
	samples := []int16{100, -200, 50}
	normalizePeak(samples)
	if samples[1] != -32767 {
		t.Errorf("peak sample = %d, want -32767", samples[1])
	}

	identity := []int16{32767, -100}
	normalizePeak(identity)
	if identity[0] != 32767 || identity[1] != -100 {
		t.Errorf("full-scale buffer changed: %v", identity)
	}

	zeros := []int16{0, 0}
	normalizePeak(zeros)
	if zeros[0] != 0 {
		t.Error("silence buffer changed")
	}
}
