package transcriber

import (
	"context"
	"sync"
)

type Fake struct {
	Text    string
	Err     error
	LoadErr error

	mu      sync.Mutex
	calls   int
	lastPCM []int16
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Load(_ context.Context) error { return f.LoadErr }

func (f *Fake) Transcribe(_ context.Context, pcm []int16) (Result, error) {
	f.mu.Lock()
	f.calls++
	f.lastPCM = append([]int16(nil), pcm...)
	f.mu.Unlock()
	if f.Err != nil {
		return Result{}, f.Err
	}
	return Result{Text: f.Text, NoSpeech: f.Text == ""}, nil
}

func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Fake) LastPCM() []int16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPCM
}
