// Package transcriber turns a recorded PCM buffer into text through a
// local whisper.cpp style HTTP server.
package transcriber

import (
	"context"
	"fmt"
)

// ModelSizes are the accepted values for the model configuration option.
var ModelSizes = []string{"tiny", "base", "small", "medium"}

func ValidModel(name string) bool {
	for _, m := range ModelSizes {
		if m == name {
			return true
		}
	}
	return false
}

// Result is one finished transcription. NoSpeech is set instead of an error
// when the model heard nothing worth writing down.
type Result struct {
	Text     string
	NoSpeech bool
	Duration float64
}

type Transcriber interface {
	Name() string
	// Load verifies the backend is ready. Failures are fatal at startup.
	Load(ctx context.Context) error
	// Transcribe blocks until the whole buffer has been processed. The pcm
	// buffer is mono 16 kHz 16-bit samples in capture order.
	Transcribe(ctx context.Context, pcm []int16) (Result, error)
}

// TranscriptionError aborts the current session only; the daemon keeps
// running and nothing is delivered downstream.
type TranscriptionError struct {
	Backend string
	Err     error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("%s transcription failed: %v", e.Backend, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }
