// Package log is a thin zerolog wrapper. Everything goes to stderr so that
// stdout stays clean for the stdout output target and the MCP transport.
package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.Mutex
	logger zerolog.Logger
	ready  bool
)

func Init(verbose bool) {
	mu.Lock()
	defer mu.Unlock()

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}
	logger = zerolog.New(console).Level(level).With().Timestamp().Logger()
	ready = true
}

func Debugf(format string, args ...any) {
	if ready {
		logger.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

func Info(msg string) {
	if ready {
		logger.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if ready {
		logger.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Warnf(format string, args ...any) {
	if ready {
		logger.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Errorf(format string, args ...any) {
	if ready {
		logger.Error().Msg(fmt.Sprintf(format, args...))
	}
}

// Session logs one completed utterance: how long the audio was and where the
// text went.
func Session(audioS float64, chars int, target string) {
	if !ready {
		return
	}
	logger.Info().
		Float64("audio_s", audioS).
		Int("chars", chars).
		Str("target", target).
		Msg("transcription")
}
