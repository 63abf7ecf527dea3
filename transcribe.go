package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/beee003/vox-cli/audio"
	"github.com/beee003/vox-cli/config"
	"github.com/beee003/vox-cli/encoder"
	"github.com/beee003/vox-cli/log"
	"github.com/beee003/vox-cli/output"
	"github.com/beee003/vox-cli/transcriber"
)

func cmdTranscribe(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("transcribe", flag.ExitOnError)
	addCommonFlags(fs, &cfg)
	watchDir := fs.String("watch", "", "watch a directory and transcribe WAV files as they appear")
	fs.Parse(args)

	log.Init(cfg.Verbose)
	if err := cfg.Validate(); err != nil {
		return err
	}
	target, err := output.ParseTarget(cfg.Output)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trans, err := newTranscriber(ctx, cfg)
	if err != nil {
		return err
	}
	sink := output.New(target)

	if *watchDir != "" {
		return watchAndTranscribe(ctx, *watchDir, trans, sink, cfg)
	}

	files := fs.Args()
	if len(files) == 0 {
		return fmt.Errorf("usage: vox transcribe [flags] <file.wav ...> | -watch <dir>")
	}
	for _, path := range files {
		if err := transcribeFile(ctx, path, trans, sink, cfg); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func transcribeFile(ctx context.Context, path string, trans transcriber.Transcriber, sink *output.Dispatcher, cfg config.Config) error {
	pcm, rate, err := audio.ReadWAVFile(path)
	if err != nil {
		return err
	}
	if rate != encoder.SampleRate {
		log.Debugf("resampling %s from %d Hz", path, rate)
		pcm = audio.Resample(pcm, rate, encoder.SampleRate)
	}

	res, err := trans.Transcribe(ctx, pcm)
	if err != nil {
		return err
	}
	if res.NoSpeech {
		fmt.Fprintf(os.Stderr, "%s: no speech detected\n", path)
		return nil
	}

	text := res.Text
	for _, clean := range cleaners(cfg) {
		text = clean(text)
	}
	if err := sink.Deliver(text); err != nil {
		return err
	}
	log.Session(float64(len(pcm))/encoder.SampleRate, len(text), cfg.Output)
	return nil
}

// watchAndTranscribe transcribes every WAV file created under dir until ctx
// is cancelled. Temp files are skipped and new files get a settle delay so
// half-written recordings are not picked up.
func watchAndTranscribe(ctx context.Context, dir string, trans transcriber.Transcriber, sink *output.Dispatcher, cfg config.Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher init: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	fmt.Fprintf(os.Stderr, "watching %s for WAV files (ctrl+c to quit)\n", dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".tmp") {
				continue
			}
			if !strings.EqualFold(filepath.Ext(name), ".wav") {
				continue
			}
			if err := waitForSettle(ctx, event.Name); err != nil {
				log.Warnf("skipping %s: %v", name, err)
				continue
			}
			if err := transcribeFile(ctx, event.Name, trans, sink, cfg); err != nil {
				log.Errorf("transcribing %s: %v", name, err)
				fmt.Fprintf(os.Stderr, "error: %s: %v\n", name, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watcher error: %v", err)
		}
	}
}

// waitForSettle returns once the file's size has been stable for one poll
// interval, meaning the writer is probably done.
func waitForSettle(ctx context.Context, path string) error {
	var lastSize int64 = -1
	for i := 0; i < 50; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() > 0 && info.Size() == lastSize {
			return nil
		}
		lastSize = info.Size()
	}
	return fmt.Errorf("file did not settle")
}
