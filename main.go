// vox is a push-to-talk speech-to-text tool for developers: hold a key,
// speak, release, and the cleaned transcript lands on your clipboard, your
// stdout, or straight into the focused window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beee003/vox-cli/audio"
	"github.com/beee003/vox-cli/beep"
	"github.com/beee003/vox-cli/cleaner"
	"github.com/beee003/vox-cli/config"
	"github.com/beee003/vox-cli/hotkey"
	"github.com/beee003/vox-cli/log"
	"github.com/beee003/vox-cli/output"
	"github.com/beee003/vox-cli/recorder"
	"github.com/beee003/vox-cli/transcriber"
)

var version = "dev"

func usage() {
	fmt.Fprintf(os.Stderr, `vox %s - push-to-talk speech to text

Usage: vox <command> [flags]

Commands:
  say         record one utterance and deliver the transcript
  listen      run the push-to-talk daemon (hold the key to record)
  devices     list audio input devices
  transcribe  transcribe WAV files, or watch a directory for them
  mcp         expose recording as an MCP server over stdio
  version     print the version

Run 'vox <command> -h' for command flags.
Config file: %s
`, version, config.Path())
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var cmdErr error
	switch cmd {
	case "say":
		cmdErr = cmdSay(cfg, args)
	case "listen":
		cmdErr = cmdListen(cfg, args)
	case "devices":
		cmdErr = cmdDevices(cfg, args)
	case "transcribe":
		cmdErr = cmdTranscribe(cfg, args)
	case "mcp":
		cmdErr = cmdMCP(cfg, args)
	case "version", "-version", "--version":
		fmt.Printf("vox %s\n", version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if cmdErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cmdErr)
		os.Exit(1)
	}
}

// addCommonFlags binds the flags every recording command shares. Defaults
// come from the config file, so flags always win.
func addCommonFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.Model, "model", cfg.Model, "whisper model size: tiny, base, small, medium")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output target: clipboard, stdout, paste")
	fs.StringVar(&cfg.Device, "device", cfg.Device, "capture device name (see 'vox devices')")
	fs.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "whisper server URL")
	fs.StringVar(&cfg.Language, "lang", cfg.Language, "language hint (e.g. en, de), empty = auto")
	fs.BoolVar(&cfg.NoClean, "no-clean", cfg.NoClean, "deliver the raw transcript unmodified")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "diagnostic logging")
}

func addRecordingFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "max recording length")
	fs.DurationVar(&cfg.SilenceWindow, "silence", cfg.SilenceWindow, "sustained silence that stops a recording")
	fs.Float64Var(&cfg.SilenceFloorDB, "silence-floor", cfg.SilenceFloorDB, "silence threshold in dBFS")
}

func cleaners(cfg config.Config) []func(string) string {
	if cfg.NoClean {
		return nil
	}
	return []func(string) string{cleaner.Clean, cleaner.TransformCasing}
}

func recorderConfig(cfg config.Config) recorder.Config {
	return recorder.Config{
		MaxDuration:   cfg.Duration,
		SilenceWindow: cfg.SilenceWindow,
		SilenceFloor:  cfg.SilenceFloorDB,
	}
}

// newTranscriber builds the whisper client and verifies the server is up.
func newTranscriber(ctx context.Context, cfg config.Config) (transcriber.Transcriber, error) {
	trans := transcriber.NewWhisper(cfg.Endpoint, cfg.Model, cfg.Language)
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := trans.Load(loadCtx); err != nil {
		return nil, err
	}
	return trans, nil
}

func openCapture(cfg config.Config) (audio.Context, audio.CaptureDevice, error) {
	actx, err := audio.NewContext()
	if err != nil {
		return nil, nil, fmt.Errorf("audio init: %w", err)
	}
	devInfo, err := audio.FindDevice(actx, cfg.Device)
	if err != nil {
		actx.Close()
		return nil, nil, err
	}
	dev, err := actx.NewCapture(devInfo, audio.DefaultCaptureConfig())
	if err != nil {
		actx.Close()
		return nil, nil, fmt.Errorf("opening capture device: %w", err)
	}
	return actx, dev, nil
}

func cmdSay(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("say", flag.ExitOnError)
	addCommonFlags(fs, &cfg)
	addRecordingFlags(fs, &cfg)
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

	actx, dev, err := openCapture(cfg)
	if err != nil {
		return err
	}
	defer actx.Close()
	defer dev.Close()

	sink := output.New(target)
	var lastAudio time.Duration
	hooks := recorder.Hooks{
		OnStart: func(device string) {
			fmt.Fprintf(os.Stderr, "recording on %s (stops after %s of silence, %s max)\n",
				device, cfg.SilenceWindow, cfg.Duration)
		},
		OnStop: func(reason recorder.StopReason, audioLen time.Duration) {
			lastAudio = audioLen
			fmt.Fprintf(os.Stderr, "stopped (%s), transcribing %.1fs...\n", reason, audioLen.Seconds())
		},
		OnText: func(text string) {
			log.Session(lastAudio.Seconds(), len(text), string(target))
			if target != output.Stdout {
				fmt.Fprintf(os.Stderr, "%s\n", text)
			}
		},
		OnNoSpeech: func() {
			fmt.Fprintln(os.Stderr, "no speech detected")
		},
	}

	m := recorder.New(dev, trans, sink, cleaners(cfg), recorderConfig(cfg), hooks)
	err = m.RecordOnce(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func cmdListen(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("listen", flag.ExitOnError)
	addCommonFlags(fs, &cfg)
	addRecordingFlags(fs, &cfg)
	fs.StringVar(&cfg.Key, "key", cfg.Key, "push-to-talk key (see 'vox listen -h' output for names)")
	useTUI := fs.Bool("tui", false, "show the terminal UI")
	noBeep := fs.Bool("no-beep", false, "disable audible recording cues")
	fs.Parse(args)

	log.Init(cfg.Verbose)
	if err := cfg.Validate(); err != nil {
		return err
	}
	target, err := output.ParseTarget(cfg.Output)
	if err != nil {
		return err
	}
	if *noBeep {
		beep.Disable()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trans, err := newTranscriber(ctx, cfg)
	if err != nil {
		return err
	}

	actx, dev, err := openCapture(cfg)
	if err != nil {
		return err
	}
	defer actx.Close()
	defer dev.Close()

	raw, err := hotkey.New(cfg.Key)
	if err != nil {
		return err
	}
	hk := hotkey.Debounce(raw, config.DebounceInterval)
	if err := hk.Register(); err != nil {
		var perm *hotkey.PermissionError
		if errors.As(err, &perm) {
			return fmt.Errorf("%v\nhint: %s", perm.Err, perm.Hint)
		}
		return err
	}
	defer hk.Unregister()

	go beep.Init()
	if *useTUI {
		startTUI(cfg.Key, dev.DeviceName())
		defer stopTUI()
	} else {
		fmt.Fprintf(os.Stderr, "listening: hold %s to record, output goes to %s (ctrl+c to quit)\n",
			cfg.Key, target)
	}

	var lastAudio time.Duration
	hooks := recorder.Hooks{
		OnStart: func(device string) {
			log.Info("recording started on " + device)
			beep.Start()
			tuiSend(recStartMsg{})
		},
		OnLevel: func(db float64) {
			tuiSend(levelMsg{db: db})
		},
		OnStop: func(reason recorder.StopReason, audioLen time.Duration) {
			lastAudio = audioLen
			log.Infof("recording stopped: %s, %.1fs", reason, audioLen.Seconds())
			beep.Stop()
			tuiSend(recStopMsg{})
		},
		OnText: func(text string) {
			log.Session(lastAudio.Seconds(), len(text), string(target))
			tuiSend(textMsg{text: text})
			if !*useTUI {
				fmt.Fprintf(os.Stderr, "> %s\n", text)
			}
		},
		OnNoSpeech: func() {
			log.Info("no speech detected")
			tuiSend(noSpeechMsg{})
			if !*useTUI {
				fmt.Fprintln(os.Stderr, "(no speech detected)")
			}
		},
		OnError: func(err error) {
			log.Errorf("session error: %v", err)
			beep.Error()
			tuiSend(errMsg{err: err})
			if !*useTUI {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
		},
	}

	m := recorder.New(dev, trans, output.New(target), cleaners(cfg), recorderConfig(cfg), hooks)
	err = m.Listen(ctx, hk)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func cmdDevices(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("devices", flag.ExitOnError)
	pick := fs.Bool("pick", false, "interactively pick a device and print its name")
	fs.Parse(args)

	actx, err := audio.NewContext()
	if err != nil {
		return fmt.Errorf("audio init: %w", err)
	}
	defer actx.Close()

	if *pick {
		dev, err := pickDevice(actx)
		if err != nil {
			return err
		}
		fmt.Println(dev.Name)
		return nil
	}

	devices, err := actx.Devices()
	if err != nil {
		return fmt.Errorf("enumerating devices: %w", err)
	}
	if len(devices) == 0 {
		return fmt.Errorf("no capture devices found")
	}
	for _, d := range devices {
		marker := " "
		if cfg.Device != "" && d.Name == cfg.Device {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, d.Name)
	}
	return nil
}
