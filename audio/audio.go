// Package audio captures microphone input as fixed-size mono PCM frames.
// Platform backends (PulseAudio on linux, miniaudio elsewhere) implement
// Context and CaptureDevice; Stream adapts the device data callback into an
// ordered frame sequence for the recording state machine.
package audio

import (
	"fmt"

	"github.com/beee003/vox-cli/encoder"
)

// FrameSamples is the nominal frame size: 1024 samples = 64 ms at 16 kHz.
const FrameSamples = 1024

type DataCallback func(data []byte, frameCount uint32)

type CaptureConfig struct {
	SampleRate uint32
	Channels   uint32
}

func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{SampleRate: encoder.SampleRate, Channels: encoder.Channels}
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error)
	Close()
}

type CaptureDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb DataCallback)
	ClearCallback()
	DeviceName() string
}

// DeviceError is any capture hardware failure: device missing, disconnected
// mid-stream, or frames dropped between the callback and the buffer. Fatal
// to the current session, never retried.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("audio device %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// FindDevice resolves a device by name, nil for the system default.
func FindDevice(ctx Context, name string) (*DeviceInfo, error) {
	if name == "" {
		return nil, nil
	}
	devices, err := ctx.Devices()
	if err != nil {
		return nil, &DeviceError{Op: "enumerate", Err: err}
	}
	for i := range devices {
		if devices[i].Name == name {
			return &devices[i], nil
		}
	}
	return nil, &DeviceError{Op: "lookup", Err: fmt.Errorf("no capture device named %q", name)}
}
