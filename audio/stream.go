package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Frame is one fixed-duration chunk of mono PCM. Immutable once produced.
type Frame struct {
	Samples []int16
	Time    time.Time
	RMS     float64 // root mean square of normalized samples, 0..1
}

// DB converts the frame energy to dBFS, floored at -120 for digital silence.
func (f Frame) DB() float64 {
	if f.RMS <= 0 {
		return -120
	}
	return 20 * math.Log10(f.RMS)
}

func frameFromBytes(data []byte, ts time.Time) Frame {
	samples := make([]int16, len(data)/2)
	var sumSquares float64
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = s
		normalized := float64(s) / 32768.0
		sumSquares += normalized * normalized
	}
	rms := 0.0
	if len(samples) > 0 {
		rms = math.Sqrt(sumSquares / float64(len(samples)))
	}
	return Frame{Samples: samples, Time: ts, RMS: rms}
}

// streamBuffer bounds the frames a slow consumer can fall behind by. At
// 64 ms frames this is ~4 s of audio.
const streamBuffer = 64

// Stream turns a CaptureDevice's data callback into a pull-based frame
// sequence. Frames arrive in strict capture order; an overflowing buffer is
// a reportable fault (DeviceError from Next), never a silent drop.
type Stream struct {
	dev     CaptureDevice
	frames  chan Frame
	dropped atomic.Uint64

	stopOnce sync.Once
	stopped  chan struct{}
}

// Record attaches to the device and starts capturing. The caller owns the
// device; Stop detaches without closing it, so one device serves many
// sessions.
func Record(dev CaptureDevice) (*Stream, error) {
	s := &Stream{
		dev:     dev,
		frames:  make(chan Frame, streamBuffer),
		stopped: make(chan struct{}),
	}
	dev.SetCallback(s.onData)
	if err := dev.Start(); err != nil {
		dev.ClearCallback()
		return nil, &DeviceError{Op: "start", Err: err}
	}
	return s, nil
}

func (s *Stream) onData(data []byte, _ uint32) {
	if len(data) < 2 {
		return
	}
	frame := frameFromBytes(data, time.Now())
	select {
	case s.frames <- frame:
	default:
		s.dropped.Add(1)
	}
}

// Next blocks until the next frame is available. It fails with a DeviceError
// if any frame was dropped since the last call, and with ctx.Err() on
// cancellation.
func (s *Stream) Next(ctx context.Context) (Frame, error) {
	if n := s.dropped.Load(); n > 0 {
		return Frame{}, &DeviceError{Op: "capture", Err: fmt.Errorf("%d frames dropped", n)}
	}
	select {
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	case frame, ok := <-s.frames:
		if !ok {
			return Frame{}, &DeviceError{Op: "capture", Err: fmt.Errorf("stream closed")}
		}
		return frame, nil
	}
}

// Dropped reports frames lost to buffer overflow.
func (s *Stream) Dropped() uint64 { return s.dropped.Load() }

// Stop halts capture and detaches from the device. Idempotent.
func (s *Stream) Stop() {
	s.stopOnce.Do(func() {
		s.dev.Stop()
		s.dev.ClearCallback()
		close(s.stopped)
	})
}
