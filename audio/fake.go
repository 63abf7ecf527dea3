package audio

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/beee003/vox-cli/encoder"
)

// FakeContext replays canned PCM as if it were a microphone. Used by tests
// and by the state machine tests in the recorder package.
type FakeContext struct {
	pcm         []int16
	chunk       int
	realtime    bool
	silenceTail bool
}

// NewFakeContext feeds pcm to the capture callback in chunks of chunk
// samples. With realtime set, chunks are paced at the actual audio rate;
// otherwise they arrive with minimal delay. With silenceTail set, all-zero
// chunks keep flowing after the canned audio is exhausted, mimicking an open
// microphone in a quiet room.
func NewFakeContext(pcm []int16, chunk int, realtime, silenceTail bool) *FakeContext {
	if chunk <= 0 {
		chunk = FrameSamples
	}
	return &FakeContext{pcm: pcm, chunk: chunk, realtime: realtime, silenceTail: silenceTail}
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake0", Name: "fake microphone"}}, nil
}

func (f *FakeContext) NewCapture(_ *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	return &FakeCapture{
		pcm:         f.pcm,
		chunk:       f.chunk,
		realtime:    f.realtime,
		silenceTail: f.silenceTail,
	}, nil
}

func (f *FakeContext) Close() {}

type FakeCapture struct {
	pcm         []int16
	chunk       int
	realtime    bool
	silenceTail bool

	StartErr error // returned from Start when set

	mu       sync.Mutex
	cb       DataCallback
	stopCh   chan struct{}
	feedDone chan struct{}
}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) DeviceName() string { return "fake microphone" }

func (f *FakeCapture) interval() time.Duration {
	if f.realtime {
		return time.Duration(f.chunk) * time.Second / encoder.SampleRate
	}
	return time.Millisecond
}

func (f *FakeCapture) emit(samples []int16) {
	f.mu.Lock()
	cb := f.cb
	f.mu.Unlock()
	if cb == nil {
		return
	}
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	cb(data, uint32(len(samples)))
}

func (f *FakeCapture) Start() error {
	if f.StartErr != nil {
		return f.StartErr
	}
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})

	go func() {
		defer close(f.feedDone)
		pos := 0
		silence := make([]int16, f.chunk)
		for {
			select {
			case <-f.stopCh:
				return
			case <-time.After(f.interval()):
			}

			if pos < len(f.pcm) {
				end := min(pos+f.chunk, len(f.pcm))
				f.emit(f.pcm[pos:end])
				pos = end
			} else if f.silenceTail {
				f.emit(silence)
			} else {
				return
			}
		}
	}()

	return nil
}

func (f *FakeCapture) Stop() {
	if f.stopCh == nil {
		return
	}
	select {
	case <-f.stopCh:
	default:
		close(f.stopCh)
	}
	<-f.feedDone
}

func (f *FakeCapture) Close() {}
