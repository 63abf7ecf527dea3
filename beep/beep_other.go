//go:build !linux

package beep

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

var (
	malgoCtx     *malgo.AllocatedContext
	device       *malgo.Device
	startSamples []byte
	stopSamples  []byte
	errorSamples []byte
	soundOnce    sync.Once

	playing sync.Mutex
	playBuf atomic.Pointer[[]byte]
	playPos atomic.Uint32
)

func initDevice() error {
	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.SampleRate = sampleRate

	var err error
	device, err = malgo.InitDevice(malgoCtx.Context, config, malgo.DeviceCallbacks{Data: dataCallback})
	return err
}

func initSound() {
	var err error
	malgoCtx, err = malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return
	}

	startSamples = tickBytes(startFreq, 0.03, startVolume, startDecay)
	stopSamples = tickBytes(stopFreq, 0.05, stopVolume, stopDecay)
	errorSamples = doubleBeepBytes(errorFreq, 0.08, 0.05, errorVolume, errorDecay)

	if err := initDevice(); err != nil {
		malgoCtx.Uninit()
		malgoCtx = nil
	}
}

func dataCallback(pOutput, _ []byte, frameCount uint32) {
	buf := playBuf.Load()
	if buf == nil || len(*buf) == 0 {
		for i := range pOutput {
			pOutput[i] = 0
		}
		return
	}

	pos := playPos.Load()
	remaining := uint32(len(*buf)) - pos
	if remaining == 0 {
		playBuf.Store(nil)
		for i := range pOutput {
			pOutput[i] = 0
		}
		return
	}

	n := frameCount * 2
	if n > remaining {
		n = remaining
	}
	copy(pOutput[:n], (*buf)[pos:pos+n])
	playPos.Store(pos + n)
	for i := n; i < frameCount*2; i++ {
		pOutput[i] = 0
	}
}

func tickBytes(freq, duration, volume, decay float64) []byte {
	n := int(sampleRate * duration)
	buf := make([]byte, n*2)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		envelope := math.Exp(-t * decay)
		s := int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}

func doubleBeepBytes(freq, beepDur, gapDur, volume, decay float64) []byte {
	one := tickBytes(freq, beepDur, volume, decay)
	gap := make([]byte, int(sampleRate*gapDur)*2)
	out := make([]byte, 0, len(one)*2+len(gap))
	out = append(out, one...)
	out = append(out, gap...)
	out = append(out, one...)
	return out
}

func play(samples []byte) {
	if malgoCtx == nil || len(samples) == 0 {
		return
	}

	playing.Lock()
	defer playing.Unlock()
	if device == nil {
		return
	}

	device.Stop()
	playPos.Store(0)
	playBuf.Store(&samples)

	if err := device.Start(); err != nil {
		// recreate once, the device handle goes stale across sleep/wake
		device.Uninit()
		if err := initDevice(); err != nil {
			playBuf.Store(nil)
			return
		}
		if err := device.Start(); err != nil {
			playBuf.Store(nil)
		}
	}
}

func Init() {
	soundOnce.Do(initSound)
}

func Start() {
	if disabled {
		return
	}
	soundOnce.Do(initSound)
	play(startSamples)
}

func Stop() {
	if disabled {
		return
	}
	soundOnce.Do(initSound)
	play(stopSamples)
}

func Error() {
	if disabled {
		return
	}
	soundOnce.Do(initSound)
	play(errorSamples)
}
