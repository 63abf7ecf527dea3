package audio

import (
	"fmt"
	"io"
	"os"

	wav "github.com/youpy/go-wav"
)

// ReadWAVFile decodes a PCM WAV file to mono int16 samples. Multi-channel
// input is downmixed by averaging. Returns the samples and the file's native
// sample rate; resampling is the caller's concern.
func ReadWAVFile(path string) ([]int16, uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, 0, fmt.Errorf("read wav header: %w", err)
	}
	channels := int(format.NumChannels)
	if channels < 1 {
		return nil, 0, fmt.Errorf("wav: invalid channel count %d", channels)
	}

	var pcm []int16
	for {
		samples, err := r.ReadSamples()
		for _, s := range samples {
			sum := 0
			for ch := 0; ch < channels; ch++ {
				sum += r.IntValue(s, uint(ch))
			}
			v := sum / channels
			if v > 32767 {
				v = 32767
			} else if v < -32768 {
				v = -32768
			}
			pcm = append(pcm, int16(v))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read wav samples: %w", err)
		}
	}
	return pcm, format.SampleRate, nil
}

// Resample converts pcm between sample rates by linear interpolation. Good
// enough for speech headed into a transcription model.
func Resample(pcm []int16, from, to uint32) []int16 {
	if from == to || from == 0 || len(pcm) == 0 {
		return pcm
	}
	n := int(int64(len(pcm)) * int64(to) / int64(from))
	out := make([]int16, n)
	ratio := float64(from) / float64(to)
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(pcm)-1 {
			out[i] = pcm[len(pcm)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = int16(float64(pcm[j])*(1-frac) + float64(pcm[j+1])*frac)
	}
	return out
}
