package encoder

import (
	"math"
	"testing"
)

func sine(n int, freq float64) []int16 {
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / SampleRate
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 12000)
	}
	return samples
}

func TestFlacEncoder(t *testing.T) {
	samples := sine(SampleRate, 440) // 1s tone

	enc, err := NewFlac()
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}

	var totalFed uint64
	for i := 0; i < len(samples); i += BlockSize {
		end := min(i+BlockSize, len(samples))
		if err := enc.EncodeBlock(samples[i:end]); err != nil {
			t.Fatalf("EncodeBlock at offset %d: %v", i, err)
		}
		totalFed += uint64(end - i)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if enc.TotalFrames() != totalFed {
		t.Errorf("TotalFrames = %d, want %d", enc.TotalFrames(), totalFed)
	}

	data := enc.Bytes()
	if len(data) < 4 || string(data[:4]) != "fLaC" {
		t.Fatal("output does not start with FLAC magic")
	}
}

func TestFlacEncoderPartialBlock(t *testing.T) {
	enc, err := NewFlac()
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}
	partial := sine(BlockSize/4, 200)
	if err := enc.EncodeBlock(partial); err != nil {
		t.Fatalf("EncodeBlock partial: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if enc.TotalFrames() != uint64(len(partial)) {
		t.Errorf("TotalFrames = %d, want %d", enc.TotalFrames(), len(partial))
	}
}

func TestEncodePCM(t *testing.T) {
	data, err := EncodePCM(sine(BlockSize+100, 300))
	if err != nil {
		t.Fatalf("EncodePCM: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "fLaC" {
		t.Fatal("output does not start with FLAC magic")
	}
}

func TestEncodePCMEmpty(t *testing.T) {
	data, err := EncodePCM(nil)
	if err != nil {
		t.Fatalf("EncodePCM: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected at least the FLAC header")
	}
}
