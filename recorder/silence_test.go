package recorder

import (
	"testing"
	"time"
)

func newTestDetector(windowFrames int) *SilenceDetector {
	return NewSilenceDetector(time.Duration(windowFrames)*frameDuration, -40, frameDuration)
}

func feedN(t *testing.T, d *SilenceDetector, db float64, n int) bool {
	t.Helper()
	fired := false
	for i := 0; i < n; i++ {
		if d.Observe(db) {
			if fired {
				t.Fatal("detector fired twice")
			}
			fired = true
		}
	}
	return fired
}

func TestSilenceFiresAfterWindow(t *testing.T) {
	d := newTestDetector(5)
	if feedN(t, d, -10, 3) {
		t.Fatal("fired on loud audio")
	}
	if !feedN(t, d, -80, 5) {
		t.Fatal("did not fire after a full window of silence")
	}
}

func TestSilenceNeverFiresEarly(t *testing.T) {
	d := newTestDetector(5)
	feedN(t, d, -10, 2)
	if feedN(t, d, -80, 4) {
		t.Fatal("fired before the window was complete")
	}
}

func TestSilenceLoudFrameResetsRun(t *testing.T) {
	d := newTestDetector(5)
	feedN(t, d, -10, 1)
	feedN(t, d, -80, 4)
	if d.Observe(-10) {
		t.Fatal("fired on a loud frame")
	}
	if feedN(t, d, -80, 4) {
		t.Fatal("run survived a loud frame")
	}
	if !feedN(t, d, -80, 1) {
		t.Fatal("did not fire after a fresh full window")
	}
}

func TestSilenceFiresAtMostOnce(t *testing.T) {
	d := newTestDetector(3)
	feedN(t, d, -10, 1)
	if !feedN(t, d, -80, 3) {
		t.Fatal("did not fire")
	}
	if feedN(t, d, -80, 50) {
		t.Fatal("fired again in the same session")
	}
}

func TestSilenceFromSessionStart(t *testing.T) {
	d := newTestDetector(3)
	if feedN(t, d, -80, 3) {
		t.Fatal("fired with no frame beyond the opening window")
	}
	if !feedN(t, d, -80, 1) {
		t.Fatal("did not fire once past the opening window")
	}
}

func TestSilenceReset(t *testing.T) {
	d := newTestDetector(3)
	feedN(t, d, -10, 1)
	feedN(t, d, -80, 3)
	d.Reset()
	feedN(t, d, -10, 1)
	if !feedN(t, d, -80, 3) {
		t.Fatal("did not fire after Reset")
	}
}

func TestSilenceBoundaryEnergy(t *testing.T) {
	d := newTestDetector(3)
	feedN(t, d, -10, 1)
	// exactly at the floor is not silent
	if feedN(t, d, -40, 10) {
		t.Fatal("fired at the energy floor")
	}
	if !feedN(t, d, -40.01, 3) {
		t.Fatal("did not fire just below the floor")
	}
}
