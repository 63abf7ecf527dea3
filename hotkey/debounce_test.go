package hotkey

import (
	"testing"
	"time"
)

func TestDebounceSwallowsShortTap(t *testing.T) {
	fake := NewFake()
	d := Debounce(fake, 50*time.Millisecond)
	if err := d.Register(); err != nil {
		t.Fatal(err)
	}
	defer d.Unregister()

	fake.Press()
	time.Sleep(10 * time.Millisecond)
	fake.Release()

	select {
	case <-d.Keydown():
		t.Fatal("short tap produced a keydown")
	case <-time.After(150 * time.Millisecond):
	}
	select {
	case <-d.Keyup():
		t.Fatal("short tap produced a keyup")
	default:
	}
}

func TestDebounceForwardsHold(t *testing.T) {
	fake := NewFake()
	d := Debounce(fake, 20*time.Millisecond)
	if err := d.Register(); err != nil {
		t.Fatal(err)
	}
	defer d.Unregister()

	fake.Press()
	select {
	case <-d.Keydown():
	case <-time.After(time.Second):
		t.Fatal("hold never produced a keydown")
	}

	fake.Release()
	select {
	case <-d.Keyup():
	case <-time.After(time.Second):
		t.Fatal("release after hold never produced a keyup")
	}
}

func TestDebounceTapThenHold(t *testing.T) {
	fake := NewFake()
	d := Debounce(fake, 20*time.Millisecond)
	if err := d.Register(); err != nil {
		t.Fatal(err)
	}
	defer d.Unregister()

	// tap, swallowed
	fake.Press()
	fake.Release()
	time.Sleep(60 * time.Millisecond)

	select {
	case <-d.Keydown():
		t.Fatal("tap produced a keydown")
	default:
	}

	// then a real hold still works
	fake.Press()
	select {
	case <-d.Keydown():
	case <-time.After(time.Second):
		t.Fatal("hold after tap never produced a keydown")
	}
	fake.Release()
	select {
	case <-d.Keyup():
	case <-time.After(time.Second):
		t.Fatal("keyup missing")
	}
}

func TestDebounceUnregisterStops(t *testing.T) {
	fake := NewFake()
	d := Debounce(fake, 10*time.Millisecond)
	if err := d.Register(); err != nil {
		t.Fatal(err)
	}
	d.Unregister()
	d.Unregister()
}

func TestValidKeys(t *testing.T) {
	keys := ValidKeys()
	if len(keys) == 0 {
		t.Fatal("no valid keys")
	}
	for _, k := range []string{"alt_r", "f12", "scroll_lock"} {
		if _, err := lookupKey(k); err != nil {
			t.Errorf("lookupKey(%q): %v", k, err)
		}
	}
	if _, err := lookupKey("q"); err == nil {
		t.Error("lookupKey(q) should fail")
	}
}
