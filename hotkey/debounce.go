package hotkey

import (
	"sync"
	"time"
)

// Debounced filters out accidental taps: a press only counts once the key
// stays down for the full interval, and a press-release pair shorter than
// that is swallowed entirely. Wraps any Hotkey.
type Debounced struct {
	inner    Hotkey
	interval time.Duration
	keydown  chan struct{}
	keyup    chan struct{}
	stop     chan struct{}
	once     sync.Once
}

func Debounce(inner Hotkey, interval time.Duration) *Debounced {
	return &Debounced{
		inner:    inner,
		interval: interval,
		keydown:  make(chan struct{}, 1),
		keyup:    make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

func (d *Debounced) Register() error {
	if err := d.inner.Register(); err != nil {
		return err
	}
	go d.run()
	return nil
}

func (d *Debounced) run() {
	for {
		select {
		case <-d.stop:
			return
		case <-d.inner.Keydown():
		}

		timer := time.NewTimer(d.interval)
		select {
		case <-d.stop:
			timer.Stop()
			return
		case <-d.inner.Keyup():
			// released before the interval: an accidental tap
			timer.Stop()
			continue
		case <-timer.C:
		}

		select {
		case d.keydown <- struct{}{}:
		default:
		}

		select {
		case <-d.stop:
			return
		case <-d.inner.Keyup():
			select {
			case d.keyup <- struct{}{}:
			default:
			}
		}
	}
}

func (d *Debounced) Unregister() {
	d.once.Do(func() { close(d.stop) })
	d.inner.Unregister()
}

func (d *Debounced) Keydown() <-chan struct{} {
	return d.keydown
}

func (d *Debounced) Keyup() <-chan struct{} {
	return d.keyup
}
