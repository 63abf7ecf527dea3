//go:build linux

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	evKey      = 1
	keyPress   = 1
	keyRelease = 0
)

const inputEventSize = 24

const permissionHint = "run: sudo usermod -aG input $USER, then log out and back in"

type linuxHotkey struct {
	code    uint16
	keydown chan struct{}
	keyup   chan struct{}
	files   []*os.File
	stop    chan struct{}
	once    sync.Once
}

// New builds a listener for the named key. The key name must be one of
// ValidKeys.
func New(key string) (Hotkey, error) {
	code, err := lookupKey(key)
	if err != nil {
		return nil, err
	}
	return &linuxHotkey{
		code:    code,
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}, nil
}

func (h *linuxHotkey) Register() error {
	keyboards, err := findKeyboards()
	if err != nil {
		return &PermissionError{Hint: permissionHint, Err: fmt.Errorf("scanning input devices: %w", err)}
	}
	if len(keyboards) == 0 {
		return &PermissionError{Hint: permissionHint, Err: fmt.Errorf("no keyboard devices found")}
	}

	h.stop = make(chan struct{})

	var lastErr error
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			lastErr = err
			continue
		}
		h.files = append(h.files, f)
		go h.readEvents(f)
	}

	if len(h.files) == 0 {
		return &PermissionError{
			Hint: permissionHint,
			Err:  fmt.Errorf("found %d keyboard(s) but could not open any: %w", len(keyboards), lastErr),
		}
	}

	return nil
}

func (h *linuxHotkey) readEvents(f *os.File) {
	buf := make([]byte, inputEventSize*16)
	var held bool

	for {
		select {
		case <-h.stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey || evCode != h.code {
				continue
			}

			// value 2 is autorepeat, which matters for held keys:
			// it must neither re-trigger a press nor look like a release
			switch evValue {
			case keyPress:
				if !held {
					held = true
					select {
					case h.keydown <- struct{}{}:
					default:
					}
				}
			case keyRelease:
				if held {
					held = false
					select {
					case h.keyup <- struct{}{}:
					default:
					}
				}
			}
		}
	}
}

func (h *linuxHotkey) Unregister() {
	h.once.Do(func() {
		if h.stop != nil {
			close(h.stop)
		}
		for _, f := range h.files {
			f.Close()
		}
	})
}

func (h *linuxHotkey) Keydown() <-chan struct{} {
	return h.keydown
}

func (h *linuxHotkey) Keyup() <-chan struct{} {
	return h.keyup
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, filepath.Join("/dev/input", e.Name()))
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}
