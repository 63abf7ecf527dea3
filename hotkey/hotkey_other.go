//go:build !linux

package hotkey

import (
	"fmt"
	"strings"

	xhotkey "golang.design/x/hotkey"
)

const permissionHint = "grant accessibility / input monitoring permission to your terminal in system settings"

// system hotkey registration cannot watch bare modifier keys, so only the
// non-modifier subset of keyCodes is available off linux
var xKeys = map[string]xhotkey.Key{
	"f1":  xhotkey.KeyF1,
	"f2":  xhotkey.KeyF2,
	"f3":  xhotkey.KeyF3,
	"f4":  xhotkey.KeyF4,
	"f5":  xhotkey.KeyF5,
	"f6":  xhotkey.KeyF6,
	"f7":  xhotkey.KeyF7,
	"f8":  xhotkey.KeyF8,
	"f9":  xhotkey.KeyF9,
	"f10": xhotkey.KeyF10,
	"f11": xhotkey.KeyF11,
	"f12": xhotkey.KeyF12,
}

type xHotkey struct {
	hk      *xhotkey.Hotkey
	keydown chan struct{}
	keyup   chan struct{}
	stop    chan struct{}
}

func New(key string) (Hotkey, error) {
	name := strings.ToLower(key)
	if _, err := lookupKey(name); err != nil {
		return nil, err
	}
	xk, ok := xKeys[name]
	if !ok {
		return nil, fmt.Errorf("hotkey %q is not available on this platform, use one of f1-f12", key)
	}
	return &xHotkey{
		hk:      xhotkey.New(nil, xk),
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}, nil
}

func (h *xHotkey) Register() error {
	if err := h.hk.Register(); err != nil {
		return &PermissionError{Hint: permissionHint, Err: err}
	}
	h.stop = make(chan struct{})
	go func() {
		for {
			select {
			case <-h.stop:
				return
			case <-h.hk.Keydown():
				select {
				case h.keydown <- struct{}{}:
				default:
				}
			}
		}
	}()
	go func() {
		for {
			select {
			case <-h.stop:
				return
			case <-h.hk.Keyup():
				select {
				case h.keyup <- struct{}{}:
				default:
				}
			}
		}
	}()
	return nil
}

func (h *xHotkey) Unregister() {
	if h.stop != nil {
		close(h.stop)
	}
	h.hk.Unregister()
}

func (h *xHotkey) Keydown() <-chan struct{} {
	return h.keydown
}

func (h *xHotkey) Keyup() <-chan struct{} {
	return h.keyup
}
