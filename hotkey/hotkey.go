// Package hotkey watches one configured key globally and reports press and
// release edges. Linux reads evdev directly so the key works under Wayland
// and X alike; other platforms go through a system hotkey registration.
package hotkey

import "fmt"

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}

// PermissionError means the OS refused access to keyboard events. Hint tells
// the user how to grant it on this platform.
type PermissionError struct {
	Hint string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("hotkey permission denied: %v (%s)", e.Err, e.Hint)
}

func (e *PermissionError) Unwrap() error { return e.Err }
