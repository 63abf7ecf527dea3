// Package output delivers the finished text. Exactly one delivery happens
// per completed session; a failed delivery is reported and never retried.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	cb "github.com/atotto/clipboard"
)

type Target string

const (
	Clipboard Target = "clipboard"
	Stdout    Target = "stdout"
	Paste     Target = "paste"
)

func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case Clipboard, Stdout, Paste:
		return Target(s), nil
	}
	return "", fmt.Errorf("unknown output target %q (valid: clipboard, stdout, paste)", s)
}

// PermissionError means the OS blocked keystroke synthesis for the paste
// target. The text is still on the clipboard when it occurs.
type PermissionError struct {
	Hint string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("paste permission denied: %v (%s)", e.Err, e.Hint)
}

func (e *PermissionError) Unwrap() error { return e.Err }

type Dispatcher struct {
	target Target
	stdout io.Writer
}

func New(target Target) *Dispatcher {
	return &Dispatcher{target: target, stdout: os.Stdout}
}

func (d *Dispatcher) Target() Target { return d.target }

// Deliver hands the text to the configured target. For paste the text is
// copied first, then a paste chord is synthesized into the focused window,
// so a chord failure still leaves the text retrievable from the clipboard.
func (d *Dispatcher) Deliver(text string) error {
	switch d.target {
	case Stdout:
		_, err := fmt.Fprintln(d.stdout, text)
		return err
	case Clipboard:
		if err := cb.WriteAll(text); err != nil {
			return fmt.Errorf("clipboard write: %w", err)
		}
		return nil
	case Paste:
		if err := cb.WriteAll(text); err != nil {
			return fmt.Errorf("clipboard write: %w", err)
		}
		// the focused window needs a moment to settle after the hotkey release
		time.Sleep(100 * time.Millisecond)
		if err := pasteChord(); err != nil {
			return &PermissionError{Hint: pasteHint, Err: err}
		}
		return nil
	}
	return fmt.Errorf("unknown output target %q", d.target)
}
