//go:build !darwin

package output

import "github.com/micmonay/keybd_event"

const pasteHint = "text is still on the clipboard; on linux, uinput access is needed: sudo usermod -aG input $USER"

func pasteChord() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasCTRL(true)
	return kb.Launching()
}
