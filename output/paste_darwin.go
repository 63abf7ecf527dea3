//go:build darwin

package output

import "github.com/micmonay/keybd_event"

const pasteHint = "text is still on the clipboard; grant accessibility permission to your terminal in system settings"

func pasteChord() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasSuper(true) // Cmd+V
	return kb.Launching()
}
