package hotkey

import (
	"fmt"
	"sort"
	"strings"
)

// keyCodes maps configuration names to linux evdev key codes. The same names
// are translated to platform keys in hotkey_other.go, so this map is the
// canonical list of supported trigger keys.
var keyCodes = map[string]uint16{
	"alt_r":       100,
	"alt_l":       56,
	"ctrl_r":      97,
	"ctrl_l":      29,
	"shift_r":     54,
	"shift_l":     42,
	"meta_l":      125,
	"meta_r":      126,
	"f1":          59,
	"f2":          60,
	"f3":          61,
	"f4":          62,
	"f5":          63,
	"f6":          64,
	"f7":          65,
	"f8":          66,
	"f9":          67,
	"f10":         68,
	"f11":         87,
	"f12":         88,
	"scroll_lock": 70,
	"pause":       119,
	"insert":      110,
}

// ValidKeys returns the supported key names, sorted.
func ValidKeys() []string {
	keys := make([]string, 0, len(keyCodes))
	for k := range keyCodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func lookupKey(name string) (uint16, error) {
	code, ok := keyCodes[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown hotkey %q (valid: %s)", name, strings.Join(ValidKeys(), ", "))
	}
	return code, nil
}
