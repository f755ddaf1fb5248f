package desktop

import (
	"fmt"
	"strings"
)

// modifierAliases maps accepted modifier spellings to robotgo's names.
var modifierAliases = map[string]string{
	"cmd":     "cmd",
	"command": "cmd",
	"super":   "cmd",
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"option":  "alt",
	"opt":     "alt",
	"shift":   "shift",
}

// keyAliases maps common key spellings to robotgo's names.
var keyAliases = map[string]string{
	"return": "enter",
	"esc":    "escape",
	"del":    "delete",
	"bksp":   "backspace",
}

// splitCombo normalizes a key combination into the key and its modifiers.
func splitCombo(keys []string) (string, []string, error) {
	if len(keys) == 0 {
		return "", nil, fmt.Errorf("empty key combination")
	}
	var mods []string
	for _, k := range keys[:len(keys)-1] {
		m, ok := modifierAliases[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			return "", nil, fmt.Errorf("unknown modifier: %q", k)
		}
		mods = append(mods, m)
	}
	key := strings.ToLower(strings.TrimSpace(keys[len(keys)-1]))
	if key == "" {
		return "", nil, fmt.Errorf("empty key in combination %v", keys)
	}
	if alias, ok := keyAliases[key]; ok {
		key = alias
	}
	return key, mods, nil
}
