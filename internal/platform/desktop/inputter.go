//go:build cgo

package desktop

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/mj1618/desktop-locate/internal/platform"
)

// Inputter implements platform.Inputter with robotgo.
type Inputter struct{}

// NewInputter creates an inputter.
func NewInputter() *Inputter {
	return &Inputter{}
}

func (inp *Inputter) Click(x, y int, button platform.MouseButton, count int) error {
	if count < 1 {
		count = 1
	}
	robotgo.Move(x, y)
	btn := robotButton(button)
	for count > 0 {
		if count >= 2 {
			robotgo.Click(btn, true)
			count -= 2
			continue
		}
		robotgo.Click(btn, false)
		count--
	}
	return nil
}

// TypeText types text. With a positive delayMs each rune is typed separately
// with that pause in between.
func (inp *Inputter) TypeText(text string, delayMs int) error {
	if delayMs <= 0 {
		robotgo.TypeStr(text)
		return nil
	}
	for _, r := range text {
		robotgo.TypeStr(string(r))
		time.Sleep(time.Duration(delayMs) * time.Millisecond)
	}
	return nil
}

// KeyCombo presses a key combination such as ["cmd", "a"]. The last entry is
// the key, the rest are modifiers.
func (inp *Inputter) KeyCombo(keys []string) error {
	key, mods, err := splitCombo(keys)
	if err != nil {
		return err
	}
	if len(mods) == 0 {
		err = robotgo.KeyTap(key)
	} else {
		err = robotgo.KeyTap(key, mods)
	}
	if err != nil {
		return fmt.Errorf("%w: key combo %s: %v", platform.ErrActuationFailed, strings.Join(keys, "+"), err)
	}
	return nil
}

func robotButton(b platform.MouseButton) string {
	switch b {
	case platform.MouseRight:
		return "right"
	case platform.MouseMiddle:
		return "center"
	default:
		return "left"
	}
}
