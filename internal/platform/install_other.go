//go:build tinygo && !stm32f7

package platform

import "stm32blink/errcode"

func Install() error {
	return errcode.New(errcode.HALNotReady, "platform.install", "no backend for this target")
}
