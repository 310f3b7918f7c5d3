//go:build tinygo && stm32f7

package platform

import "stm32blink/periph"

// Install registers the STM32F7 register backend as the process arena.
func Install() error {
	return periph.Install(stm32f7{})
}
