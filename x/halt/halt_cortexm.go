//go:build tinygo && cortexm

package halt

import "device/arm"

func stop() {
	arm.DisableInterrupts()
	for {
		arm.Asm("wfi")
	}
}
