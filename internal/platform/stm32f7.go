//go:build tinygo && stm32f7

package platform

import (
	"device/arm"
	"machine"

	"stm32blink/clock"
	"stm32blink/errcode"
	"stm32blink/periph"
)

// stm32f7 drives the real chip through TinyGo's machine package and the
// Cortex-M SysTick registers.
type stm32f7 struct{}

func (stm32f7) GPIO() periph.GPIOBackend       { return stm32f7{} }
func (stm32f7) RCC() periph.RCCBackend         { return stm32f7{} }
func (stm32f7) SysTick() periph.SysTickBackend { return stm32f7{} }

// TinyGo numbers STM32 pins as bank*16 + n.
func machinePin(b periph.Bank, n uint8) machine.Pin {
	return machine.Pin(int(b)*periph.PinsPerBank + int(n))
}

// EnableClock is a no-op: machine.Pin.Configure gates the port clock itself.
func (stm32f7) EnableClock(b periph.Bank) error {
	if b >= periph.NumBanks {
		return errcode.UnknownPin
	}
	return nil
}

func (stm32f7) SetMode(b periph.Bank, n uint8, m periph.Mode) error {
	switch m {
	case periph.ModeOutput:
		machinePin(b, n).Configure(machine.PinConfig{Mode: machine.PinOutput})
	case periph.ModeInput:
		machinePin(b, n).Configure(machine.PinConfig{Mode: machine.PinInput})
	default:
		return errcode.New(errcode.InvalidParams, "stm32f7.set_mode", "mode not supported")
	}
	return nil
}

// machine.PinOutput is always push-pull on STM32.
func (stm32f7) SetOutputType(_ periph.Bank, _ uint8, ot periph.OutputType) error {
	if ot != periph.PushPull {
		return errcode.New(errcode.InvalidParams, "stm32f7.set_output_type", "open drain not supported")
	}
	return nil
}

func (stm32f7) Write(b periph.Bank, n uint8, high bool) error {
	machinePin(b, n).Set(high)
	return nil
}

// Apply checks the tree against what the TinyGo runtime brought up before
// main. The runtime owns PLL programming on this target, so a request it did
// not satisfy cannot be honoured.
func (stm32f7) Apply(c clock.Clocks) error {
	if got := machine.CPUFrequency(); got != c.Sysclk {
		return errcode.New(errcode.UnreachableClock, "stm32f7.apply", "runtime sysclk differs from request")
	}
	return nil
}

func (stm32f7) SetReload(v uint32) { arm.SYST.SYST_RVR.Set(v & 0x00FF_FFFF) }
func (stm32f7) ClearCurrent()      { arm.SYST.SYST_CVR.Set(0) }

func (stm32f7) Enable() {
	arm.SYST.SYST_CSR.Set(arm.SYST_CSR_ENABLE_Msk | arm.SYST_CSR_CLKSOURCE_Msk)
}

func (stm32f7) Disable() { arm.SYST.SYST_CSR.ClearBits(arm.SYST_CSR_ENABLE_Msk) }

func (stm32f7) HasWrapped() bool {
	return arm.SYST.SYST_CSR.HasBits(arm.SYST_CSR_COUNTFLAG_Msk)
}
