package periph

import "stm32blink/clock"

// Bank identifies a GPIO port (A..K on STM32F76x).
type Bank uint8

const (
	BankA Bank = iota
	BankB
	BankC
	BankD
	BankE
	BankF
	BankG
	BankH
	BankI
	BankJ
	BankK

	NumBanks = 11
)

// PinsPerBank is fixed by the GPIO register layout.
const PinsPerBank = 16

func (b Bank) String() string {
	if b >= NumBanks {
		return "P?"
	}
	return "P" + string(rune('A'+b))
}

// Mode mirrors GPIOx_MODER.
type Mode uint8

const (
	ModeInput Mode = iota
	ModeOutput
	ModeAlternate
	ModeAnalog
)

// OutputType mirrors GPIOx_OTYPER.
type OutputType uint8

const (
	PushPull OutputType = iota
	OpenDrain
)

// GPIOBackend is the register-level GPIO surface a platform provides.
type GPIOBackend interface {
	// EnableClock gates the bank on in RCC_AHB1ENR.
	EnableClock(b Bank) error
	SetMode(b Bank, pin uint8, m Mode) error
	SetOutputType(b Bank, pin uint8, ot OutputType) error
	// Write drives the pin through BSRR.
	Write(b Bank, pin uint8, high bool) error
}

// RCCBackend programs a solved clock tree into the reset and clock control
// block (oscillator, PLL, flash latency, prescalers, SYSCLK switch).
type RCCBackend interface {
	Apply(c clock.Clocks) error
}

// SysTickBackend is the Cortex-M SysTick counter.
// Enable runs it from the processor clock with the interrupt disabled.
type SysTickBackend interface {
	SetReload(v uint32)
	ClearCurrent()
	Enable()
	Disable()
	// HasWrapped reports and clears COUNTFLAG.
	HasWrapped() bool
}

// Backend bundles the register surfaces of one chip.
type Backend interface {
	GPIO() GPIOBackend
	RCC() RCCBackend
	SysTick() SysTickBackend
}
