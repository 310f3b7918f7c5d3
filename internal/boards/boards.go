package boards

import (
	"stm32blink/clock"
	"stm32blink/errcode"
	"stm32blink/periph"
)

// Profile describes what the firmware needs to know about a board: where
// the user LED sits, what feeds the clock tree, and the blink timing.
type Profile struct {
	Name         string `yaml:"name"`
	LED          string `yaml:"led"`
	HSE          uint32 `yaml:"hse"`
	Bypass       bool   `yaml:"bypass"`
	Sysclk       uint32 `yaml:"sysclk"`
	HalfPeriodMs uint32 `yaml:"halfPeriodMs"`
	Delay        string `yaml:"delay"`
}

// Nucleo-144 boards feed HSE from the ST-LINK MCO at 8 MHz, so HSE is bypassed.
var (
	NucleoF767ZI = Profile{
		Name:         "nucleo-f767zi",
		LED:          "PB7",
		HSE:          8 * clock.MHz,
		Bypass:       true,
		Sysclk:       216 * clock.MHz,
		HalfPeriodMs: 500,
		Delay:        "systick",
	}
	NucleoF722ZE = Profile{
		Name:         "nucleo-f722ze",
		LED:          "PB7",
		HSE:          8 * clock.MHz,
		Bypass:       true,
		Sysclk:       216 * clock.MHz,
		HalfPeriodMs: 500,
		Delay:        "systick",
	}
	DiscoF769NI = Profile{
		Name:         "disco-f769ni",
		LED:          "PJ13",
		HSE:          25 * clock.MHz,
		Sysclk:       216 * clock.MHz,
		HalfPeriodMs: 500,
		Delay:        "systick",
	}
)

// Builtin lists the profiles compiled into every build.
var Builtin = []Profile{NucleoF767ZI, NucleoF722ZE, DiscoF769NI}

// ByName looks a profile up among the builtins.
func ByName(name string) (Profile, error) {
	for _, p := range Builtin {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, errcode.New(errcode.UnknownBoard, "boards.by_name", name)
}

// LEDPin parses the LED field.
func (p Profile) LEDPin() (periph.PinID, error) { return periph.ParsePin(p.LED) }

// Validate rejects profiles the firmware cannot bring up.
func (p Profile) Validate() error {
	if p.Name == "" {
		return errcode.New(errcode.InvalidParams, "boards.validate", "missing name")
	}
	if _, err := p.LEDPin(); err != nil {
		return err
	}
	if p.Sysclk == 0 {
		return errcode.New(errcode.InvalidParams, "boards.validate", p.Name+": missing sysclk")
	}
	if p.HalfPeriodMs == 0 {
		return errcode.New(errcode.InvalidParams, "boards.validate", p.Name+": half period must be > 0")
	}
	switch p.Delay {
	case "", "systick", "busy":
	default:
		return errcode.New(errcode.InvalidParams, "boards.validate", p.Name+": unknown delay "+p.Delay)
	}
	return nil
}
