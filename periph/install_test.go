package periph

import (
	"errors"
	"testing"

	"stm32blink/clock"
	"stm32blink/errcode"
)

type nopBackend struct{}

func (nopBackend) GPIO() GPIOBackend       { return nopBackend{} }
func (nopBackend) RCC() RCCBackend         { return nopBackend{} }
func (nopBackend) SysTick() SysTickBackend { return nopBackend{} }

func (nopBackend) EnableClock(Bank) error                      { return nil }
func (nopBackend) SetMode(Bank, uint8, Mode) error             { return nil }
func (nopBackend) SetOutputType(Bank, uint8, OutputType) error { return nil }
func (nopBackend) Write(Bank, uint8, bool) error               { return nil }
func (nopBackend) Apply(clock.Clocks) error                    { return nil }
func (nopBackend) SetReload(uint32)                            {}
func (nopBackend) ClearCurrent()                               {}
func (nopBackend) Enable()                                     {}
func (nopBackend) Disable()                                    {}
func (nopBackend) HasWrapped() bool                            { return true }

func TestProcessArena(t *testing.T) {
	old := installed.Load()
	installed.Store(nil)
	t.Cleanup(func() { installed.Store(old) })

	if _, err := TakeCore(); !errors.Is(err, errcode.HALNotReady) {
		t.Fatalf("TakeCore before Install err = %v", err)
	}
	if err := Install(nopBackend{}); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if err := Install(nopBackend{}); !errors.Is(err, errcode.PeripheralTaken) {
		t.Fatalf("second Install err = %v", err)
	}
	if Installed() == nil {
		t.Fatal("Installed() is nil")
	}
	if _, err := TakeCore(); err != nil {
		t.Fatalf("TakeCore: %v", err)
	}
	if _, err := TakeDevice(); err != nil {
		t.Fatalf("TakeDevice: %v", err)
	}
	if _, err := TakeCore(); !errors.Is(err, errcode.PeripheralTaken) {
		t.Fatalf("second TakeCore err = %v", err)
	}
	if _, err := TakeDevice(); !errors.Is(err, errcode.PeripheralTaken) {
		t.Fatalf("second TakeDevice err = %v", err)
	}
}
