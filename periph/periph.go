// Package periph hands out exclusive ownership of the microcontroller's
// peripherals.
//
// An Arena issues at most one Core and one Device for its lifetime. Each
// sub-handle (SYST, RCC, a GPIO port, a pin) can in turn be consumed exactly
// once; a second attempt fails with errcode.PeripheralTaken. Firmware uses
// the process-wide arena installed by the platform through Install.
package periph

import (
	"sync/atomic"

	"stm32blink/errcode"
)

const (
	opTakeCore   = "periph.take_core"
	opTakeDevice = "periph.take_device"
	opInstall    = "periph.install"
)

// Arena owns the taken flags for one set of peripherals.
type Arena struct {
	be     Backend
	core   atomic.Bool
	device atomic.Bool
}

// NewArena wraps a backend. Tests build one per simulated chip.
func NewArena(be Backend) *Arena { return &Arena{be: be} }

// Backend returns the register surfaces this arena hands out.
func (a *Arena) Backend() Backend { return a.be }

// Core holds the Cortex-M core peripherals.
type Core struct {
	SYST *SYST
}

// Device holds the STM32 device peripherals.
type Device struct {
	RCC   *RCC
	ports [NumBanks]*GPIOPort
}

// TakeCore acquires the core peripherals. It succeeds once per arena.
func (a *Arena) TakeCore() (*Core, error) {
	if !a.core.CompareAndSwap(false, true) {
		return nil, errcode.New(errcode.PeripheralTaken, opTakeCore, "core peripherals already taken")
	}
	return &Core{SYST: &SYST{be: a.be.SysTick()}}, nil
}

// TakeDevice acquires the device peripherals. It succeeds once per arena.
func (a *Arena) TakeDevice() (*Device, error) {
	if !a.device.CompareAndSwap(false, true) {
		return nil, errcode.New(errcode.PeripheralTaken, opTakeDevice, "device peripherals already taken")
	}
	d := &Device{RCC: &RCC{be: a.be.RCC()}}
	g := a.be.GPIO()
	for i := range d.ports {
		d.ports[i] = &GPIOPort{bank: Bank(i), be: g}
	}
	return d, nil
}

// GPIO returns the port handle for bank b.
func (d *Device) GPIO(b Bank) (*GPIOPort, error) {
	if b >= NumBanks {
		return nil, errcode.New(errcode.UnknownPin, opSplit, "no such bank")
	}
	return d.ports[b], nil
}

// SYST is the SysTick token. Claim moves the counter into a delay.
type SYST struct {
	be    SysTickBackend
	taken atomic.Bool
}

// Claim hands out the SysTick registers once.
func (s *SYST) Claim() (SysTickBackend, error) {
	if !s.taken.CompareAndSwap(false, true) {
		return nil, errcode.New(errcode.PeripheralTaken, "periph.syst", "systick already claimed")
	}
	return s.be, nil
}

// ---- process-wide arena ----

var installed atomic.Pointer[Arena]

// Install registers the platform backend as the process arena. It may be
// called once.
func Install(be Backend) error {
	if !installed.CompareAndSwap(nil, NewArena(be)) {
		return errcode.New(errcode.PeripheralTaken, opInstall, "backend already installed")
	}
	return nil
}

// Installed returns the process arena, or nil before Install.
func Installed() *Arena { return installed.Load() }

// TakeCore acquires the core peripherals from the process arena.
func TakeCore() (*Core, error) {
	a := installed.Load()
	if a == nil {
		return nil, errcode.New(errcode.HALNotReady, opTakeCore, "no backend installed")
	}
	return a.TakeCore()
}

// TakeDevice acquires the device peripherals from the process arena.
func TakeDevice() (*Device, error) {
	a := installed.Load()
	if a == nil {
		return nil, errcode.New(errcode.HALNotReady, opTakeDevice, "no backend installed")
	}
	return a.TakeDevice()
}
