package periph

import (
	"sync/atomic"

	"stm32blink/errcode"
)

const (
	opSplit  = "gpio.split"
	opPin    = "gpio.pin"
	opOutput = "gpio.into_push_pull_output"
	opWrite  = "gpio.write"
)

// Level is a digital logic level.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// GPIOPort is one GPIO bank. Split consumes it.
type GPIOPort struct {
	bank  Bank
	be    GPIOBackend
	split atomic.Bool
}

// Bank reports which bank this port drives.
func (p *GPIOPort) Bank() Bank { return p.bank }

// Parts holds the individually owned pins of a split port.
type Parts struct {
	bank Bank
	pins [PinsPerBank]*Pin
}

// Split enables the bank clock and breaks the port into pin handles.
func (p *GPIOPort) Split() (*Parts, error) {
	if !p.split.CompareAndSwap(false, true) {
		return nil, errcode.New(errcode.PeripheralTaken, opSplit, p.bank.String()+" already split")
	}
	if err := p.be.EnableClock(p.bank); err != nil {
		return nil, errcode.Wrap(errcode.Error, opSplit, err)
	}
	parts := &Parts{bank: p.bank}
	for i := range parts.pins {
		parts.pins[i] = &Pin{id: PinID{Bank: p.bank, Num: uint8(i)}, be: p.be}
	}
	return parts, nil
}

// Pin returns the handle for pin n of the bank.
func (ps *Parts) Pin(n uint8) (*Pin, error) {
	if n >= PinsPerBank {
		return nil, errcode.New(errcode.UnknownPin, opPin, "pin number out of range")
	}
	return ps.pins[n], nil
}

// Pin is an unconfigured GPIO line. Configuring it consumes the handle.
type Pin struct {
	id    PinID
	be    GPIOBackend
	taken atomic.Bool
}

// ID names the line, e.g. PB7.
func (p *Pin) ID() PinID { return p.id }

// IntoPushPullOutput configures the line as a push-pull output. The output
// level is whatever the ODR held until the first write.
func (p *Pin) IntoPushPullOutput() (*OutputPin, error) {
	if !p.taken.CompareAndSwap(false, true) {
		return nil, errcode.New(errcode.PeripheralTaken, opOutput, p.id.String()+" already configured")
	}
	if err := p.be.SetOutputType(p.id.Bank, p.id.Num, PushPull); err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, opOutput, err)
	}
	if err := p.be.SetMode(p.id.Bank, p.id.Num, ModeOutput); err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, opOutput, err)
	}
	return &OutputPin{id: p.id, be: p.be}, nil
}

// OutputPin drives one push-pull line. Writes are fallible; any error is
// reported as errcode.PinWrite.
type OutputPin struct {
	id PinID
	be GPIOBackend
}

func (o *OutputPin) ID() PinID { return o.id }

func (o *OutputPin) SetHigh() error { return o.Set(High) }
func (o *OutputPin) SetLow() error  { return o.Set(Low) }

func (o *OutputPin) Set(l Level) error {
	return errcode.Wrap(errcode.PinWrite, opWrite, o.be.Write(o.id.Bank, o.id.Num, bool(l)))
}
