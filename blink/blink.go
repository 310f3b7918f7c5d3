// Package blink brings a board up and toggles its user LED.
package blink

import (
	"context"

	"stm32blink/bus"
	"stm32blink/clock"
	"stm32blink/delay"
	"stm32blink/errcode"
	"stm32blink/internal/boards"
	"stm32blink/periph"
	"stm32blink/types"
	"stm32blink/x/halt"
	"stm32blink/x/timex"
)

const (
	opStartup = "blink.startup"
	opCycle   = "blink.cycle"

	ledName = "user"
)

var topicHALState = bus.T("hal", "state")

// LEDTopic is where the LED level is published, retained.
func LEDTopic(name string) bus.Topic { return bus.T("hal", "cap", "io", "led", name, "value") }

// Board is a brought-up board: an owned LED output, frozen clocks and a
// delay bound to them.
type Board struct {
	Name   string
	Clocks clock.Clocks

	led   *periph.OutputPin
	delay delay.Delayer
	half  uint32

	conn *bus.Connection
	seq  uint32
}

// Option tunes Startup.
type Option func(*Board)

// WithBus publishes HAL state and LED levels on conn.
func WithBus(conn *bus.Connection) Option {
	return func(b *Board) { b.conn = conn }
}

// Startup acquires the peripherals from arena (the installed process arena
// when nil) and configures them for p. Steps run in a fixed order and the
// first failure aborts. Tokens taken before a failure stay taken.
func Startup(arena *periph.Arena, p boards.Profile, opts ...Option) (*Board, error) {
	b := &Board{Name: p.Name, half: p.HalfPeriodMs}
	for _, o := range opts {
		o(b)
	}
	if err := b.startup(arena, p); err != nil {
		b.publishState(types.LevelStopped, string(errcode.Of(err)))
		return nil, err
	}
	println("Info: blink:", p.Name, "up, LED", p.LED, "sysclk", b.Clocks.Sysclk, "Hz")
	b.publishState(types.LevelReady, "ok")
	return b, nil
}

func (b *Board) startup(arena *periph.Arena, p boards.Profile) error {
	if arena == nil {
		arena = periph.Installed()
		if arena == nil {
			return errcode.New(errcode.HALNotReady, opStartup, "no backend installed")
		}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	id, err := p.LEDPin()
	if err != nil {
		return err
	}

	cp, err := arena.TakeCore()
	if err != nil {
		return err
	}
	dp, err := arena.TakeDevice()
	if err != nil {
		return err
	}

	port, err := dp.GPIO(id.Bank)
	if err != nil {
		return err
	}
	parts, err := port.Split()
	if err != nil {
		return err
	}
	pin, err := parts.Pin(id.Num)
	if err != nil {
		return err
	}
	led, err := pin.IntoPushPullOutput()
	if err != nil {
		return err
	}

	cfgr, err := dp.RCC.Constrain()
	if err != nil {
		return err
	}
	if p.HSE != 0 {
		cfgr = cfgr.HSE(p.HSE, p.Bypass)
	}
	clocks, err := cfgr.Sysclk(p.Sysclk).Freeze()
	if err != nil {
		return err
	}
	if clocks.Sysclk != p.Sysclk {
		return errcode.New(errcode.UnreachableClock, opStartup, "sysclk mismatch")
	}

	d, err := delay.New(p.Delay, cp.SYST, clocks)
	if err != nil {
		return err
	}

	b.led, b.Clocks, b.delay = led, clocks, d
	return nil
}

// LED returns the owned LED pin.
func (b *Board) LED() periph.PinID { return b.led.ID() }

// Cycle drives the LED high for one half period, then low for one.
func (b *Board) Cycle() error {
	if err := b.set(periph.High); err != nil {
		return err
	}
	b.delay.DelayMs(b.half)
	if err := b.set(periph.Low); err != nil {
		return err
	}
	b.delay.DelayMs(b.half)
	return nil
}

// Run performs n cycles, or cycles until ctx is done when n is 0. The
// context is only checked between cycles.
func (b *Board) Run(ctx context.Context, n int) error {
	for i := 0; n == 0 || i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.Cycle(); err != nil {
			return err
		}
	}
	return nil
}

// Forever cycles until a pin write fails, which halts the program.
func (b *Board) Forever() {
	for {
		if err := b.Cycle(); err != nil {
			b.publishState(types.LevelStopped, string(errcode.Of(err)))
			halt.Fatal(opCycle, err)
		}
	}
}

func (b *Board) set(l periph.Level) error {
	if err := b.led.Set(l); err != nil {
		return err
	}
	b.seq++
	if b.conn != nil {
		v := types.LEDValue{On: bool(l), Seq: b.seq, TS: timex.NowMs()}
		b.conn.Publish(b.conn.NewMessage(LEDTopic(ledName), v, true))
	}
	return nil
}

func (b *Board) publishState(level, status string) {
	if b.conn == nil {
		return
	}
	st := types.HALState{Level: level, Status: status, TS: timex.NowMs()}
	b.conn.Publish(b.conn.NewMessage(topicHALState, st, true))
}
