// Package delay turns millisecond and microsecond requests into blocking
// waits of at least that length.
package delay

import (
	"stm32blink/clock"
	"stm32blink/errcode"
	"stm32blink/periph"
	"stm32blink/x/mathx"
	"stm32blink/x/timex"
)

// Delayer blocks the caller. Implementations never return early.
type Delayer interface {
	DelayMs(ms uint32)
	DelayUs(us uint32)
}

// Kinds accepted by New.
const (
	KindSysTick = "systick"
	KindBusy    = "busy"
)

// SysTick's reload register is 24 bits wide.
const maxReload = 0x00FF_FFFF

// SysTick polls the Cortex-M SysTick counter, clocked from HCLK.
type SysTick struct {
	st   periph.SysTickBackend
	hclk uint32
}

// NewSysTick consumes the SysTick token and binds it to the frozen clocks.
func NewSysTick(syst *periph.SYST, clocks clock.Clocks) (*SysTick, error) {
	if clocks.Hclk == 0 {
		return nil, errcode.New(errcode.InvalidParams, "delay.systick", "clocks not frozen")
	}
	st, err := syst.Claim()
	if err != nil {
		return nil, err
	}
	st.Disable()
	return &SysTick{st: st, hclk: clocks.Hclk}, nil
}

func (d *SysTick) DelayMs(ms uint32) { d.wait(timex.CyclesFromMs(ms, d.hclk)) }
func (d *SysTick) DelayUs(us uint32) { d.wait(timex.CyclesFromUs(us, d.hclk)) }

// wait spins through reload-sized chunks. A chunk of r reload counts lasts
// r+1 cycles, so the total never undershoots.
func (d *SysTick) wait(cycles uint64) {
	for cycles > 0 {
		chunk := mathx.Min(cycles, maxReload)
		d.st.SetReload(uint32(chunk))
		d.st.ClearCurrent()
		d.st.Enable()
		for !d.st.HasWrapped() {
		}
		d.st.Disable()
		cycles -= chunk
	}
}

// New builds the delay named by kind. An empty kind selects SysTick.
func New(kind string, syst *periph.SYST, clocks clock.Clocks) (Delayer, error) {
	switch kind {
	case "", KindSysTick:
		return NewSysTick(syst, clocks)
	case KindBusy:
		return Busy{}, nil
	default:
		return nil, errcode.New(errcode.InvalidParams, "delay.new", "unknown delay kind "+kind)
	}
}
