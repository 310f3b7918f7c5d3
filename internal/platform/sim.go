package platform

import (
	"sync"
	"time"

	"stm32blink/clock"
	"stm32blink/errcode"
	"stm32blink/periph"
	"stm32blink/x/timex"
)

// SimOptions tunes the simulated chip.
type SimOptions struct {
	// RealTime makes each SysTick wrap sleep for its wall-clock length so a
	// host run blinks at the real rate. Off, time is purely virtual.
	RealTime bool
}

// Edge is one recorded pin write.
type Edge struct {
	Pin   periph.PinID
	Level periph.Level
	Cycle uint64 // virtual SysTick cycles elapsed at the write
}

type pinKey struct {
	bank periph.Bank
	num  uint8
}

// Sim is an in-memory STM32F7 used by host builds and tests. It implements
// every periph backend surface and records what the firmware did.
type Sim struct {
	mu   sync.Mutex
	opts SimOptions

	clockOn [periph.NumBanks]bool
	mode    map[pinKey]periph.Mode
	otype   map[pinKey]periph.OutputType
	level   map[pinKey]bool
	trace   []Edge

	applied []clock.Clocks
	hclk    uint32

	reload  uint32
	running bool
	cycles  uint64
	chunks  []uint32

	failWrite error
	failApply error
}

// NewSim returns a reset chip running from HSI.
func NewSim(opts SimOptions) *Sim {
	return &Sim{
		opts:  opts,
		mode:  make(map[pinKey]periph.Mode),
		otype: make(map[pinKey]periph.OutputType),
		level: make(map[pinKey]bool),
		hclk:  clock.HSIFreq,
	}
}

func (s *Sim) GPIO() periph.GPIOBackend       { return s }
func (s *Sim) RCC() periph.RCCBackend         { return s }
func (s *Sim) SysTick() periph.SysTickBackend { return s }

// ---- fault injection ----

// FailWrites makes every later pin write return err (nil clears).
func (s *Sim) FailWrites(err error) {
	s.mu.Lock()
	s.failWrite = err
	s.mu.Unlock()
}

// FailApply makes the next RCC programming attempts return err (nil clears).
func (s *Sim) FailApply(err error) {
	s.mu.Lock()
	s.failApply = err
	s.mu.Unlock()
}

// ---- GPIO ----

func (s *Sim) EnableClock(b periph.Bank) error {
	if b >= periph.NumBanks {
		return errcode.UnknownPin
	}
	s.mu.Lock()
	s.clockOn[b] = true
	s.mu.Unlock()
	return nil
}

func (s *Sim) SetMode(b periph.Bank, pin uint8, m periph.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.clockOn[b] {
		return errcode.New(errcode.HALNotReady, "sim.set_mode", b.String()+" clock gated")
	}
	s.mode[pinKey{b, pin}] = m
	return nil
}

func (s *Sim) SetOutputType(b periph.Bank, pin uint8, ot periph.OutputType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.clockOn[b] {
		return errcode.New(errcode.HALNotReady, "sim.set_output_type", b.String()+" clock gated")
	}
	s.otype[pinKey{b, pin}] = ot
	return nil
}

func (s *Sim) Write(b periph.Bank, pin uint8, high bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	k := pinKey{b, pin}
	if s.mode[k] != periph.ModeOutput {
		return errcode.New(errcode.InvalidParams, "sim.write", "pin not in output mode")
	}
	s.level[k] = high
	s.trace = append(s.trace, Edge{
		Pin:   periph.PinID{Bank: b, Num: pin},
		Level: periph.Level(high),
		Cycle: s.cycles,
	})
	return nil
}

// ---- RCC ----

func (s *Sim) Apply(c clock.Clocks) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failApply != nil {
		return s.failApply
	}
	s.applied = append(s.applied, c)
	s.hclk = c.Hclk
	return nil
}

// ---- SysTick ----

func (s *Sim) SetReload(v uint32) {
	s.mu.Lock()
	s.reload = v & 0x00FF_FFFF
	s.mu.Unlock()
}

func (s *Sim) ClearCurrent() {}

func (s *Sim) Enable() {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
}

func (s *Sim) Disable() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// HasWrapped advances the virtual counter by one full period. A stopped
// counter never wraps.
func (s *Sim) HasWrapped() bool {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return false
	}
	period := uint64(s.reload) + 1
	s.cycles += period
	s.chunks = append(s.chunks, s.reload)
	hclk, rt := s.hclk, s.opts.RealTime
	s.mu.Unlock()
	if rt {
		time.Sleep(timex.DurationFromCycles(period, hclk))
	}
	return true
}

// ---- inspection ----

// Trace returns a copy of every pin write so far.
func (s *Sim) Trace() []Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Edge(nil), s.trace...)
}

// Levels returns the written levels in order for one pin.
func (s *Sim) Levels(id periph.PinID) []periph.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []periph.Level
	for _, e := range s.trace {
		if e.Pin == id {
			out = append(out, e.Level)
		}
	}
	return out
}

// Mode reports the configured mode and output type of a pin.
func (s *Sim) Mode(id periph.PinID) (periph.Mode, periph.OutputType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pinKey{id.Bank, id.Num}
	return s.mode[k], s.otype[k]
}

// ClockEnabled reports whether a bank clock was gated on.
func (s *Sim) ClockEnabled(b periph.Bank) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clockOn[b]
}

// Applied returns every clock tree programmed into RCC.
func (s *Sim) Applied() []clock.Clocks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]clock.Clocks(nil), s.applied...)
}

// Cycles is the virtual time in HCLK cycles spent inside SysTick waits.
func (s *Sim) Cycles() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycles
}

// Hclk is the core clock currently programmed.
func (s *Sim) Hclk() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hclk
}

// Elapsed converts Cycles to wall time at the programmed HCLK.
func (s *Sim) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return timex.DurationFromCycles(s.cycles, s.hclk)
}

// Chunks returns every reload value that ran to a wrap.
func (s *Sim) Chunks() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint32(nil), s.chunks...)
}
