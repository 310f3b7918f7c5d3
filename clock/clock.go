// Package clock solves STM32F7 clock trees: PLL factors, bus prescalers,
// flash wait states and over-drive, for a requested system clock.
//
// Results are exact. A request that cannot be met without rounding fails
// with errcode.UnreachableClock; inputs outside the silicon limits fail with
// errcode.InvalidParams.
package clock

import (
	"stm32blink/errcode"
	"stm32blink/x/mathx"
)

const (
	KHz uint32 = 1_000
	MHz uint32 = 1_000_000
)

// Silicon limits (RM0410 / RM0431, VOS scale 1 with over-drive).
const (
	HSIFreq = 16 * MHz

	hseMin       = 4 * MHz
	hseMax       = 26 * MHz
	hseBypassMax = 50 * MHz

	vcoInMin  = 1 * MHz
	vcoInMax  = 2 * MHz
	vcoOutMin = 100 * MHz
	vcoOutMax = 432 * MHz

	pllMMin, pllMMax = 2, 63
	pllNMin, pllNMax = 50, 432
	pllQMin, pllQMax = 2, 15

	SysclkMax = 216 * MHz
	HclkMax   = 216 * MHz
	Pclk1Max  = 54 * MHz
	Pclk2Max  = 108 * MHz

	// One flash wait state per started 30 MHz of HCLK at 2.7-3.6 V.
	flashStep = 30 * MHz
	// Above this HCLK the regulator must run in over-drive.
	overDriveAbove = 180 * MHz

	usbClock = 48 * MHz
)

var (
	pllPDivs = [...]uint32{2, 4, 6, 8}
	ahbDivs  = [...]uint32{1, 2, 4, 8, 16, 64, 128, 256, 512}
	apbDivs  = [...]uint32{1, 2, 4, 8, 16}
)

const (
	opSolve   = "clock.solve"
	opPLL     = "clock.pll"
	opBus     = "clock.bus"
	opOsc     = "clock.osc"
	opRequest = "clock.request"
)

// Source selects the oscillator feeding SYSCLK or the PLL.
type Source uint8

const (
	SourceHSI Source = iota
	SourceHSE
)

func (s Source) String() string {
	if s == SourceHSE {
		return "hse"
	}
	return "hsi"
}

// Request describes the desired tree. Zero fields take defaults:
// HSE==0 selects HSI, Sysclk==0 runs from the oscillator, Hclk==0 equals
// Sysclk, Pclk1/Pclk2==0 pick the fastest legal bus clock.
type Request struct {
	HSE    uint32
	Bypass bool
	Sysclk uint32
	Hclk   uint32
	Pclk1  uint32
	Pclk2  uint32
}

// PLL holds the main PLL factors. Zero value means the PLL is unused.
type PLL struct {
	M, N, P, Q uint32
}

// VCOIn is the PLL input frequency for osc.
func (p PLL) VCOIn(osc uint32) uint32 {
	if p.M == 0 {
		return 0
	}
	return osc / p.M
}

// VCOOut is the VCO frequency for osc.
func (p PLL) VCOOut(osc uint32) uint32 { return p.VCOIn(osc) * p.N }

// Clocks is a frozen, immutable clock configuration.
type Clocks struct {
	Source     Source
	Oscillator uint32
	HSEBypass  bool
	UsePLL     bool
	PLL        PLL

	Sysclk  uint32
	Hclk    uint32
	Pclk1   uint32
	Pclk2   uint32
	Timclk1 uint32
	Timclk2 uint32
	// Pll48 is the 48 MHz domain clock, or 0 when VCO/Q cannot hit it exactly.
	Pll48 uint32

	HPRE  uint32
	PPRE1 uint32
	PPRE2 uint32

	FlashLatency uint8
	OverDrive    bool
}

// Solve computes the clock tree for req.
func Solve(req Request) (Clocks, error) {
	var c Clocks

	osc, src, err := oscillator(req)
	if err != nil {
		return Clocks{}, err
	}
	c.Source, c.Oscillator, c.HSEBypass = src, osc, req.Bypass && src == SourceHSE

	sys := req.Sysclk
	if sys == 0 {
		sys = osc
	}
	if sys > SysclkMax {
		return Clocks{}, errcode.New(errcode.UnreachableClock, opSolve, "sysclk above 216 MHz")
	}

	if sys != osc {
		pll, ok := solvePLL(osc, sys)
		if !ok {
			return Clocks{}, errcode.New(errcode.UnreachableClock, opPLL, "no exact PLL factors for sysclk")
		}
		c.UsePLL, c.PLL = true, pll
		if q := pll.Q; q != 0 {
			if v, exact := mathx.ExactDiv(pll.VCOOut(osc), q); exact && v == usbClock {
				c.Pll48 = v
			}
		}
	}
	c.Sysclk = sys

	if err := c.solveBuses(req); err != nil {
		return Clocks{}, err
	}

	c.FlashLatency = uint8(mathx.CeilDiv(c.Hclk, flashStep) - 1)
	c.OverDrive = c.Hclk > overDriveAbove

	// No silent substitution.
	if req.Sysclk != 0 && c.Sysclk != req.Sysclk {
		return Clocks{}, errcode.New(errcode.UnreachableClock, opSolve, "sysclk mismatch")
	}
	return c, nil
}

func oscillator(req Request) (uint32, Source, error) {
	if req.HSE == 0 {
		if req.Bypass {
			return 0, 0, errcode.New(errcode.InvalidParams, opOsc, "bypass without hse")
		}
		return HSIFreq, SourceHSI, nil
	}
	lo, hi := hseMin, hseMax
	if req.Bypass {
		lo, hi = 1*MHz, hseBypassMax
	}
	if !mathx.Between(req.HSE, lo, hi) {
		return 0, 0, errcode.New(errcode.InvalidParams, opOsc, "hse out of range")
	}
	return req.HSE, SourceHSE, nil
}

// solvePLL walks M upwards so the first hit has the highest VCO input,
// which keeps PLL jitter lowest.
func solvePLL(osc, sys uint32) (PLL, bool) {
	for m := uint32(pllMMin); m <= pllMMax; m++ {
		vin, exact := mathx.ExactDiv(osc, m)
		if !exact || !mathx.Between(vin, vcoInMin, vcoInMax) {
			continue
		}
		for _, p := range pllPDivs {
			vout := uint64(sys) * uint64(p)
			if vout < uint64(vcoOutMin) || vout > uint64(vcoOutMax) {
				continue
			}
			n, exact := mathx.ExactDiv(vout, uint64(vin))
			if !exact || !mathx.Between(n, pllNMin, pllNMax) {
				continue
			}
			return PLL{M: m, N: uint32(n), P: p, Q: pllQ(uint32(vout))}, true
		}
	}
	return PLL{}, false
}

// pllQ picks the divider that lands on 48 MHz, falling back to the smallest
// divider that stays at or below it.
func pllQ(vco uint32) uint32 {
	for q := uint32(pllQMin); q <= pllQMax; q++ {
		if v, exact := mathx.ExactDiv(vco, q); exact && v == usbClock {
			return q
		}
	}
	for q := uint32(pllQMin); q <= pllQMax; q++ {
		if vco/q <= usbClock {
			return q
		}
	}
	return pllQMax
}

func (c *Clocks) solveBuses(req Request) error {
	hclk := req.Hclk
	if hclk == 0 {
		hclk = c.Sysclk
	}
	if hclk > HclkMax {
		return errcode.New(errcode.InvalidParams, opRequest, "hclk above 216 MHz")
	}
	hpre, ok := exactDivisor(c.Sysclk, hclk, ahbDivs[:])
	if !ok {
		return errcode.New(errcode.UnreachableClock, opBus, "hclk not reachable from sysclk")
	}
	c.Hclk, c.HPRE = hclk, hpre

	var err error
	if c.Pclk1, c.PPRE1, err = apbClock(hclk, req.Pclk1, Pclk1Max, "pclk1"); err != nil {
		return err
	}
	if c.Pclk2, c.PPRE2, err = apbClock(hclk, req.Pclk2, Pclk2Max, "pclk2"); err != nil {
		return err
	}
	c.Timclk1 = timerClock(c.Pclk1, c.PPRE1)
	c.Timclk2 = timerClock(c.Pclk2, c.PPRE2)
	return nil
}

func apbClock(hclk, want, limit uint32, name string) (uint32, uint32, error) {
	if want == 0 {
		for _, d := range apbDivs {
			if hclk/d <= limit {
				return hclk / d, d, nil
			}
		}
		return 0, 0, errcode.New(errcode.UnreachableClock, opBus, name+" cannot be brought under its limit")
	}
	if want > limit {
		return 0, 0, errcode.New(errcode.InvalidParams, opRequest, name+" above limit")
	}
	d, ok := exactDivisor(hclk, want, apbDivs[:])
	if !ok {
		return 0, 0, errcode.New(errcode.UnreachableClock, opBus, name+" not reachable from hclk")
	}
	return want, d, nil
}

func exactDivisor(in, out uint32, divs []uint32) (uint32, bool) {
	for _, d := range divs {
		if v, exact := mathx.ExactDiv(in, d); exact && v == out {
			return d, true
		}
	}
	return 0, false
}

// Timers on an APB bus run at twice PCLK whenever that bus is divided.
func timerClock(pclk, div uint32) uint32 {
	if div == 1 {
		return pclk
	}
	return pclk * 2
}
