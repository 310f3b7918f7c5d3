package periph

import (
	"sync"
	"sync/atomic"

	"stm32blink/clock"
	"stm32blink/errcode"
)

const (
	opConstrain = "rcc.constrain"
	opFreeze    = "rcc.freeze"
)

// RCC is the reset and clock control token.
type RCC struct {
	be          RCCBackend
	constrained atomic.Bool
}

// Constrain consumes the RCC token and returns its clock configuration
// builder.
func (r *RCC) Constrain() (*CFGR, error) {
	if !r.constrained.CompareAndSwap(false, true) {
		return nil, errcode.New(errcode.PeripheralTaken, opConstrain, "rcc already constrained")
	}
	return &CFGR{be: r.be}, nil
}

// CFGR accumulates a clock request. Freeze solves and applies it; after that
// the builder is inert and every further Freeze fails with errcode.Frozen.
type CFGR struct {
	mu     sync.Mutex
	be     RCCBackend
	req    clock.Request
	frozen bool
}

// HSE selects an external oscillator of hz; bypass for an external clock
// signal (e.g. ST-LINK MCO) rather than a crystal.
func (c *CFGR) HSE(hz uint32, bypass bool) *CFGR {
	c.mu.Lock()
	c.req.HSE, c.req.Bypass = hz, bypass
	c.mu.Unlock()
	return c
}

// Sysclk requests the system clock frequency.
func (c *CFGR) Sysclk(hz uint32) *CFGR {
	c.mu.Lock()
	c.req.Sysclk = hz
	c.mu.Unlock()
	return c
}

// Hclk requests the AHB clock frequency.
func (c *CFGR) Hclk(hz uint32) *CFGR {
	c.mu.Lock()
	c.req.Hclk = hz
	c.mu.Unlock()
	return c
}

// Pclk1 requests the APB1 clock frequency.
func (c *CFGR) Pclk1(hz uint32) *CFGR {
	c.mu.Lock()
	c.req.Pclk1 = hz
	c.mu.Unlock()
	return c
}

// Pclk2 requests the APB2 clock frequency.
func (c *CFGR) Pclk2(hz uint32) *CFGR {
	c.mu.Lock()
	c.req.Pclk2 = hz
	c.mu.Unlock()
	return c
}

// Freeze solves the request exactly, programs it and locks the builder.
func (c *CFGR) Freeze() (clock.Clocks, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return clock.Clocks{}, errcode.New(errcode.Frozen, opFreeze, "clock configuration already frozen")
	}
	clk, err := clock.Solve(c.req)
	if err != nil {
		return clock.Clocks{}, err
	}
	if err := c.be.Apply(clk); err != nil {
		return clock.Clocks{}, errcode.Wrap(errcode.UnreachableClock, opFreeze, err)
	}
	c.frozen = true
	return clk, nil
}
