//go:build tinygo

package delay

import (
	"time"

	drvdelay "tinygo.org/x/drivers/delay"
)

// drivers/delay busy-waits only below ~16 ms; longer requests are split.
const busyStepUs = 10_000

// Busy burns CPU cycles instead of touching a timer.
type Busy struct{}

func (Busy) DelayMs(ms uint32) {
	for ms > 0 {
		step := ms
		if step > busyStepUs/1000 {
			step = busyStepUs / 1000
		}
		drvdelay.Sleep(time.Duration(step) * time.Millisecond)
		ms -= step
	}
}

func (Busy) DelayUs(us uint32) {
	for us > 0 {
		step := us
		if step > busyStepUs {
			step = busyStepUs
		}
		drvdelay.Sleep(time.Duration(step) * time.Microsecond)
		us -= step
	}
}
