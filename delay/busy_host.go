//go:build !tinygo

package delay

import "time"

// Busy on the host defers to the scheduler; time.Sleep never returns early.
type Busy struct{}

func (Busy) DelayMs(ms uint32) { time.Sleep(time.Duration(ms) * time.Millisecond) }
func (Busy) DelayUs(us uint32) { time.Sleep(time.Duration(us) * time.Microsecond) }
