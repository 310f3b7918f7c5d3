package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// PeriodFromHz returns a nanosecond period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return uint64(1_000_000_000 / uint64(freqHz))
}

// CyclesFromMs converts milliseconds to clock cycles at freqHz.
func CyclesFromMs(ms uint32, freqHz uint32) uint64 {
	return uint64(ms) * uint64(freqHz) / 1000
}

// CyclesFromUs converts microseconds to clock cycles at freqHz.
func CyclesFromUs(us uint32, freqHz uint32) uint64 {
	return uint64(us) * uint64(freqHz) / 1_000_000
}

// DurationFromCycles is the wall time taken by n cycles at freqHz.
func DurationFromCycles(n uint64, freqHz uint32) time.Duration {
	if freqHz == 0 {
		return 0
	}
	// Split to keep n*1e9 inside 64 bits for long waits.
	sec := n / uint64(freqHz)
	rem := n % uint64(freqHz)
	return time.Duration(sec)*time.Second + time.Duration(rem*1_000_000_000/uint64(freqHz))
}
