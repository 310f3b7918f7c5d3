//go:build !tinygo

package halt

import "os"

// Hook ends the process. Tests replace it to observe a halt.
var Hook = func() { os.Exit(1) }

func stop() {
	Hook()
	panic("halt: hook returned")
}
