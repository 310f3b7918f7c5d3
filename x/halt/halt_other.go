//go:build tinygo && !cortexm

package halt

func stop() {
	for {
	}
}
