// Package halt stops the program after an unrecoverable fault.
package halt

import "stm32blink/errcode"

// Fatal reports err and never returns.
func Fatal(op string, err error) {
	println("Fatal:", op, string(errcode.Of(err)), errText(err))
	stop()
}

func errText(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
