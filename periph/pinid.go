package periph

import (
	"stm32blink/errcode"
	"stm32blink/x/strconvx"
)

// PinID names a GPIO line by bank and number.
type PinID struct {
	Bank Bank
	Num  uint8
}

func (id PinID) String() string {
	return id.Bank.String() + strconvx.Itoa(int(id.Num))
}

// ParsePin accepts the "PB7" form used in board files.
func ParsePin(s string) (PinID, error) {
	bad := errcode.New(errcode.UnknownPin, "periph.parse_pin", s)
	if len(s) < 3 || (s[0] != 'P' && s[0] != 'p') {
		return PinID{}, bad
	}
	b := s[1]
	if b >= 'a' && b <= 'z' {
		b -= 'a' - 'A'
	}
	if b < 'A' || b >= 'A'+NumBanks {
		return PinID{}, bad
	}
	n, err := strconvx.ParseUint(s[2:], 10, 8)
	if err != nil || n >= PinsPerBank {
		return PinID{}, bad
	}
	return PinID{Bank: Bank(b - 'A'), Num: uint8(n)}, nil
}
