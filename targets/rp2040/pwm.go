//go:build rp2040

package main

import "machine"

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// pwmForPin returns the PWM slice driving a pin.
// RP2040: GPIO pin N maps to:
//
//	Slice: (N >> 1) & 0x7  (divide by 2, mod 8)
//	Channel: N & 1          (even=A, odd=B)
func pwmForPin(pin machine.Pin) pwmPeripheral {
	switch (uint32(pin) >> 1) & 0x7 {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
