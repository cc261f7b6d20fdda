//go:build rp2040

package main

import (
	"machine"

	"drivebot/core"
)

// motorPWMPeriod is 20 kHz in nanoseconds, above audible whine.
const motorPWMPeriod = 50_000

// MotorPins names the wiring of one H-bridge channel: two direction
// inputs and one PWM speed input.
type MotorPins struct {
	In1 machine.Pin
	In2 machine.Pin
	PWM machine.Pin
}

type motorChannel struct {
	in1 machine.Pin
	in2 machine.Pin
	pwm pwmPeripheral
	ch  uint8
}

// HBridge implements core.DriveDriver over a dual-channel H-bridge
// (TB6612 class): direction via the IN pins, speed via PWM duty.
type HBridge struct {
	channels [2]motorChannel
}

// NewHBridge configures both drive channels. The two PWM pins may
// share a slice; the period is configured identically either way.
func NewHBridge(left, right MotorPins) (*HBridge, error) {
	h := &HBridge{}
	for i, pins := range []MotorPins{left, right} {
		ch, err := newMotorChannel(pins)
		if err != nil {
			return nil, err
		}
		h.channels[i] = ch
	}
	return h, nil
}

func newMotorChannel(pins MotorPins) (motorChannel, error) {
	pins.In1.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pins.In2.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pins.In1.Low()
	pins.In2.Low()

	pwm := pwmForPin(pins.PWM)
	if err := pwm.Configure(machine.PWMConfig{Period: motorPWMPeriod}); err != nil {
		return motorChannel{}, err
	}
	ch, err := pwm.Channel(pins.PWM)
	if err != nil {
		return motorChannel{}, err
	}
	pwm.Set(ch, 0)

	return motorChannel{in1: pins.In1, in2: pins.In2, pwm: pwm, ch: ch}, nil
}

// SetDirection sets the H-bridge inputs for one channel. Anything but
// forward or backward coasts the motor.
func (h *HBridge) SetDirection(ch core.DriveChannel, dir core.Direction) {
	m := &h.channels[ch]
	switch dir {
	case core.DirectionForward:
		m.in1.High()
		m.in2.Low()
	case core.DirectionBackward:
		m.in1.Low()
		m.in2.High()
	default:
		m.in1.Low()
		m.in2.Low()
	}
}

// SetOutput scales the 0-255 duty onto the slice's wrap value.
func (h *HBridge) SetOutput(ch core.DriveChannel, duty uint8) {
	m := &h.channels[ch]
	m.pwm.Set(m.ch, uint32(duty)*m.pwm.Top()/255)
}
