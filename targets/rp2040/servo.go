//go:build rp2040

package main

import "machine"

// Standard hobby-servo timing, in nanoseconds.
const (
	servoPWMPeriod = 20_000_000 // 50 Hz
	servoMinPulse  = 1_000_000  // 0 degrees
	servoMaxPulse  = 2_000_000  // 180 degrees
)

// SteeringServo implements core.SteeringDriver as a hobby servo on one
// PWM channel.
type SteeringServo struct {
	pwm pwmPeripheral
	ch  uint8
}

// NewSteeringServo configures the servo's PWM slice at 50 Hz.
func NewSteeringServo(pin machine.Pin) (*SteeringServo, error) {
	pwm := pwmForPin(pin)
	if err := pwm.Configure(machine.PWMConfig{Period: servoPWMPeriod}); err != nil {
		return nil, err
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return nil, err
	}
	return &SteeringServo{pwm: pwm, ch: ch}, nil
}

// SetAngle positions the servo, mapping 0-180 degrees onto the 1-2 ms
// pulse range.
func (s *SteeringServo) SetAngle(degrees int) {
	if degrees < 0 {
		degrees = 0
	}
	if degrees > 180 {
		degrees = 180
	}

	pulse := uint64(servoMinPulse + (servoMaxPulse-servoMinPulse)*degrees/180)
	s.pwm.Set(s.ch, uint32(uint64(s.pwm.Top())*pulse/servoPWMPeriod))
}
