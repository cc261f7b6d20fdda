//go:build rp2040

package main

import (
	"machine"
	"time"

	"drivebot/core"

	"tinygo.org/x/drivers/hcsr04"
)

// Pin assignment (Raspberry Pi Pico).
const (
	pinMotorLeftIn1  = machine.GP2
	pinMotorLeftIn2  = machine.GP3
	pinMotorLeftPWM  = machine.GP6 // slice 3A
	pinMotorRightIn1 = machine.GP8
	pinMotorRightIn2 = machine.GP9
	pinMotorRightPWM = machine.GP7 // slice 3B
	pinServo         = machine.GP12
	pinSonarTrigger  = machine.GP10
	pinSonarEcho     = machine.GP11
	// I2C0 on the default GP4/GP5 pins carries the MPU-6050.
)

func main() {
	// Give USB CDC a moment to enumerate so early telemetry isn't lost.
	time.Sleep(2 * time.Second)

	err := machine.I2C0.Configure(machine.I2CConfig{Frequency: 400_000})
	if err != nil {
		return
	}

	imu := NewMPU6050(machine.I2C0)
	// Sensor failure is the driver layer's concern: a dead IMU reads
	// zero counts and the loop keeps running.
	_ = imu.Configure()

	sonar := hcsr04.New(pinSonarTrigger, pinSonarEcho)
	sonar.Configure()

	drive, err := NewHBridge(
		MotorPins{In1: pinMotorLeftIn1, In2: pinMotorLeftIn2, PWM: pinMotorLeftPWM},
		MotorPins{In1: pinMotorRightIn1, In2: pinMotorRightIn2, PWM: pinMotorRightPWM},
	)
	if err != nil {
		return
	}

	steering, err := NewSteeringServo(pinServo)
	if err != nil {
		return
	}

	start := time.Now()
	ctrl := core.New(core.DefaultConfig(), core.Hardware{
		Transport: serialTransport{},
		Inertial:  imu,
		Ranger:    &rangeSensor{dev: sonar},
		Drive:     drive,
		Steering:  steering,
		Clock:     func() time.Duration { return time.Since(start) },
	})

	ctrl.Run()
}

// serialTransport adapts the USB CDC console to the core's polled byte
// transport. ReadByte is only called when Buffered reports data.
type serialTransport struct{}

func (serialTransport) Available() int {
	return machine.Serial.Buffered()
}

func (serialTransport) ReadByte() byte {
	b, err := machine.Serial.ReadByte()
	if err != nil {
		return 0
	}
	return b
}

func (serialTransport) WriteLine(s string) {
	// Byte-at-a-time to avoid allocating on the telemetry path.
	for i := 0; i < len(s); i++ {
		machine.Serial.WriteByte(s[i])
	}
	machine.Serial.WriteByte('\n')
}

// rangeSensor adapts the HC-SR04 driver (millimeters) to the core's
// centimeter contract.
type rangeSensor struct {
	dev hcsr04.Device
}

func (r *rangeSensor) ReadDistance() float64 {
	return float64(r.dev.ReadDistance()) / 10
}
