//go:build rp2040

package main

import (
	"tinygo.org/x/drivers"
)

// MPU-6050 register map (subset).
const (
	mpuAddress    = 0x68
	regPowerMgmt1 = 0x6B
	regAccelXOutH = 0x3B
	regTempOutH   = 0x41
	regGyroXOutH  = 0x43
)

// MPU6050 reads the inertial sensor at its power-on full scale (±2 g,
// ±250 °/s) and returns raw counts; the core owns the unit conversion.
// Failed reads return zero counts, per the core's driver contract.
type MPU6050 struct {
	bus  drivers.I2C
	addr uint16
	buf  [6]byte
}

// NewMPU6050 creates a reader on the given I2C bus at the default
// address (AD0 low).
func NewMPU6050(bus drivers.I2C) *MPU6050 {
	return &MPU6050{bus: bus, addr: mpuAddress}
}

// Configure wakes the sensor out of sleep. The full-scale selection
// registers keep their power-on defaults, which is what the core's
// scale factors assume.
func (d *MPU6050) Configure() error {
	return d.bus.Tx(d.addr, []byte{regPowerMgmt1, 0x00}, nil)
}

// ReadAcceleration returns the three raw acceleration counts.
func (d *MPU6050) ReadAcceleration() (x, y, z int16) {
	return d.readVector(regAccelXOutH)
}

// ReadAngularRate returns the three raw gyro counts.
func (d *MPU6050) ReadAngularRate() (x, y, z int16) {
	return d.readVector(regGyroXOutH)
}

// ReadTemperature returns the raw temperature count.
func (d *MPU6050) ReadTemperature() int16 {
	buf := d.buf[:2]
	if err := d.bus.Tx(d.addr, []byte{regTempOutH}, buf); err != nil {
		return 0
	}
	return int16(buf[0])<<8 | int16(buf[1])
}

// readVector burst-reads three big-endian int16 registers.
func (d *MPU6050) readVector(reg byte) (x, y, z int16) {
	buf := d.buf[:6]
	if err := d.bus.Tx(d.addr, []byte{reg}, buf); err != nil {
		return 0, 0, 0
	}
	x = int16(buf[0])<<8 | int16(buf[1])
	y = int16(buf[2])<<8 | int16(buf[3])
	z = int16(buf[4])<<8 | int16(buf[5])
	return x, y, z
}
