package core

// InertialDriver reads the inertial measurement unit. Implementations
// return raw counts at the sensor's configured full-scale range (±2 g,
// ±250 °/s for the stock MPU-6050 setup). A failed read returns zero
// counts; the core never branches on sensor failure.
type InertialDriver interface {
	ReadAcceleration() (x, y, z int16)
	ReadAngularRate() (x, y, z int16)
	ReadTemperature() int16
}

// RangeDriver reads the ultrasonic range in centimeters.
type RangeDriver interface {
	ReadDistance() float64
}

// SensorSnapshot is one instantaneous reading in physical units. It is
// recomputed in full on every telemetry tick; no history is kept.
type SensorSnapshot struct {
	AX, AY, AZ float64 // m/s²
	GX, GY, GZ float64 // deg/s
	Temp       float64 // °C
	Distance   float64 // cm
}

// MPU-6050 conversion factors at ±2 g / ±250 °/s full scale, plus the
// datasheet temperature formula.
const (
	accelCountsPerG  = 16384.0
	gravity          = 9.80665
	gyroCountsPerDeg = 131.0
	tempCountsPerDeg = 340.0
	tempOffsetC      = 36.53
)

// Sensors converts raw driver counts into physical units. No smoothing
// or filtering is applied; each Read is a fresh sample.
type Sensors struct {
	inertial InertialDriver
	ranger   RangeDriver
}

// NewSensors creates the sensor adapter over the given drivers.
func NewSensors(inertial InertialDriver, ranger RangeDriver) *Sensors {
	return &Sensors{
		inertial: inertial,
		ranger:   ranger,
	}
}

// Read samples all sensors once and converts to physical units.
func (s *Sensors) Read() SensorSnapshot {
	ax, ay, az := s.inertial.ReadAcceleration()
	gx, gy, gz := s.inertial.ReadAngularRate()
	t := s.inertial.ReadTemperature()

	return SensorSnapshot{
		AX:       float64(ax) / accelCountsPerG * gravity,
		AY:       float64(ay) / accelCountsPerG * gravity,
		AZ:       float64(az) / accelCountsPerG * gravity,
		GX:       float64(gx) / gyroCountsPerDeg,
		GY:       float64(gy) / gyroCountsPerDeg,
		GZ:       float64(gz) / gyroCountsPerDeg,
		Temp:     float64(t)/tempCountsPerDeg + tempOffsetC,
		Distance: s.ranger.ReadDistance(),
	}
}
