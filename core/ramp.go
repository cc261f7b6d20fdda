package core

import "time"

// ActuatorState holds the commanded targets and the ramped current
// values of the drive motors and steering servo. The parser writes
// targets, the ramp controller writes current values; both run from
// the scheduler loop's own call stack, so no locking is involved.
type ActuatorState struct {
	CurrentSpeed    int // duty cycle 0..255
	TargetSpeed     int
	TargetDirection Direction
	CurrentAngle    int // degrees
	TargetAngle     int
}

// RampState is the drive phase after one Advance.
type RampState uint8

const (
	RampStopped RampState = iota
	RampSettling
	RampForward
	RampBackward
)

func (s RampState) String() string {
	switch s {
	case RampSettling:
		return "settling"
	case RampForward:
		return "forward"
	case RampBackward:
		return "backward"
	default:
		return "stopped"
	}
}

// Ramp advances an ActuatorState toward its targets by a bounded step
// per tick and applies the result to the drive and steering hardware.
// It is a tick-driven state machine over {Stopped, Settling, Forward,
// Backward}: transitions fire from comparing the target direction
// against the direction most recently applied to the motors, and a
// reversal always passes through a stopped settle interval first.
type Ramp struct {
	cfg      Config
	drive    DriveDriver
	steering SteeringDriver

	// applied is the last drive direction actually put on the motors.
	// It stays at the old direction while the drive is held stopped,
	// so forward → stop → backward still settles before reversing.
	applied     Direction
	settling    bool
	settleUntil time.Duration
}

// NewRamp creates a ramp controller driving the given hardware.
func NewRamp(cfg Config, drive DriveDriver, steering SteeringDriver) *Ramp {
	return &Ramp{
		cfg:      cfg,
		drive:    drive,
		steering: steering,
	}
}

// Advance performs one tick: it steps the steering angle, resolves the
// drive direction (inserting the settle interval on reversal), steps
// the speed, and writes both to the hardware. Current values step by
// at most cfg.AngleStep / cfg.SpeedStep and are clamped at their
// targets, never past them.
func (r *Ramp) Advance(s *ActuatorState, now time.Duration) RampState {
	// Steering ramps every tick, independent of the drive phase.
	s.CurrentAngle = stepToward(s.CurrentAngle, s.TargetAngle, r.cfg.AngleStep)
	r.steering.SetAngle(s.CurrentAngle)

	if s.TargetDirection == DirectionNone {
		// Held stopped regardless of the ramped speed value.
		s.CurrentSpeed = stepToward(s.CurrentSpeed, s.TargetSpeed, r.cfg.SpeedStep)
		r.settling = false
		r.stopDrive()
		return RampStopped
	}

	if r.applied != DirectionNone && r.applied != s.TargetDirection {
		// Reversal: full stop first, held for the settle delay, so the
		// motors never see the old direction with the new speed.
		s.CurrentSpeed = 0
		if !r.settling {
			r.settling = true
			r.settleUntil = now + r.cfg.SettleDelay
		}
		if now < r.settleUntil {
			r.stopDrive()
			return RampSettling
		}
	}
	// Adopting a direction ends any settle in progress, including one
	// abandoned by flipping the target back before the delay elapsed.
	// A later reversal must re-arm its own settle window.
	r.settling = false
	r.applied = s.TargetDirection

	s.CurrentSpeed = stepToward(s.CurrentSpeed, s.TargetSpeed, r.cfg.SpeedStep)

	r.drive.SetDirection(DriveLeft, r.applied)
	r.drive.SetDirection(DriveRight, r.applied)
	duty := uint8(clampInt(s.CurrentSpeed, 0, 255))
	r.drive.SetOutput(DriveLeft, duty)
	r.drive.SetOutput(DriveRight, duty)

	if r.applied == DirectionForward {
		return RampForward
	}
	return RampBackward
}

func (r *Ramp) stopDrive() {
	r.drive.SetOutput(DriveLeft, 0)
	r.drive.SetOutput(DriveRight, 0)
}

// stepToward moves current one bounded step toward target, clamping at
// the target so it never overshoots in either direction.
func stepToward(current, target, step int) int {
	switch {
	case current < target:
		current += step
		if current > target {
			current = target
		}
	case current > target:
		current -= step
		if current < target {
			current = target
		}
	}
	return current
}
