package core

import (
	"testing"
	"time"
)

// driveEvent records what one SetOutput put on the motors, together
// with the direction in effect at that moment.
type driveEvent struct {
	dir  Direction
	duty uint8
}

type fakeDrive struct {
	dir  [2]Direction
	duty [2]uint8
	log  []driveEvent
}

func (d *fakeDrive) SetDirection(ch DriveChannel, dir Direction) {
	d.dir[ch] = dir
}

func (d *fakeDrive) SetOutput(ch DriveChannel, duty uint8) {
	d.duty[ch] = duty
	if ch == DriveLeft {
		d.log = append(d.log, driveEvent{dir: d.dir[ch], duty: duty})
	}
}

type fakeSteering struct {
	angle int
}

func (s *fakeSteering) SetAngle(degrees int) {
	s.angle = degrees
}

func TestStepToward(t *testing.T) {
	tests := []struct {
		current, target, step int
		want                  int
	}{
		{0, 100, 5, 5},
		{95, 100, 5, 100},
		{98, 100, 5, 100}, // clamp, not symmetric step
		{100, 100, 5, 100},
		{100, 0, 5, 95},
		{3, 0, 5, 0},
		{0, -10, 2, -2},
		{-10, 0, 2, -8},
	}

	for _, test := range tests {
		got := stepToward(test.current, test.target, test.step)
		if got != test.want {
			t.Errorf("stepToward(%d, %d, %d) = %d, want %d",
				test.current, test.target, test.step, got, test.want)
		}
	}
}

func TestRampConvergesWithoutOvershoot(t *testing.T) {
	cfg := DefaultConfig()
	drive := &fakeDrive{}
	steer := &fakeSteering{}
	r := NewRamp(cfg, drive, steer)

	s := &ActuatorState{
		TargetSpeed:     98,
		TargetDirection: DirectionForward,
		TargetAngle:     121,
	}

	speedTicks := 0
	angleTicks := 0
	for i := 0; i < 200; i++ {
		prevSpeed := s.CurrentSpeed
		prevAngle := s.CurrentAngle
		r.Advance(s, 0)

		if s.CurrentSpeed > s.TargetSpeed {
			t.Fatalf("tick %d: speed %d overshot target %d", i, s.CurrentSpeed, s.TargetSpeed)
		}
		if s.CurrentAngle > s.TargetAngle {
			t.Fatalf("tick %d: angle %d overshot target %d", i, s.CurrentAngle, s.TargetAngle)
		}
		if d := s.CurrentSpeed - prevSpeed; d > cfg.SpeedStep {
			t.Fatalf("tick %d: speed stepped by %d, limit %d", i, d, cfg.SpeedStep)
		}
		if d := s.CurrentAngle - prevAngle; d > cfg.AngleStep {
			t.Fatalf("tick %d: angle stepped by %d, limit %d", i, d, cfg.AngleStep)
		}

		if speedTicks == 0 && s.CurrentSpeed == s.TargetSpeed {
			speedTicks = i + 1
		}
		if angleTicks == 0 && s.CurrentAngle == s.TargetAngle {
			angleTicks = i + 1
		}
	}

	// ceil(98/5) and ceil(121/2).
	if speedTicks != 20 {
		t.Errorf("speed converged in %d ticks, want 20", speedTicks)
	}
	if angleTicks != 61 {
		t.Errorf("angle converged in %d ticks, want 61", angleTicks)
	}
}

func TestRampReversalSettles(t *testing.T) {
	cfg := DefaultConfig()
	drive := &fakeDrive{}
	steer := &fakeSteering{}
	r := NewRamp(cfg, drive, steer)

	s := &ActuatorState{TargetSpeed: 50, TargetDirection: DirectionForward}
	now := time.Millisecond
	for i := 0; i < 10; i++ {
		r.Advance(s, now)
		now += time.Millisecond
	}
	if s.CurrentSpeed != 50 || drive.dir[DriveLeft] != DirectionForward {
		t.Fatalf("setup: speed=%d dir=%v, want 50/forward", s.CurrentSpeed, drive.dir[DriveLeft])
	}

	reversalStart := len(drive.log)
	s.TargetDirection = DirectionBackward

	if phase := r.Advance(s, now); phase != RampSettling {
		t.Fatalf("first reversal tick phase = %v, want settling", phase)
	}
	if s.CurrentSpeed != 0 || drive.duty[DriveLeft] != 0 || drive.duty[DriveRight] != 0 {
		t.Fatalf("reversal did not stop the drive: speed=%d duty=%d/%d",
			s.CurrentSpeed, drive.duty[DriveLeft], drive.duty[DriveRight])
	}

	// Still inside the settle window.
	now += cfg.SettleDelay / 2
	if phase := r.Advance(s, now); phase != RampSettling {
		t.Fatalf("mid-settle phase = %v, want settling", phase)
	}

	now += cfg.SettleDelay
	if phase := r.Advance(s, now); phase != RampBackward {
		t.Fatalf("post-settle phase = %v, want backward", phase)
	}
	if s.CurrentSpeed != cfg.SpeedStep {
		t.Errorf("post-settle speed = %d, want one step (%d) from 0", s.CurrentSpeed, cfg.SpeedStep)
	}
	if drive.dir[DriveLeft] != DirectionBackward || drive.dir[DriveRight] != DirectionBackward {
		t.Errorf("post-settle direction = %v/%v, want backward", drive.dir[DriveLeft], drive.dir[DriveRight])
	}

	// The motors must never see a nonzero duty in the old direction
	// once the reversal is requested.
	for _, e := range drive.log[reversalStart:] {
		if e.dir == DirectionForward && e.duty > 0 {
			t.Fatalf("forward duty %d applied after reversal requested", e.duty)
		}
	}
}

func TestRampDirectionNoneHoldsStopped(t *testing.T) {
	cfg := DefaultConfig()
	drive := &fakeDrive{}
	r := NewRamp(cfg, drive, &fakeSteering{})

	s := &ActuatorState{
		CurrentSpeed:    60,
		TargetSpeed:     60,
		TargetDirection: DirectionNone,
	}
	if phase := r.Advance(s, 0); phase != RampStopped {
		t.Fatalf("phase = %v, want stopped", phase)
	}
	if drive.duty[DriveLeft] != 0 || drive.duty[DriveRight] != 0 {
		t.Errorf("duty = %d/%d, want 0 regardless of current speed",
			drive.duty[DriveLeft], drive.duty[DriveRight])
	}
}

func TestRampStopThenReverseStillSettles(t *testing.T) {
	cfg := DefaultConfig()
	drive := &fakeDrive{}
	r := NewRamp(cfg, drive, &fakeSteering{})

	s := &ActuatorState{TargetSpeed: 50, TargetDirection: DirectionForward}
	now := time.Millisecond
	for i := 0; i < 10; i++ {
		r.Advance(s, now)
		now += time.Millisecond
	}

	// stop, coast a few ticks, then reverse. The last applied drive
	// direction is still forward, so the settle interval must happen.
	s.TargetDirection = DirectionNone
	s.TargetSpeed = 0
	for i := 0; i < 3; i++ {
		if phase := r.Advance(s, now); phase != RampStopped {
			t.Fatalf("stopped phase = %v, want stopped", phase)
		}
		now += time.Millisecond
	}

	s.TargetDirection = DirectionBackward
	s.TargetSpeed = 50
	if phase := r.Advance(s, now); phase != RampSettling {
		t.Fatalf("reverse-after-stop phase = %v, want settling", phase)
	}
}

func TestRampAbortedReversalRearmsSettle(t *testing.T) {
	cfg := DefaultConfig()
	drive := &fakeDrive{}
	r := NewRamp(cfg, drive, &fakeSteering{})

	s := &ActuatorState{TargetSpeed: 50, TargetDirection: DirectionForward}
	now := time.Millisecond
	for i := 0; i < 10; i++ {
		r.Advance(s, now)
		now += time.Millisecond
	}

	// Begin a reversal, then abandon it before the settle delay
	// elapses by flipping the target back to forward.
	s.TargetDirection = DirectionBackward
	if phase := r.Advance(s, now); phase != RampSettling {
		t.Fatalf("reversal tick phase = %v, want settling", phase)
	}
	now += time.Millisecond
	s.TargetDirection = DirectionForward
	if phase := r.Advance(s, now); phase != RampForward {
		t.Fatalf("aborted-reversal tick phase = %v, want forward", phase)
	}

	// A real reversal long after the stale settle deadline must still
	// hold the drive stopped for a fresh settle window.
	now += time.Second
	s.TargetDirection = DirectionBackward
	if phase := r.Advance(s, now); phase != RampSettling {
		t.Fatalf("late reversal phase = %v, want settling", phase)
	}
	if s.CurrentSpeed != 0 || drive.duty[DriveLeft] != 0 || drive.duty[DriveRight] != 0 {
		t.Fatalf("late reversal did not stop the drive: speed=%d duty=%d/%d",
			s.CurrentSpeed, drive.duty[DriveLeft], drive.duty[DriveRight])
	}

	now += cfg.SettleDelay / 2
	if phase := r.Advance(s, now); phase != RampSettling {
		t.Errorf("mid-settle phase = %v, want settling", phase)
	}
	now += cfg.SettleDelay
	if phase := r.Advance(s, now); phase != RampBackward {
		t.Errorf("post-settle phase = %v, want backward", phase)
	}
}

func TestRampSteeringRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	steer := &fakeSteering{}
	r := NewRamp(cfg, &fakeDrive{}, steer)

	s := &ActuatorState{TargetAngle: 120}
	for i := 0; i < 60; i++ {
		r.Advance(s, 0)
	}
	if s.CurrentAngle != 120 || steer.angle != 120 {
		t.Fatalf("after 60 ticks angle = %d (servo %d), want 120", s.CurrentAngle, steer.angle)
	}

	// Holds stable under further ticks.
	for i := 0; i < 10; i++ {
		r.Advance(s, 0)
	}
	if s.CurrentAngle != 120 || steer.angle != 120 {
		t.Errorf("angle drifted to %d (servo %d) after convergence", s.CurrentAngle, steer.angle)
	}
}
