package core

import "time"

// Direction of drive motor rotation.
type Direction uint8

const (
	DirectionNone Direction = iota
	DirectionForward
	DirectionBackward
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	default:
		return "none"
	}
}

// DriveChannel identifies one of the two drive motors. Both channels
// always receive identical commands; turning is done by the steering
// servo, not differential drive.
type DriveChannel uint8

const (
	DriveLeft DriveChannel = iota
	DriveRight
)

// DriveDriver is the abstract drive-motor interface the core uses.
// Platform-specific implementations handle the actual H-bridge and
// PWM hardware.
type DriveDriver interface {
	// SetOutput sets the duty cycle (0 fully off, 255 fully on) of one
	// drive channel.
	SetOutput(ch DriveChannel, duty uint8)

	// SetDirection sets the rotation direction of one drive channel.
	// Only DirectionForward and DirectionBackward are meaningful; the
	// core stops the outputs itself before changing direction.
	SetDirection(ch DriveChannel, dir Direction)
}

// SteeringDriver positions the steering servo.
type SteeringDriver interface {
	SetAngle(degrees int)
}

// Transport is the byte-level serial link. The core only ever polls:
// ReadByte is called solely when Available reports pending data, so
// implementations never need to block.
type Transport interface {
	// Available returns the number of buffered unread input bytes.
	Available() int

	// ReadByte removes and returns the next input byte.
	ReadByte() byte

	// WriteLine writes one newline-terminated line of output.
	WriteLine(s string)
}

// Clock reports elapsed time since an arbitrary fixed origin. The loop
// only compares differences, so any monotonic source works; tests
// inject a hand-advanced one.
type Clock func() time.Duration
