package core

import "time"

// Config holds the tunable constants of the control loop. Ramp rates
// and thresholds are set here rather than hardcoded in the control
// logic so a target can retune them without touching the algorithms.
type Config struct {
	// SpeedStep is the maximum change of the drive duty cycle per tick.
	SpeedStep int

	// AngleStep is the maximum change of the steering angle per tick,
	// in degrees.
	AngleStep int

	// MinAngle and MaxAngle bound the steering angle in degrees.
	// Commanded angles outside the range are clamped.
	MinAngle int
	MaxAngle int

	// SettleDelay is how long the drive is held stopped before the
	// opposite direction is applied. Reversing a brushed motor under
	// load without the pause causes current spikes.
	SettleDelay time.Duration

	// IdleTimeout is the maximum gap between bytes of one command line.
	// A non-empty line buffer older than this is discarded.
	IdleTimeout time.Duration

	// OverflowLimit is the maximum number of pending unread input
	// bytes. Beyond it all pending input is drained and the line
	// buffer discarded, bounding worst-case latency under a flooding
	// sender.
	OverflowLimit int

	// MaxLineLen is the line buffer capacity. A line growing past it
	// with no terminator is discarded.
	MaxLineLen int

	// TelemetryInterval is the minimum spacing between telemetry
	// frames.
	TelemetryInterval time.Duration

	// AckToken is the line written back when a command is accepted.
	AckToken string

	// LoopYield is slept between ticks of Run to yield to other
	// goroutines. It is a scheduler yield, not a tick rate: timing
	// granularity comes from the elapsed-time checks above.
	LoopYield time.Duration
}

// DefaultConfig returns the configuration matching the robot's stock
// firmware behavior.
func DefaultConfig() Config {
	return Config{
		SpeedStep:         5,
		AngleStep:         2,
		MinAngle:          0,
		MaxAngle:          180,
		SettleDelay:       100 * time.Millisecond,
		IdleTimeout:       10 * time.Millisecond,
		OverflowLimit:     128,
		MaxLineLen:        64,
		TelemetryInterval: 50 * time.Millisecond,
		AckToken:          "ack",
		LoopYield:         10 * time.Microsecond,
	}
}
