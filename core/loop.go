package core

import "time"

// Hardware gathers the external collaborators the controller drives.
// Everything behind these interfaces is platform code; the controller
// itself is portable and owns no hardware state.
type Hardware struct {
	Transport Transport
	Inertial  InertialDriver
	Ranger    RangeDriver
	Drive     DriveDriver
	Steering  SteeringDriver
	Clock     Clock
}

// Controller is the cooperative control loop: one logical thread of
// control interleaving command ingestion, telemetry emission, and
// actuation ramping with elapsed-time polling only. All shared state
// lives here, accessed exclusively from Tick's call stack.
type Controller struct {
	cfg       Config
	clock     Clock
	transport Transport
	sensors   *Sensors
	ramp      *Ramp
	line      *LineBuffer

	state         ActuatorState
	lastTelemetry time.Duration
	phase         RampState
}

// New wires a controller to its hardware.
func New(cfg Config, hw Hardware) *Controller {
	return &Controller{
		cfg:       cfg,
		clock:     hw.Clock,
		transport: hw.Transport,
		sensors:   NewSensors(hw.Inertial, hw.Ranger),
		ramp:      NewRamp(cfg, hw.Drive, hw.Steering),
		line:      NewLineBuffer(cfg.MaxLineLen),
	}
}

// Tick runs one scheduler iteration in the fixed contract order:
// command ingestion, then telemetry if due, then exactly one ramp
// advance. The order matters; actuation last means a target accepted
// this tick is applied this tick, never one tick stale.
func (c *Controller) Tick() {
	now := c.clock()
	c.pollInput(now)
	c.emitTelemetry(now)
	c.phase = c.ramp.Advance(&c.state, now)
}

// Run drives Tick for the process lifetime. It never blocks waiting
// for input; the sleep only yields the scheduler so transport
// goroutines get to run, it is not a tick rate.
func (c *Controller) Run() {
	for {
		c.Tick()
		if c.cfg.LoopYield > 0 {
			time.Sleep(c.cfg.LoopYield)
		}
	}
}

// State returns a copy of the actuator state.
func (c *Controller) State() ActuatorState {
	return c.state
}

// Phase returns the drive phase after the most recent tick.
func (c *Controller) Phase() RampState {
	return c.phase
}

// pollInput drains all currently available input through the line
// buffer and dispatches completed lines. Absence of input is a
// zero-cost no-op.
func (c *Controller) pollInput(now time.Duration) {
	// A stalled partial line is aged out before new bytes are read so
	// it cannot prepend itself to the next well-formed command.
	if c.line.Expired(now, c.cfg.IdleTimeout) {
		c.line.Reset()
	}

	if c.transport.Available() > c.cfg.OverflowLimit {
		// Flooding or noisy sender: drop everything rather than parse
		// at unbounded latency.
		for c.transport.Available() > 0 {
			c.transport.ReadByte()
		}
		c.line.Reset()
		return
	}

	for c.transport.Available() > 0 {
		line, terminated := c.line.Push(c.transport.ReadByte(), now)
		if !terminated {
			continue
		}
		cmd, recognized := DecodeCommand(line)
		if !recognized {
			continue
		}
		c.state.Apply(cmd, c.cfg)
		// The ack only confirms acceptance; application happens on the
		// ramp's schedule.
		c.transport.WriteLine(c.cfg.AckToken)
	}
}

// emitTelemetry writes one frame when the interval has elapsed, at
// most once per interval window.
func (c *Controller) emitTelemetry(now time.Duration) {
	if now-c.lastTelemetry < c.cfg.TelemetryInterval {
		return
	}
	c.transport.WriteLine(EncodeTelemetry(c.sensors.Read()))
	c.lastTelemetry = now
}
