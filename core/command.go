package core

import "strings"

// CommandKind tags the decoded command variant.
type CommandKind uint8

const (
	// CommandInvalid marks a line that matched no known grammar. It is
	// silently dropped, never acknowledged.
	CommandInvalid CommandKind = iota

	// CommandDrive is forward:<N> or backward:<N>.
	CommandDrive

	// CommandStop is the bare stop command.
	CommandStop

	// CommandSteer is servo:<N>.
	CommandSteer
)

// Command is one decoded serial command. Decoding owns all string
// handling; everything downstream switches on Kind.
type Command struct {
	Kind      CommandKind
	Direction Direction // CommandDrive only
	Speed     int       // CommandDrive only
	Angle     int       // CommandSteer only
}

// DecodeCommand decodes one trimmed command line. The second return is
// false for unrecognized text, which the protocol ignores without an
// acknowledgment or error.
func DecodeCommand(line string) (Command, bool) {
	switch {
	case line == "stop":
		return Command{Kind: CommandStop}, true

	case strings.HasPrefix(line, "forward:"):
		return Command{
			Kind:      CommandDrive,
			Direction: DirectionForward,
			Speed:     leadingInt(line[len("forward:"):]),
		}, true

	case strings.HasPrefix(line, "backward:"):
		return Command{
			Kind:      CommandDrive,
			Direction: DirectionBackward,
			Speed:     leadingInt(line[len("backward:"):]),
		}, true

	case strings.HasPrefix(line, "servo:"):
		return Command{
			Kind:  CommandSteer,
			Angle: leadingInt(line[len("servo:"):]),
		}, true
	}

	return Command{}, false
}

// Apply writes the command's targets into the actuator state, clamping
// them to their allowed ranges. Current values are untouched; the ramp
// controller converges them on subsequent ticks.
func (s *ActuatorState) Apply(cmd Command, cfg Config) {
	switch cmd.Kind {
	case CommandDrive:
		s.TargetDirection = cmd.Direction
		s.TargetSpeed = clampInt(cmd.Speed, 0, 255)

	case CommandStop:
		s.TargetDirection = DirectionNone
		s.TargetSpeed = 0

	case CommandSteer:
		s.TargetAngle = clampInt(cmd.Angle, cfg.MinAngle, cfg.MaxAngle)
	}
}

// leadingInt parses the leading integer of s, stopping at the first
// non-digit. No leading digits parse as 0. This matches the stock
// firmware's tolerance of malformed numeric suffixes ("forward:abc"
// commands speed 0) and is kept deliberately.
func leadingInt(s string) int {
	i := 0
	negative := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		negative = s[i] == '-'
		i++
	}

	value := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		value = value*10 + int(s[i]-'0')
	}

	if negative {
		value = -value
	}
	return value
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
