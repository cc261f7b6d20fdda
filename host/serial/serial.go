package serial

import (
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing the bridge)
type Port interface {
	io.ReadWriteCloser
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (115200 for the robot's serial link)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns a default configuration for the robot link
func DefaultConfig(device string) *Config {
	return &Config{
		Device: device,
		Baud:   115200,
		// Blocking reads; the bridge's reader goroutine owns the port
		// and unblocks when the port closes on shutdown.
		ReadTimeout: 0,
	}
}
