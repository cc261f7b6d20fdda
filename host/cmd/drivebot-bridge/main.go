// Command drivebot-bridge runs on the Raspberry Pi between the robot
// controller's serial link and the PC: telemetry frames are forwarded
// over UDP, joystick samples come back as drive commands.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drivebot/host/bridge"
	"drivebot/host/serial"
)

var (
	device       = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud         = flag.Int("baud", 115200, "Baud rate")
	pcAddr       = flag.String("pc", "10.100.102.16", "PC address receiving telemetry")
	sensorPort   = flag.Int("sensor-port", 5055, "UDP port for telemetry on the PC")
	joystickPort = flag.Int("joystick-port", 5005, "Local UDP port for joystick samples")
	verbose      = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()
	log.SetPrefix("drivebot-bridge: ")

	scfg := &serial.Config{Device: *device, Baud: *baud, ReadTimeout: 0}
	port, err := openWithRetry(scfg, 5, 2*time.Second)
	if err != nil {
		log.Fatal(err)
	}
	defer port.Close()

	cfg := bridge.DefaultConfig()
	cfg.PCAddr = *pcAddr
	cfg.SensorPort = *sensorPort
	cfg.JoystickPort = *joystickPort
	cfg.Verbose = *verbose

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("bridge running: %s <-> %s:%d (joystick on :%d)",
		*device, *pcAddr, *sensorPort, *joystickPort)
	if err := bridge.New(cfg, port).Run(ctx); err != nil {
		log.Fatal(err)
	}
	log.Print("shutdown complete")
}

// openWithRetry opens the serial port, retrying while the controller
// boots or re-enumerates after a reset.
func openWithRetry(cfg *serial.Config, attempts int, delay time.Duration) (serial.Port, error) {
	var err error
	for i := 0; i < attempts; i++ {
		var port serial.Port
		port, err = serial.Open(cfg)
		if err == nil {
			// Let the controller finish resetting after the port opens.
			time.Sleep(2 * time.Second)
			return port, nil
		}
		log.Printf("open %s (attempt %d/%d): %v", cfg.Device, i+1, attempts, err)
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("could not open %s after %d attempts: %w", cfg.Device, attempts, err)
}
