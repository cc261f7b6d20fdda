// Package bridge relays between the robot's serial link and the
// PC-side UDP sockets: telemetry frames travel serial → UDP, joystick
// samples travel UDP → serial as command lines. The bridge owns the
// serial port exclusively for its lifetime.
package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net"
	"strings"
	"time"

	"drivebot/host/serial"
)

// Config holds the bridge settings.
type Config struct {
	// PCAddr is the address of the PC receiving telemetry.
	PCAddr string

	// SensorPort is the UDP port on the PC for telemetry frames.
	SensorPort int

	// JoystickPort is the local UDP port joystick samples arrive on.
	JoystickPort int

	// AckTimeout bounds the wait for the controller's ack after a
	// command write. A missing ack is logged, not fatal.
	AckTimeout time.Duration

	// SwitchPause is how long to pause after the stop injected between
	// opposite drive commands.
	SwitchPause time.Duration

	// MaxFrameErrors is the tolerated streak of invalid telemetry
	// frames before the reader gives up on the link.
	MaxFrameErrors int

	Verbose bool
}

// DefaultConfig returns the bridge settings matching the original
// deployment.
func DefaultConfig() Config {
	return Config{
		SensorPort:     5055,
		JoystickPort:   5005,
		AckTimeout:     100 * time.Millisecond,
		SwitchPause:    100 * time.Millisecond,
		MaxFrameErrors: 20,
	}
}

// JoystickSample is one joystick packet from the PC.
type JoystickSample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// requiredFields must all be present in a telemetry frame before it is
// forwarded.
var requiredFields = []string{"ax", "ay", "az", "gx", "gy", "gz", "distance"}

// Bridge relays in both directions until its context is canceled.
type Bridge struct {
	cfg  Config
	port serial.Port

	commands chan string
	acks     chan struct{}
}

// New creates a bridge over an already-open serial port.
func New(cfg Config, port serial.Port) *Bridge {
	return &Bridge{
		cfg:      cfg,
		port:     port,
		commands: make(chan string, 16),
		acks:     make(chan struct{}, 1),
	}
}

// Run opens the UDP sockets and relays until ctx is canceled or a
// goroutine fails. Cancellation closes the port and sockets, which
// unblocks the readers.
func (b *Bridge) Run(ctx context.Context) error {
	pcIP := net.ParseIP(b.cfg.PCAddr)
	if pcIP == nil {
		return fmt.Errorf("invalid PC address %q", b.cfg.PCAddr)
	}

	sensorConn, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: pcIP, Port: b.cfg.SensorPort})
	if err != nil {
		return fmt.Errorf("failed to open telemetry socket: %w", err)
	}
	defer sensorConn.Close()

	joyConn, err := net.ListenUDP("udp", &net.UDPAddr{Port: b.cfg.JoystickPort})
	if err != nil {
		return fmt.Errorf("failed to listen for joystick samples: %w", err)
	}
	defer joyConn.Close()

	go func() {
		<-ctx.Done()
		b.port.Close()
		sensorConn.Close()
		joyConn.Close()
	}()

	errc := make(chan error, 3)
	go func() { errc <- b.readSerial(sensorConn) }()
	go func() { errc <- b.listenJoystick(joyConn) }()
	go func() { errc <- b.writeCommands(ctx) }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errc:
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
}

// readSerial owns all reads from the serial port. Ack lines are routed
// to the command writer; everything else is treated as a telemetry
// frame, validated, timestamped, and forwarded.
func (b *Bridge) readSerial(telemetry io.Writer) error {
	scanner := bufio.NewScanner(b.port)
	errStreak := 0
	forwarded := 0
	lastReport := time.Now()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line == "ack" {
			select {
			case b.acks <- struct{}{}:
			default:
			}
			continue
		}

		frame, err := ValidateTelemetry(line, time.Now())
		if err != nil {
			errStreak++
			if b.cfg.Verbose {
				log.Printf("dropping frame: %v", err)
			}
			if errStreak > b.cfg.MaxFrameErrors {
				return fmt.Errorf("too many bad telemetry frames (%d): %w", errStreak, err)
			}
			continue
		}
		errStreak = 0

		if _, err := telemetry.Write(frame); err != nil {
			log.Printf("telemetry forward failed: %v", err)
			continue
		}
		forwarded++

		if time.Since(lastReport) >= 5*time.Second {
			log.Printf("forwarded %d telemetry frames", forwarded)
			lastReport = time.Now()
		}
	}
	return scanner.Err()
}

// listenJoystick decodes joystick samples and queues the commands they
// map to, skipping repeats so the serial link only carries changes.
func (b *Bridge) listenJoystick(conn *net.UDPConn) error {
	buf := make([]byte, 1024)
	var prevDrive, prevServo string

	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			return err
		}

		var sample JoystickSample
		if err := json.Unmarshal(buf[:n], &sample); err != nil {
			log.Printf("bad joystick packet: %v", err)
			continue
		}

		if drive := DriveCommand(sample.Y); drive != prevDrive {
			b.enqueue(drive)
			prevDrive = drive
		}
		if servo := ServoCommand(sample.X); servo != prevServo {
			b.enqueue(servo)
			prevServo = servo
		}
	}
}

func (b *Bridge) enqueue(cmd string) {
	select {
	case b.commands <- cmd:
	default:
		log.Printf("command queue full, dropping %q", cmd)
	}
}

// writeCommands is the only writer on the serial port. It injects a
// stop between opposite drive commands and waits for the controller's
// ack after every write.
func (b *Bridge) writeCommands(ctx context.Context) error {
	var lastDrive string

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-b.commands:
			if isDrive(cmd) {
				if opposite(cmd, lastDrive) {
					if err := b.sendCommand("stop"); err != nil {
						return err
					}
					log.Print("sent stop for direction switch")
					time.Sleep(b.cfg.SwitchPause)
				}
				lastDrive = cmd
			}

			if err := b.sendCommand(cmd); err != nil {
				return err
			}
		}
	}
}

// sendCommand writes one command line and waits for its ack.
func (b *Bridge) sendCommand(cmd string) error {
	// Discard any stale ack from a previous exchange.
	select {
	case <-b.acks:
	default:
	}

	if _, err := b.port.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("serial write of %q failed: %w", cmd, err)
	}
	if b.cfg.Verbose {
		log.Printf("sent %q", cmd)
	}

	select {
	case <-b.acks:
	case <-time.After(b.cfg.AckTimeout):
		log.Printf("no ack for %q", cmd)
	}
	return nil
}

// DriveCommand maps the joystick Y axis to a drive command line. The
// ±0.1 band around center maps to stop.
func DriveCommand(y float64) string {
	speed := int(math.Abs(y) * 255)
	switch {
	case y < -0.1:
		return fmt.Sprintf("backward:%d", speed)
	case y > 0.1:
		return fmt.Sprintf("forward:%d", speed)
	default:
		return "stop"
	}
}

// ServoCommand maps the joystick X axis to a steering command line,
// centered on 85 degrees with a ±15 degree throw.
func ServoCommand(x float64) string {
	return fmt.Sprintf("servo:%d", int(85+x*15))
}

func isDrive(cmd string) bool {
	return cmd == "stop" ||
		strings.HasPrefix(cmd, "forward:") ||
		strings.HasPrefix(cmd, "backward:")
}

// opposite reports whether two drive commands reverse direction.
func opposite(cmd, prev string) bool {
	return (strings.HasPrefix(cmd, "forward:") && strings.HasPrefix(prev, "backward:")) ||
		(strings.HasPrefix(cmd, "backward:") && strings.HasPrefix(prev, "forward:"))
}

// ValidateTelemetry parses one telemetry line, checks the required
// fields, and stamps the receive time (Unix seconds) before returning
// the frame re-encoded for forwarding.
func ValidateTelemetry(line string, now time.Time) ([]byte, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(line), &data); err != nil {
		return nil, fmt.Errorf("malformed telemetry frame: %w", err)
	}
	for _, field := range requiredFields {
		if _, ok := data[field]; !ok {
			return nil, fmt.Errorf("telemetry frame missing %q", field)
		}
	}
	data["timestamp"] = float64(now.UnixNano()) / float64(time.Second)
	return json.Marshal(data)
}
