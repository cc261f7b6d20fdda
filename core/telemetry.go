package core

import "fmt"

// EncodeTelemetry renders one telemetry frame as a single JSON-shaped
// line. Key order and precision are fixed because the host side parses
// the frame with a fixed schema: inertial and temperature fields carry
// two decimals, range carries one. Every field is always present.
func EncodeTelemetry(s SensorSnapshot) string {
	return fmt.Sprintf(
		`{"ax":%.2f,"ay":%.2f,"az":%.2f,"gx":%.2f,"gy":%.2f,"gz":%.2f,"temp":%.2f,"distance":%.1f}`,
		s.AX, s.AY, s.AZ, s.GX, s.GY, s.GZ, s.Temp, s.Distance)
}
