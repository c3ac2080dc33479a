package stats

import "fmt"

// memWarnPercent is the RAM level above which the spoken report appends a
// warning sentence.
const memWarnPercent = 80

// SpokenReport phrases a snapshot as a status sentence suitable for TTS.
func SpokenReport(s Snapshot) string {
	msg := fmt.Sprintf(
		"Status report for the server. CPU load is at %d percent. Memory usage is %d percent. The disk is %d percent full.",
		int(s.CPUPercent), int(s.MemPercent), int(s.DiskPercent),
	)
	if s.MemPercent > memWarnPercent {
		msg += " Warning! Memory is running low."
	}
	return msg
}

// HUDLines formats a snapshot as short sidebar lines.
func HUDLines(s Snapshot) []string {
	lines := []string{
		fmt.Sprintf("CPU %3.0f%%  ×%d", s.CPUPercent, s.CPUCores),
		fmt.Sprintf("MEM %3.0f%%  %.1fG", s.MemPercent, s.MemUsedMB/1024),
		fmt.Sprintf("DSK %3.0f%%", s.DiskPercent),
	}
	if s.Hostname != "" {
		lines = append(lines, s.Hostname)
	}
	return lines
}
