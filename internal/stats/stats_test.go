package stats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectProducesSaneFigures(t *testing.T) {
	c := NewCollector()
	s := c.Collect()

	assert.GreaterOrEqual(t, s.CPUPercent, 0.0)
	assert.LessOrEqual(t, s.CPUPercent, 100.0)
	assert.GreaterOrEqual(t, s.MemPercent, 0.0)
	assert.LessOrEqual(t, s.MemPercent, 100.0)
	assert.Greater(t, s.MemTotalMB, 0.0)
	assert.False(t, s.At.IsZero())
}

func TestCollectTwiceUsesCPUDelta(t *testing.T) {
	c := NewCollector()
	_ = c.Collect()
	s := c.Collect()

	// The second sample has a previous reading to diff against; the figure
	// must stay within bounds either way.
	assert.GreaterOrEqual(t, s.CPUPercent, 0.0)
	assert.LessOrEqual(t, s.CPUPercent, 100.0)
}

func TestSpokenReport(t *testing.T) {
	s := Snapshot{CPUPercent: 12.6, MemPercent: 43.2, DiskPercent: 71.9}
	got := SpokenReport(s)

	assert.Contains(t, got, "CPU load is at 12 percent")
	assert.Contains(t, got, "Memory usage is 43 percent")
	assert.Contains(t, got, "disk is 71 percent full")
	assert.NotContains(t, got, "Warning")
}

func TestSpokenReportMemoryWarning(t *testing.T) {
	s := Snapshot{CPUPercent: 10, MemPercent: 91, DiskPercent: 50}
	assert.Contains(t, SpokenReport(s), "Memory is running low")
}

func TestHUDLines(t *testing.T) {
	s := Snapshot{
		Hostname:   "corehost",
		CPUPercent: 25, CPUCores: 8,
		MemPercent: 50, MemUsedMB: 2048,
		DiskPercent: 75,
	}
	lines := HUDLines(s)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "CPU")
	assert.Contains(t, lines[0], "×8")
	assert.Contains(t, lines[1], "2.0G")
	assert.Contains(t, lines[2], "DSK")
	assert.Equal(t, "corehost", lines[3])
}

func TestHUDLinesWithoutHostname(t *testing.T) {
	lines := HUDLines(Snapshot{})
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.False(t, strings.Contains(l, "corehost"))
	}
}
