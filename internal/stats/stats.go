// Package stats collects lightweight system metrics for the sidebar HUD,
// the monitor endpoint, and the spoken status report.
package stats

import (
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot holds one reading of system-wide resource usage.
type Snapshot struct {
	Hostname string    `json:"hostname"`
	Uptime   uint64    `json:"uptime_s"`
	At       time.Time `json:"ts"`

	CPUPercent float64 `json:"cpu_percent"`
	CPUCores   int     `json:"cpu_cores"`
	Load1      float64 `json:"load_1m"`

	MemTotalMB float64 `json:"mem_total_mb"`
	MemUsedMB  float64 `json:"mem_used_mb"`
	MemPercent float64 `json:"mem_percent"`

	DiskTotalGB float64 `json:"disk_total_gb"`
	DiskUsedGB  float64 `json:"disk_used_gb"`
	DiskPercent float64 `json:"disk_percent"`
}

// Collector gathers snapshots. CPU usage is derived from cumulative CPU
// times between calls, so the first reading reports zero.
type Collector struct {
	mu           sync.Mutex
	lastCPUTotal float64
	lastCPUIdle  float64
	cores        int
}

// NewCollector creates a collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Collect gathers the current snapshot. Every probe is best-effort: a probe
// that fails leaves its fields zero, it never fails the whole reading.
func (c *Collector) Collect() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{At: time.Now()}

	if info, err := host.Info(); err == nil {
		s.Hostname = info.Hostname
		s.Uptime = info.Uptime
	}

	c.collectCPU(&s)
	c.collectMem(&s)
	c.collectDisk(&s)

	if avg, err := load.Avg(); err == nil {
		s.Load1 = avg.Load1
	}

	return s
}

func (c *Collector) collectCPU(s *Snapshot) {
	if c.cores == 0 {
		if n, err := cpu.Counts(true); err == nil {
			c.cores = n
		}
	}
	s.CPUCores = c.cores

	times, err := cpu.Times(false)
	if err != nil || len(times) == 0 {
		return
	}

	t := times[0]
	total := t.User + t.Nice + t.System + t.Idle + t.Iowait + t.Irq + t.Softirq + t.Steal
	idle := t.Idle + t.Iowait

	if c.lastCPUTotal > 0 {
		totalDelta := total - c.lastCPUTotal
		idleDelta := idle - c.lastCPUIdle
		if totalDelta > 0 {
			s.CPUPercent = (1 - idleDelta/totalDelta) * 100
		}
	}
	c.lastCPUTotal = total
	c.lastCPUIdle = idle
}

func (c *Collector) collectMem(s *Snapshot) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return
	}
	s.MemTotalMB = float64(vm.Total) / 1024 / 1024
	s.MemUsedMB = float64(vm.Used) / 1024 / 1024
	s.MemPercent = vm.UsedPercent
}

func (c *Collector) collectDisk(s *Snapshot) {
	usage, err := disk.Usage(rootDiskPath())
	if err != nil {
		return
	}
	s.DiskTotalGB = float64(usage.Total) / 1024 / 1024 / 1024
	s.DiskUsedGB = float64(usage.Used) / 1024 / 1024 / 1024
	s.DiskPercent = usage.UsedPercent
}

func rootDiskPath() string {
	if runtime.GOOS == "windows" {
		return "C:"
	}
	return "/"
}
