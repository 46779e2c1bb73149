package telemetry

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats is one sample of this process
type ProcessStats struct {
	CPUPercent float64 `json:"cpu_percent"`
	RSSBytes   uint64  `json:"rss_bytes"`
	Goroutines int     `json:"goroutines"`
	HeapAlloc  uint64  `json:"heap_alloc"`
	NumGC      uint32  `json:"num_gc"`
}

// ProcessSampler reads CPU and memory usage of the current process
type ProcessSampler struct {
	proc *process.Process
}

// NewProcessSampler samples the current process
func NewProcessSampler() (*ProcessSampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("open process: %w", err)
	}
	return &ProcessSampler{proc: proc}, nil
}

// Sample reads the current usage. CPU is the percentage since the previous sample.
func (s *ProcessSampler) Sample() (ProcessStats, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	ps := ProcessStats{
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  m.HeapAlloc,
		NumGC:      m.NumGC,
	}

	cpu, err := s.proc.Percent(0)
	if err != nil {
		return ps, fmt.Errorf("cpu percent: %w", err)
	}
	ps.CPUPercent = cpu

	mem, err := s.proc.MemoryInfo()
	if err != nil {
		return ps, fmt.Errorf("memory info: %w", err)
	}
	ps.RSSBytes = mem.RSS
	return ps, nil
}
