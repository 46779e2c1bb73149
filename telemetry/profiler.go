package telemetry

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"
)

var (
	ErrProfileCooldown = errors.New("profile capture on cooldown")
	ErrProfiling       = errors.New("already profiling")
)

// Profiler captures a CPU profile and an execution trace side by side
type Profiler struct {
	mu              sync.Mutex
	isProfiling     bool
	lastCaptureTime time.Time
	captureCooldown time.Duration
	captureDuration time.Duration
	dir             string
	logger          *slog.Logger
	now             func() time.Time
}

// NewProfiler writes profiles into dir
func NewProfiler(dir string, duration, cooldown time.Duration, logger *slog.Logger) (*Profiler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profiles dir: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Profiler{
		captureCooldown: cooldown,
		captureDuration: duration,
		dir:             dir,
		logger:          logger,
		now:             time.Now,
	}, nil
}

// CaptureProfile starts a capture in the background and returns immediately
func (p *Profiler) CaptureProfile(reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isProfiling {
		return ErrProfiling
	}
	if !p.lastCaptureTime.IsZero() && p.now().Sub(p.lastCaptureTime) < p.captureCooldown {
		return fmt.Errorf("%w: last capture was %v ago", ErrProfileCooldown, p.now().Sub(p.lastCaptureTime))
	}
	p.isProfiling = true
	p.lastCaptureTime = p.now()
	baseName := p.baseName(reason)

	go func() {
		defer func() {
			p.mu.Lock()
			p.isProfiling = false
			p.mu.Unlock()
		}()
		if err := p.capture(baseName, p.captureDuration); err != nil {
			p.logger.Warn("profile capture failed", "name", baseName, "error", err)
		}
	}()
	return nil
}

// CaptureProfileSync captures for duration and blocks until both files are written
func (p *Profiler) CaptureProfileSync(reason string, duration time.Duration) error {
	p.mu.Lock()
	if p.isProfiling {
		p.mu.Unlock()
		return ErrProfiling
	}
	p.isProfiling = true
	p.lastCaptureTime = p.now()
	baseName := p.baseName(reason)
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.isProfiling = false
		p.mu.Unlock()
	}()
	return p.capture(baseName, duration)
}

func (p *Profiler) baseName(reason string) string {
	return fmt.Sprintf("tick-overrun-%s-%s", p.now().Format("20060102-150405"), reason)
}

func (p *Profiler) capture(baseName string, duration time.Duration) error {
	var wg sync.WaitGroup
	var cpuErr, traceErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		cpuErr = p.captureCPUProfile(baseName, duration)
	}()
	go func() {
		defer wg.Done()
		traceErr = p.captureTrace(baseName, duration)
	}()
	wg.Wait()

	if err := errors.Join(cpuErr, traceErr); err != nil {
		return err
	}
	p.analyzeProfile(baseName)
	return nil
}

func (p *Profiler) captureCPUProfile(baseName string, duration time.Duration) error {
	path := filepath.Join(p.dir, baseName+".cpu.prof")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create profile file: %w", err)
	}
	defer file.Close()

	if err := pprof.StartCPUProfile(file); err != nil {
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}
	time.Sleep(duration)
	pprof.StopCPUProfile()
	return nil
}

func (p *Profiler) captureTrace(baseName string, duration time.Duration) error {
	path := filepath.Join(p.dir, baseName+".trace")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	defer file.Close()

	if err := trace.Start(file); err != nil {
		return fmt.Errorf("failed to start trace: %w", err)
	}
	time.Sleep(duration)
	trace.Stop()
	return nil
}

// analyzeProfile logs where the capture went and the heap at that moment
func (p *Profiler) analyzeProfile(baseName string) {
	path := filepath.Join(p.dir, baseName+".cpu.prof")
	info, err := os.Stat(path)
	if err != nil {
		p.logger.Warn("could not analyze profile", "error", err)
		return
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	p.logger.Info("profile captured",
		"file", path,
		"kb", float64(info.Size())/1024,
		"view", "go tool pprof -http=:8080 "+path,
		"alloc_kb", m.Alloc/1024,
		"sys_kb", m.Sys/1024,
		"num_gc", m.NumGC,
		"heap_objects", m.HeapObjects,
	)
}

// IsProfiling reports whether a capture is in progress
func (p *Profiler) IsProfiling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isProfiling
}

// Watchdog asks the profiler for a capture after Limit consecutive ticks over Budget
type Watchdog struct {
	Budget   time.Duration
	Limit    int
	Profiler *Profiler

	streak int
}

// Observe records one tick and reports whether a capture was started
func (w *Watchdog) Observe(d time.Duration) bool {
	if d <= w.Budget {
		w.streak = 0
		return false
	}
	w.streak++
	if w.streak < w.Limit || w.Profiler == nil {
		return false
	}
	w.streak = 0
	return w.Profiler.CaptureProfile(fmt.Sprintf("%dms", d.Milliseconds())) == nil
}
