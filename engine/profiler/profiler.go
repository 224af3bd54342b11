package profiler

import (
	"log"
	"runtime"
	"time"
)

// Profiler tracks frame rate, module update time and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	updateCount int
	updateTotal time.Duration
	updateMax   time.Duration
}

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval sets how often Tick logs. Values <= 0 keep the default of one second.
func WithUpdateInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// Stats is one logged window of profiler measurements.
type Stats struct {
	FPS         float64
	AvgUpdate   time.Duration
	MaxUpdate   time.Duration
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		frameCount:     0,
		lastTime:       time.Now(),
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// RecordUpdate adds the time one frame spent evaluating modules.
//
// Parameters:
//   - d: wall time of the frame's scene updates
func (p *Profiler) RecordUpdate(d time.Duration) {
	p.updateCount++
	p.updateTotal += d
	if d > p.updateMax {
		p.updateMax = d
	}
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, module update time, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	s := p.collect(elapsed)
	log.Printf("[Profiler] FPS: %.2f | Update: %.3f ms (max %.3f ms) | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		s.FPS, float64(s.AvgUpdate.Microseconds())/1000, float64(s.MaxUpdate.Microseconds())/1000,
		s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)

	p.frameCount = 0
	p.lastTime = currentTime
	p.updateCount = 0
	p.updateTotal = 0
	p.updateMax = 0
	return true
}

// collect reads memory statistics and summarizes the window that just elapsed.
func (p *Profiler) collect(elapsed time.Duration) Stats {
	runtime.ReadMemStats(&p.memStats)

	s := Stats{
		FPS:       float64(p.frameCount) / elapsed.Seconds(),
		MaxUpdate: p.updateMax,
		// Alloc is live heap; Sys is the process footprint obtained from the OS.
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:   float64(p.memStats.Sys) / 1024 / 1024,
		GCCount: p.memStats.NumGC,
	}
	if p.updateCount > 0 {
		s.AvgUpdate = p.updateTotal / time.Duration(p.updateCount)
	}

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if gcCount := s.GCCount; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > s.MaxPauseUs {
				s.MaxPauseUs = pause
			}
		}
	}

	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return s
}
