package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one reporting window of frame and memory statistics.
type Stats struct {
	// Frames is the number of frames ticked in the window.
	Frames int
	// FPS is Frames divided by the window's wall time.
	FPS float64
	// AvgFrameTime and MaxFrameTime summarize the per-frame durations passed to Tick.
	AvgFrameTime, MaxFrameTime time.Duration
	// HeapMB is live heap memory; SysMB is memory obtained from the OS.
	HeapMB, SysMB float64
	// AllocRateMB is heap allocation churn in MB per second over the window.
	AllocRateMB float64
	// NumGC is the cumulative GC count; LastPauseUs and MaxPauseUs cover pauses in the window.
	NumGC                   uint32
	LastPauseUs, MaxPauseUs uint64
}

// Profiler tracks frame rate, frame time and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval. Not safe for concurrent use; tick it from the frame loop.
type Profiler struct {
	label          string
	updateInterval time.Duration
	now            func() time.Time

	frameCount     int
	frameTimeSum   time.Duration
	frameTimeMax   time.Duration
	lastTime       time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second and the log prefix to "Profiler".
//
// Parameters:
//   - options: functional options for interval and label
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		label:          "Profiler",
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Parameters:
//   - frameTime: how long the frame's update and render took
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(frameTime time.Duration) bool {
	p.frameCount++
	p.frameTimeSum += frameTime
	if frameTime > p.frameTimeMax {
		p.frameTimeMax = frameTime
	}

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	st := Stats{
		Frames:       p.frameCount,
		AvgFrameTime: p.frameTimeSum / time.Duration(p.frameCount),
		MaxFrameTime: p.frameTimeMax,
	}
	seconds := elapsed.Seconds()
	if seconds > 0 {
		st.FPS = float64(p.frameCount) / seconds
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc: live heap. TotalAlloc: cumulative, tracks churn. Sys: process footprint.
	st.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	st.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	if seconds > 0 {
		st.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / seconds
	}

	st.NumGC = p.memStats.NumGC
	if st.NumGC > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		st.LastPauseUs = p.memStats.PauseNs[(st.NumGC-1)%256] / 1000

		startIdx := p.lastGCCount
		if st.NumGC-startIdx > 256 {
			startIdx = st.NumGC - 256
		}
		for i := startIdx; i < st.NumGC; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > st.MaxPauseUs {
				st.MaxPauseUs = pause
			}
		}
	}

	log.Printf("[%s] FPS: %.2f | Frame: %.2f ms avg, %.2f ms max | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		p.label, st.FPS, ms(st.AvgFrameTime), ms(st.MaxFrameTime), st.HeapMB, st.AllocRateMB, st.NumGC, st.LastPauseUs, st.MaxPauseUs, st.SysMB)

	p.last = st
	p.frameCount = 0
	p.frameTimeSum = 0
	p.frameTimeMax = 0
	p.lastTime = currentTime
	p.lastGCCount = st.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the statistics of the most recently logged window.
//
// Returns:
//   - Stats: the last report, zero before the first one
func (p *Profiler) Last() Stats {
	return p.last
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
