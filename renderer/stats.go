package renderer

import (
	"time"

	"github.com/achilleasa/rt/tracer"
)

type WorkerStat struct {
	// The worker id.
	Id int

	// Number of rendered rows and the percentage of the assigned rows it
	// represents.
	Rows         int
	FramePercent float32

	// Time spent tracing.
	RenderTime time.Duration

	// Tracer counters.
	Tracer tracer.Stats
}

type FrameStats struct {
	// Individual worker stats.
	Workers []WorkerStat

	// Sum of all tracer counters.
	Tracer tracer.Stats

	// Total render time for entire frame.
	RenderTime time.Duration
}
