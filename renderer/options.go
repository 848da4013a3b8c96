package renderer

import (
	"fmt"

	"github.com/achilleasa/rt/tracer"
)

type Options struct {
	// Number of jittered samples per pixel; values <= 1 trace a single
	// ray through the pixel corner.
	SamplesPerPixel int

	// Number of parallel workers. Each worker owns a tracer.
	Workers int

	// Render rows YStart, YStart+YInc, ... only. Used for splitting a
	// frame across processes.
	YStart int
	YInc   int

	// Seed for the super-sampling jitter.
	Seed int64

	// Tracer effect toggles.
	Tracer tracer.Options
}

// Get the default render options.
func DefaultOptions() Options {
	return Options{
		SamplesPerPixel: 1,
		Workers:         1,
		YStart:          0,
		YInc:            1,
		Tracer:          tracer.DefaultOptions(),
	}
}

// Validate options against a frame of the given height.
func (o *Options) Validate(frameH int) error {
	if o.Workers < 1 {
		return fmt.Errorf("%w: need at least one worker; got %d", ErrInvalidOptions, o.Workers)
	}
	if o.YInc < 1 {
		return fmt.Errorf("%w: row increment must be positive; got %d", ErrInvalidOptions, o.YInc)
	}
	if o.YStart < 0 || o.YStart >= frameH {
		return fmt.Errorf("%w: start row %d outside frame of height %d", ErrInvalidOptions, o.YStart, frameH)
	}
	if o.SamplesPerPixel < 1 {
		o.SamplesPerPixel = 1
	}
	return nil
}

// Get the rows assigned by the start row and increment.
func (o *Options) Rows(frameH int) []int {
	rows := make([]int, 0, (frameH-o.YStart+o.YInc-1)/o.YInc)
	for y := o.YStart; y < frameH; y += o.YInc {
		rows = append(rows, y)
	}
	return rows
}
