package renderer

import (
	"context"
	"time"

	"github.com/achilleasa/rt/log"
	"github.com/achilleasa/rt/scene"
	"github.com/achilleasa/rt/tracer"
	"github.com/achilleasa/rt/types"
	"golang.org/x/sync/errgroup"
)

// A RowSink receives rendered rows in ascending row order.
type RowSink interface {
	WriteRow(y int, row []types.Color) error
}

type renderedRow struct {
	y   int
	buf []types.Color
}

// A renderer splits the rows of a frame among a pool of workers and streams
// the results to a sink in row order.
type Renderer struct {
	logger log.Logger

	scene *scene.Scene
	opts  Options
	stats FrameStats
}

// Create a new renderer for a finalized scene.
func New(sc *scene.Scene, opts Options) (*Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if err := opts.Validate(sc.Camera.YRes); err != nil {
		return nil, err
	}

	return &Renderer{
		logger: log.New("renderer"),
		scene:  sc,
		opts:   opts,
	}, nil
}

// Render the assigned rows and pass them to sink. Workers pull rows from a
// shared queue; a collector reorders completed rows so the sink always sees
// them in ascending order. The first error returned by the sink aborts the
// render.
func (r *Renderer) Render(ctx context.Context, sink RowSink) error {
	rows := r.opts.Rows(r.scene.Camera.YRes)
	numWorkers := r.opts.Workers
	if numWorkers > len(rows) {
		numWorkers = len(rows)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	r.stats = FrameStats{Workers: make([]WorkerStat, numWorkers)}
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	rowCh := make(chan int)
	doneCh := make(chan renderedRow, numWorkers)

	// Row buffers are recycled once the collector has handed them to the sink
	xRes := r.scene.Camera.XRes
	freeCh := make(chan []types.Color, 2*numWorkers)
	for i := 0; i < cap(freeCh); i++ {
		freeCh <- make([]types.Color, xRes)
	}

	g.Go(func() error {
		defer close(rowCh)
		for _, y := range rows {
			select {
			case rowCh <- y:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	workers, wctx := errgroup.WithContext(gctx)
	for i := 0; i < numWorkers; i++ {
		stat := &r.stats.Workers[i]
		stat.Id = i
		workers.Go(func() error {
			return r.work(wctx, stat, rowCh, freeCh, doneCh)
		})
	}
	g.Go(func() error {
		defer close(doneCh)
		return workers.Wait()
	})

	g.Go(func() error {
		return r.collect(gctx, rows, doneCh, freeCh, sink)
	})

	err := g.Wait()
	r.stats.RenderTime = time.Since(start)
	for i := range r.stats.Workers {
		stat := &r.stats.Workers[i]
		if len(rows) > 0 {
			stat.FramePercent = 100.0 * float32(stat.Rows) / float32(len(rows))
		}
		r.stats.Tracer.Add(stat.Tracer)
	}

	if err == nil && ctx.Err() != nil {
		err = ErrInterrupted
	}
	return err
}

func (r *Renderer) work(ctx context.Context, stat *WorkerStat, rowCh <-chan int, freeCh chan []types.Color, doneCh chan<- renderedRow) error {
	tr := tracer.New(r.scene, r.opts.Tracer)
	fr := r.scene.Camera.Frame()
	defer func() { stat.Tracer = tr.Stats() }()

	for {
		// Grab a buffer before a row so the lowest pending row can
		// always be completed.
		var buf []types.Color
		select {
		case buf = <-freeCh:
		case <-ctx.Done():
			return nil
		}

		y, ok := <-rowCh
		if !ok {
			return nil
		}

		start := time.Now()
		tr.TraceRow(fr, y, r.opts.SamplesPerPixel, r.opts.Seed, buf)
		stat.RenderTime += time.Since(start)
		stat.Rows++

		select {
		case doneCh <- renderedRow{y: y, buf: buf}:
		case <-ctx.Done():
			return nil
		}
	}
}

func (r *Renderer) collect(ctx context.Context, rows []int, doneCh <-chan renderedRow, freeCh chan<- []types.Color, sink RowSink) error {
	pending := make(map[int][]types.Color)
	next := 0

	for done := range doneCh {
		pending[done.y] = done.buf

		for next < len(rows) {
			buf, ok := pending[rows[next]]
			if !ok {
				break
			}
			delete(pending, rows[next])

			if err := sink.WriteRow(rows[next], buf); err != nil {
				return err
			}
			next++
			freeCh <- buf
		}
	}

	if next != len(rows) && ctx.Err() == nil {
		r.logger.Warningf("rendered %d of %d rows", next, len(rows))
	}
	return nil
}

// Get render statistics for the last frame.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}
