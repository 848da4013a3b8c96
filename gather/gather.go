package gather

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/achilleasa/rt/log"
	"github.com/achilleasa/rt/output"
	"github.com/achilleasa/rt/scene/reader"
	"golang.org/x/sync/errgroup"
)

// Workers on this host are started directly instead of through the shell.
const LocalHost = "localhost"

type Options struct {
	// Remote shell used for reaching non-local hosts.
	Shell string

	// Renderer binary on remote hosts.
	RemoteBin string

	// Renderer binary for localhost workers.
	LocalBin string

	// Extra flags forwarded to each worker's render command.
	RenderFlags []string
}

// Get the default gather options.
func DefaultOptions() Options {
	return Options{
		Shell:     "ssh",
		RemoteBin: "rt",
		LocalBin:  "rt",
	}
}

// Render statistics for a single host.
type HostStat struct {
	Host string

	// Number of rows rendered by the host.
	Rows int

	// Time from process start until the last fragment byte arrived.
	RenderTime time.Duration
}

type commandFn func(ctx context.Context, name string, args ...string) *exec.Cmd

// A Gatherer splits a frame across a set of renderer processes and
// reassembles their output.
type Gatherer struct {
	logger log.Logger
	opts   Options

	sceneData []byte
	hosts     []string

	xres, yres int
	rows       []int

	// Guards progress and stats.
	mutex     sync.Mutex
	doneBytes int
	percent   int
	stats     []HostStat

	command commandFn
}

// Create a gatherer for the given scene and hosts. The scene is only scanned
// for its resolution; workers do the actual parsing.
func New(sceneData []byte, hosts []string, opts Options) (*Gatherer, error) {
	xres, yres, err := reader.ReadResolution(bytes.NewReader(sceneData))
	if err != nil {
		return nil, err
	}
	if xres <= 0 || yres <= 0 {
		return nil, fmt.Errorf("gather: invalid resolution %dx%d", xres, yres)
	}

	rows, err := Partition(yres, len(hosts))
	if err != nil {
		return nil, err
	}

	stats := make([]HostStat, len(hosts))
	for h, host := range hosts {
		stats[h] = HostStat{Host: host, Rows: rows[h]}
	}

	return &Gatherer{
		logger:    log.New("gather"),
		opts:      opts,
		sceneData: sceneData,
		hosts:     hosts,
		xres:      xres,
		yres:      yres,
		rows:      rows,
		stats:     stats,
		command:   exec.CommandContext,
	}, nil
}

// Get the frame resolution.
func (g *Gatherer) Resolution() (int, int) {
	return g.xres, g.yres
}

// Get the per-host statistics of the last run.
func (g *Gatherer) Stats() []HostStat {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return append([]HostStat(nil), g.stats...)
}

// Build the command that runs worker h of n on host.
func (g *Gatherer) Command(host string, h, n int) (string, []string) {
	args := []string{
		"--log-level", "error",
		"render",
		"--no-header",
		"--y-start", strconv.Itoa(h),
		"--y-inc", strconv.Itoa(n),
	}
	args = append(args, g.opts.RenderFlags...)
	args = append(args, "-")

	if host == LocalHost {
		return g.opts.LocalBin, args
	}
	return g.opts.Shell, append([]string{host, g.opts.RemoteBin}, args...)
}

// Start all workers, collect their fragments and write the assembled PPM
// image to out. Any worker error or stderr output aborts every worker.
func (g *Gatherer) Run(ctx context.Context, out io.Writer) error {
	start := time.Now()
	g.logger.Noticef("rendering %dx%d frame on %d hosts", g.xres, g.yres, len(g.hosts))

	fragments := make([][]byte, len(g.hosts))
	grp, grpCtx := errgroup.WithContext(ctx)
	for h := range g.hosts {
		h := h
		fragments[h] = make([]byte, g.rows[h]*g.xres*pixelSize)
		if err := g.startWorker(grpCtx, grp, h, fragments[h]); err != nil {
			// Cancel the workers that already started
			grp.Go(func() error { return err })
			break
		}
	}

	if err := grp.Wait(); err != nil {
		return err
	}

	g.logger.Infof("writing image")
	w := bufio.NewWriter(out)
	if err := output.WriteHeader(w, g.xres, g.yres); err != nil {
		return err
	}
	if err := Interleave(fragments, g.xres, w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	g.logger.Noticef("frame gathered in %s", time.Since(start).Truncate(time.Millisecond))
	return nil
}

// Launch worker h and register its stdout and stderr readers with grp.
func (g *Gatherer) startWorker(ctx context.Context, grp *errgroup.Group, h int, frag []byte) error {
	host := g.hosts[h]
	name, args := g.Command(host, h, len(g.hosts))

	cmd := g.command(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(g.sceneData)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}

	g.logger.Infof("starting worker %d on host %s: %s %s", h, host, name, strings.Join(args, " "))
	start := time.Now()
	if err = cmd.Start(); err != nil {
		return fmt.Errorf("gather: starting %s for host %s failed: %w", name, host, err)
	}

	stderrDone := make(chan struct{})
	grp.Go(func() error {
		defer close(stderrDone)
		return watchStderr(host, stderr)
	})

	grp.Go(func() error {
		readErr := g.readFragment(h, stdout, frag)
		if readErr == nil {
			g.workerDone(h, time.Since(start))
			readErr = expectEOF(host, stdout)
		}
		if readErr != nil {
			// The worker may be blocked writing to a pipe nobody reads
			_ = cmd.Process.Kill()
		}

		<-stderrDone
		waitErr := cmd.Wait()
		if readErr != nil {
			return readErr
		}
		if waitErr != nil && ctx.Err() == nil {
			return fmt.Errorf("gather: worker on host %s failed: %w", host, waitErr)
		}
		return nil
	})
	return nil
}

// Fill frag from the worker output one row at a time.
func (g *Gatherer) readFragment(h int, stdout io.Reader, frag []byte) error {
	rowSize := g.xres * pixelSize
	for offset := 0; offset < len(frag); offset += rowSize {
		n, err := io.ReadFull(stdout, frag[offset:offset+rowSize])
		if err != nil {
			return fmt.Errorf("%w: host %s sent %d of %d bytes", ErrShortFragment, g.hosts[h], offset+n, len(frag))
		}
		g.progress(rowSize)
	}
	return nil
}

// Ensure that a worker does not send anything past its fragment.
func expectEOF(host string, stdout io.Reader) error {
	var extra [1]byte
	if n, _ := io.ReadFull(stdout, extra[:]); n != 0 {
		return fmt.Errorf("%w: host %s sent more data than its assigned rows", ErrFragmentSize, host)
	}
	return nil
}

// Any output on a worker's stderr is treated as a fatal error.
func watchStderr(host string, stderr io.Reader) error {
	buf := make([]byte, 512)
	n, _ := io.ReadAtLeast(stderr, buf, 1)
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%w: host %s: %s", ErrWorkerOutput, host, strings.TrimSpace(string(buf[:n])))
}

// Track received bytes and log the completed percentage when it changes.
func (g *Gatherer) progress(n int) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.doneBytes += n
	percent := 100 * g.doneBytes / (g.xres * g.yres * pixelSize)
	if percent != g.percent {
		g.percent = percent
		g.logger.Infof("%d%% done", percent)
	}
}

func (g *Gatherer) workerDone(h int, elapsed time.Duration) {
	g.mutex.Lock()
	g.stats[h].RenderTime = elapsed
	g.mutex.Unlock()

	g.logger.Infof("worker on host %s is done. Execution time: %s", g.hosts[h], elapsed.Truncate(time.Millisecond))
}
