package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/achilleasa/rt/output"
	"github.com/achilleasa/rt/renderer"
	"github.com/achilleasa/rt/scene/reader"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts := renderer.DefaultOptions()
	opts.SamplesPerPixel = ctx.Int("samples")
	opts.Workers = ctx.Int("workers")
	opts.YStart = ctx.Int("y-start")
	opts.YInc = ctx.Int("y-inc")
	opts.Seed = ctx.Int64("seed")
	opts.Tracer.Shadows = !ctx.Bool("no-shadows")
	opts.Tracer.Reflections = !ctx.Bool("no-reflections")
	opts.Tracer.Refractions = !ctx.Bool("no-refractions")
	opts.Tracer.ShadowCache = !ctx.Bool("no-cache")
	opts.Tracer.MaxDepth = ctx.Int("max-depth")
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers()
	}

	if ctx.NArg() > 1 {
		return errors.New("too many arguments; expected a single scene file")
	}

	header := !ctx.Bool("no-header")
	outFile := ctx.String("out")
	format, err := output.FormatFromPath(outFile)
	if err != nil {
		return err
	}
	partial := opts.YStart != 0 || opts.YInc != 1
	if format != output.PPM && (partial || !header) {
		return fmt.Errorf("%s output requires a full frame with header", format)
	}

	sc, err := reader.ReadScene(ctx.Args().First(), bvhOptions(ctx))
	if err != nil {
		return err
	}

	r, err := renderer.New(sc, opts)
	if err != nil {
		return err
	}

	// Setup output
	var out io.Writer = os.Stdout
	if outFile != "" && outFile != "-" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	logger.Infof("rendering %dx%d frame on %d workers (%s)", sc.Camera.XRes, sc.Camera.YRes, opts.Workers, cpuModel())

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if format == output.PPM {
		pw := output.NewPixelWriter(out, sc.Camera.XRes, sc.Camera.YRes, header)
		if err = r.Render(renderCtx, pw); err != nil {
			return err
		}
		if err = pw.Flush(); err != nil {
			return err
		}
	} else {
		frame := output.NewFrame(sc.Camera.XRes, sc.Camera.YRes)
		if err = r.Render(renderCtx, frame); err != nil {
			return err
		}
		if err = frame.Encode(out, format); err != nil {
			return err
		}
	}

	displayFrameStats(r.Stats())
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Rows", "% of rows", "Rays", "Shadow rays", "Render time"})
	for _, stat := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", stat.Id),
			fmt.Sprintf("%d", stat.Rows),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Tracer.Rays),
			fmt.Sprintf("%d", stat.Tracer.ShadowRays),
			fmt.Sprintf("%s", stat.RenderTime),
		})
	}
	table.SetFooter([]string{
		"", "", "TOTAL",
		fmt.Sprintf("%d", stats.Tracer.Rays),
		fmt.Sprintf("%d", stats.Tracer.ShadowRays),
		fmt.Sprintf("%s", stats.RenderTime),
	})

	table.Render()
	logger.Infof("frame statistics\n%s", buf.String())
}
