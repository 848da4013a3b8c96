package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/achilleasa/rt/asset"
	"github.com/achilleasa/rt/gather"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a frame by splitting its rows across renderer processes on a set
// of hosts and assembling the results into a single PPM image.
func GatherFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() < 2 {
		return errors.New("missing arguments; expected a scene file and at least one host")
	}

	res, err := asset.NewResource(ctx.Args().First())
	if err != nil {
		return err
	}
	sceneData, err := io.ReadAll(res)
	res.Close()
	if err != nil {
		return err
	}

	opts := gather.DefaultOptions()
	opts.Shell = ctx.String("shell")
	opts.RemoteBin = ctx.String("remote-bin")
	opts.RenderFlags = ctx.StringSlice("rt-flag")
	if opts.LocalBin, err = os.Executable(); err != nil {
		opts.LocalBin = ctx.String("remote-bin")
	}

	g, err := gather.New(sceneData, ctx.Args().Tail(), opts)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outFile := ctx.String("out"); outFile != "" && outFile != "-" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err = g.Run(runCtx, out); err != nil {
		return err
	}

	displayHostStats(g.Stats())
	return nil
}

func displayHostStats(stats []gather.HostStat) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Host", "Rows", "Render time"})
	for _, stat := range stats {
		table.Append([]string{
			stat.Host,
			fmt.Sprintf("%d", stat.Rows),
			fmt.Sprintf("%s", stat.RenderTime),
		})
	}

	table.Render()
	logger.Infof("host statistics\n%s", buf.String())
}
