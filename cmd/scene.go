package cmd

import (
	"errors"

	"github.com/achilleasa/rt/scene/bvh"
	"github.com/achilleasa/rt/scene/reader"
	"github.com/urfave/cli"
)

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() > 1 {
		return errors.New("too many arguments; expected a single scene file")
	}

	sc, err := reader.ReadScene(ctx.Args().First(), bvhOptions(ctx))
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sc.Stats())
	logger.Infof("%s", sc.Camera.Frame())
	return nil
}

func bvhOptions(ctx *cli.Context) bvh.Options {
	opts := bvh.DefaultOptions()
	opts.LegacyAxis = !ctx.Bool("exact-axis")
	return opts
}
