package main

import (
	"os"

	"github.com/achilleasa/rt/cmd"
	"github.com/achilleasa/rt/gather"
	"github.com/achilleasa/rt/log"
	"github.com/achilleasa/rt/tracer"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	sceneFlags := []cli.Flag{
		cli.BoolFlag{
			Name:  "exact-axis",
			Usage: "consider all three axes when picking BVH split axes",
		},
	}

	app := cli.NewApp()
	app.Name = "rt"
	app.Usage = "render scenes using recursive ray tracing"
	app.Version = "1.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level (debug, info, notice, warning, error)",
			EnvVar: "RT_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene",
			Description: `
Parse a scene definition, build a bounding volume hierarchy and trace the
frame. The scene is read from stdin if no file is given and the image is
written to stdout as a binary PPM unless --out selects a file.

Use --y-start and --y-inc to render every y-inc-th row starting at y-start.
Combined with --no-header this produces fragments that the gather command
interleaves into a complete image.`,
			ArgsUsage: "[scene_file]",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:   "samples, s",
					Value:  1,
					Usage:  "jittered samples per pixel",
					EnvVar: "RT_SAMPLES",
				},
				cli.IntFlag{
					Name:   "workers, w",
					Value:  0,
					Usage:  "number of render workers; 0 uses one per logical CPU",
					EnvVar: "RT_WORKERS",
				},
				cli.Int64Flag{
					Name:   "seed",
					Value:  1,
					Usage:  "seed for the sample jitter",
					EnvVar: "RT_SEED",
				},
				cli.IntFlag{
					Name:  "max-depth",
					Value: tracer.MaxDepth,
					Usage: "max ray recursion depth",
				},
				cli.IntFlag{
					Name:  "y-start",
					Value: 0,
					Usage: "first row to render",
				},
				cli.IntFlag{
					Name:  "y-inc",
					Value: 1,
					Usage: "row increment",
				},
				cli.BoolFlag{
					Name:  "no-shadows",
					Usage: "disable shadow rays",
				},
				cli.BoolFlag{
					Name:  "no-reflections",
					Usage: "disable reflection rays",
				},
				cli.BoolFlag{
					Name:  "no-refractions",
					Usage: "disable refraction rays",
				},
				cli.BoolFlag{
					Name:  "no-cache",
					Usage: "disable the shadow occluder cache",
				},
				cli.BoolFlag{
					Name:  "no-header",
					Usage: "omit the PPM header",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "",
					Usage: "image file (.ppm, .png, .bmp or .tiff); stdout if omitted",
				},
			}, sceneFlags...),
			Action: cmd.RenderFrame,
		},
		{
			Name:      "info",
			Usage:     "display scene statistics",
			ArgsUsage: "[scene_file]",
			Flags:     sceneFlags,
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:  "gather",
			Usage: "render a scene across multiple hosts",
			Description: `
Split the frame rows across one renderer process per host and assemble their
output into a PPM image. Processes for "localhost" are started directly;
other hosts are reached through the remote shell.`,
			ArgsUsage: "scene_file host [host ...]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "shell",
					Value: gather.DefaultOptions().Shell,
					Usage: "remote shell command",
				},
				cli.StringFlag{
					Name:  "remote-bin",
					Value: gather.DefaultOptions().RemoteBin,
					Usage: "renderer binary on remote hosts",
				},
				cli.StringSliceFlag{
					Name:  "rt-flag",
					Value: &cli.StringSlice{},
					Usage: "flag forwarded to each render process; may be repeated",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "",
					Usage: "image file; stdout if omitted",
				},
			},
			Action: cmd.GatherFrame,
		},
		{
			Name:   "list-devices",
			Usage:  "list the available CPUs",
			Action: cmd.ListDevices,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("rt").Error(err)
		os.Exit(1)
	}
}
