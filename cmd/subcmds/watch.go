package subcmds

import (
	"github.com/vcnkl/pulse/actions"
	"github.com/vcnkl/pulse/config"
	"github.com/vcnkl/pulse/logger"

	"github.com/urfave/cli/v2"
)

func WatchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch paths and react once file changes settle",
		ArgsUsage: "[paths...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "exec",
				Aliases: []string{"e"},
				Usage:   "Run a shell command per settled change ($PULSE_VALUE is the last changed path)",
			},
			&cli.StringSliceFlag{
				Name:    "ignore",
				Aliases: []string{"i"},
				Usage:   "Glob of paths to ignore (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "tracked",
				Usage: "Only watch directories tracked by git",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, log, err := setup(ctx, config.Overrides{
				Cmd:     ctx.String("exec"),
				Paths:   ctx.Args().Slice(),
				Ignore:  ctx.StringSlice("ignore"),
				Tracked: ctx.Bool("tracked"),
			})
			if err != nil {
				return err
			}

			action := actions.NewWatchAction(cfg, log)
			result, err := action.Execute(ctx.Context)
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			log.Info("watch stopped",
				logger.Int("changes", result.Received),
				logger.Int("settled", len(result.Emitted)),
				logger.Int("failed", len(result.Failed)),
				logger.Duration("duration", result.Duration))

			return nil
		},
	}
}
