package subcmds

import (
	"github.com/vcnkl/pulse/actions"
	"github.com/vcnkl/pulse/config"
	"github.com/vcnkl/pulse/logger"

	"github.com/urfave/cli/v2"
)

func PipeCmd() *cli.Command {
	return &cli.Command{
		Name:  "pipe",
		Usage: "Read values from stdin, print each settled value",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "exec",
				Aliases: []string{"e"},
				Usage:   "Run a shell command per settled value ($PULSE_VALUE) instead of printing it",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, log, err := setup(ctx, config.Overrides{Cmd: ctx.String("exec")})
			if err != nil {
				return err
			}

			action := actions.NewPipeAction(cfg, log, ctx.App.Reader, ctx.App.Writer)
			result, err := action.Execute(ctx.Context)
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			log.Debug("pipe finished",
				logger.Int("received", result.Received),
				logger.Int("emitted", len(result.Emitted)),
				logger.Int("failed", len(result.Failed)),
				logger.Duration("duration", result.Duration))

			if len(result.Failed) > 0 {
				return cli.Exit("hook failed", 1)
			}

			return nil
		},
	}
}
