package subcmds

import (
	"github.com/vcnkl/pulse/config"
	"github.com/vcnkl/pulse/logger"

	"github.com/urfave/cli/v2"
)

func setup(ctx *cli.Context, o config.Overrides) (*config.Config, logger.Logger, error) {
	cfg, err := config.NewConfig(ctx.String("config"))
	if err != nil {
		return nil, nil, cli.Exit("error: "+err.Error(), 1)
	}

	o.Duration = ctx.Duration("duration")
	o.Debug = ctx.Bool("debug")
	if err = cfg.Apply(o); err != nil {
		return nil, nil, cli.Exit("error: "+err.Error(), 1)
	}

	return cfg, logger.New(cfg.Pulse().Level()), nil
}
