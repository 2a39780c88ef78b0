package cmd

import (
	"github.com/vcnkl/pulse/cmd/subcmds"

	"github.com/urfave/cli/v2"
)

func NewApp() *cli.App {
	return &cli.App{
		Name:    "pulse",
		Usage:   "Debounce bursts of values and react once they settle",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to pulse.yml",
			},
			&cli.DurationFlag{
				Name:    "duration",
				Aliases: []string{"t"},
				Usage:   "Quiet period before a value is emitted (default: 200ms)",
			},
		},
		Commands: []*cli.Command{
			subcmds.PipeCmd(),
			subcmds.WatchCmd(),
		},
	}
}
