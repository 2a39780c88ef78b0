package actions

import (
	"context"
	"fmt"
	"io"

	"github.com/vcnkl/pulse/config"
	"github.com/vcnkl/pulse/debounce"
	"github.com/vcnkl/pulse/exec"
	"github.com/vcnkl/pulse/logger"
	"github.com/vcnkl/pulse/models"
)

// settleOutput builds the debouncer output shared by all actions: the settled
// value goes to the hook when one is configured and to out otherwise.
func settleOutput(cfg *config.Config, log logger.Logger, out io.Writer, result *models.Result) debounce.Output[string] {
	var hook *exec.Hook
	if cfg.Hook().Enabled() {
		hook = exec.NewHook(cfg.Hook(), log)
		if out != nil {
			hook.WithStdout(out)
		}
	}

	return func(ctx context.Context, value string) {
		result.AddEmitted(value)

		if hook == nil {
			if out != nil {
				fmt.Fprintln(out, value)
			}
			return
		}

		if err := hook.Run(ctx, value); err != nil {
			if ctx.Err() != nil {
				log.Debug("hook interrupted", logger.String("value", value))
				return
			}
			log.Error("hook failed", logger.String("value", value), logger.Err(err))
			result.AddFailed(value, err)
		}
	}
}
