package actions

import (
	"context"
	"time"

	"github.com/vcnkl/pulse/config"
	"github.com/vcnkl/pulse/debounce"
	"github.com/vcnkl/pulse/logger"
	"github.com/vcnkl/pulse/models"
	"github.com/vcnkl/pulse/watcher"
)

// WatchAction debounces file system changes under the configured paths.
type WatchAction struct {
	config *config.Config
	log    logger.Logger
}

func NewWatchAction(cfg *config.Config, log logger.Logger) *WatchAction {
	return &WatchAction{
		config: cfg,
		log:    log,
	}
}

func (a *WatchAction) Execute(ctx context.Context) (*models.Result, error) {
	start := time.Now()
	result := &models.Result{}

	w, err := watcher.NewWatcher(a.config.Watch(), a.log)
	if err != nil {
		return nil, err
	}
	defer w.Stop()

	settle := settleOutput(a.config, a.log, nil, result)
	d := debounce.NewWithOptions(a.config.Duration(), func(ctx context.Context, path string) {
		a.log.Info("changes settled", logger.String("path", path))
		settle(ctx, path)
	}, &debounce.Options{
		Context: ctx,
		Logger:  a.log,
	})
	defer d.Stop()

	a.log.Info("watching for changes",
		logger.Any("paths", a.config.Watch().Paths),
		logger.Duration("quiet", a.config.Duration()))

	err = w.Start(ctx, func(path string) {
		result.AddReceived()
		d.Emit(path)
	})
	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	return result, nil
}
