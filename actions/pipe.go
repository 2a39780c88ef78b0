package actions

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/vcnkl/pulse/config"
	"github.com/vcnkl/pulse/debounce"
	"github.com/vcnkl/pulse/logger"
	"github.com/vcnkl/pulse/models"
)

// PipeAction debounces newline-delimited values read from in.
type PipeAction struct {
	config *config.Config
	log    logger.Logger
	in     io.Reader
	out    io.Writer
}

func NewPipeAction(cfg *config.Config, log logger.Logger, in io.Reader, out io.Writer) *PipeAction {
	return &PipeAction{
		config: cfg,
		log:    log,
		in:     in,
		out:    out,
	}
}

// Execute returns once in is exhausted and the last burst has settled, or
// when ctx ends. A burst still open when ctx ends is dropped and in is closed
// if it is an io.Closer.
func (a *PipeAction) Execute(ctx context.Context) (*models.Result, error) {
	start := time.Now()
	result := &models.Result{}

	d := debounce.NewWithOptions(a.config.Duration(), settleOutput(a.config, a.log, a.out, result), &debounce.Options{
		Context: ctx,
		Logger:  a.log,
	})
	defer d.Stop()

	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(a.in)
		for scanner.Scan() {
			result.AddReceived()
			d.Emit(scanner.Text())
		}
		scanErr <- scanner.Err()
	}()

	select {
	case <-ctx.Done():
		a.log.Debug("pipe interrupted")
		// unblocks the scanner; a reader that cannot be closed leaves it
		// parked until the process exits
		if c, ok := a.in.(io.Closer); ok {
			_ = c.Close()
		}
	case err := <-scanErr:
		if err != nil {
			return nil, errors.Wrap(err, "failed to read input")
		}
		if err = d.Wait(ctx); err != nil {
			a.log.Debug("pipe interrupted while settling")
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}
