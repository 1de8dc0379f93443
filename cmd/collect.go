package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soakops/soakmon/collector"
	"github.com/soakops/soakmon/config"
	"github.com/soakops/soakmon/ui"
)

// runCollect starts a collection run against the selected target and
// samples until interrupted or the target disappears.
func runCollect(opts *Options, settings config.Settings) error {
	var (
		target   collector.Target
		launched *collector.Launched
		err      error
	)
	switch {
	case settings.ProcessID != 0:
		target, err = collector.FindByPID(settings.ProcessID)
	case settings.ProcessName != "":
		target, err = collector.FindByName(settings.ProcessName)
	case len(settings.Program) > 0:
		launched, err = collector.LaunchProgram(settings.Program)
		if err == nil {
			target = launched
			defer launched.Stop()
		}
	default:
		target = collector.HostTarget{}
	}
	if err != nil {
		return err
	}

	interval := time.Duration(settings.SampleRate * float64(time.Second))
	logPath := collector.LogFileName(target.Name(), time.Now())
	col, err := collector.New(target, interval, logPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if opts.Watch {
		errCh := make(chan error, 1)
		go func() { errCh <- col.Run(ctx) }()
		if uiErr := ui.Run(col, cancel); uiErr != nil {
			cancel()
			<-errCh
			return uiErr
		}
		cancel()
		return <-errCh
	}

	fmt.Fprintf(os.Stderr, "Monitoring %s every %gs, logging to %s (ctrl-c to stop)\n",
		target.Describe(), settings.SampleRate, logPath)
	return col.Run(ctx)
}
