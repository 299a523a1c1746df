package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/subsync-cli/internal/core/services"
	"github.com/custodia-labs/subsync-cli/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sync scheduler as a foreground daemon",
	Long: `Starts the scheduler and runs both sync jobs on their configured
intervals until interrupted. Edits to the config file are picked up
without a restart.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner, err := buildSyncRunner(ctx, daemonBudget())
	if err != nil {
		return err
	}

	scheduler := services.NewScheduler(schedulerConfig(), schedulerStore, runner)

	// Reload intervals when the config file changes on disk.
	watcher, err := watchConfig(ctx, scheduler)
	if err != nil {
		logger.Warn("config watch unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		cmd.Printf("received %s, shutting down\n", sig)
		cancel()
		_ = scheduler.Stop()
	}()

	cmd.Println("scheduler running; press Ctrl+C to stop")
	if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// watchConfig reloads the scheduler configuration whenever the config file
// is rewritten. Editors often replace the file, so Create events on the
// watched directory count too.
func watchConfig(ctx context.Context, scheduler *services.Scheduler) (*fsnotify.Watcher, error) {
	if configStore == nil {
		return nil, errors.New("config store not initialised")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	path := configStore.Path()
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := configStore.Load(); err != nil {
					logger.Warn("config reload failed: %v", err)
					continue
				}
				logger.Info("config changed, reloading scheduler")
				scheduler.Reload(ctx, schedulerConfig())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watch error: %v", err)
			}
		}
	}()

	return watcher, nil
}
