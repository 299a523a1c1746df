package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/subsync-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/subsync-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/subsync-cli/internal/connectors/google"
	gsheets "github.com/custodia-labs/subsync-cli/internal/connectors/google/sheets"
	gyoutube "github.com/custodia-labs/subsync-cli/internal/connectors/google/youtube"
	"github.com/custodia-labs/subsync-cli/internal/core/domain"
	"github.com/custodia-labs/subsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/subsync-cli/internal/core/ports/driving"
	"github.com/custodia-labs/subsync-cli/internal/core/services"
)

// Configuration keys.
const (
	keyClientID          = "google.client_id"
	keyClientSecret      = "google.client_secret"
	keyRefreshToken      = "google.refresh_token"
	keySheetName         = "mirror.sheet_name"
	keyBudgetMinutes     = "sync.budget_minutes"
	keyJoinDelaySeconds  = "sync.join_delay_seconds"
	keyPullIntervalMins  = "scheduler.pull_interval_minutes"
	keyPushIntervalHours = "scheduler.push_interval_hours"
)

// Package-level services, set by wiring or substituted by tests.
var (
	configStore    driven.ConfigStore
	stateStore     *sqlite.Store
	checkpoints    driven.CheckpointStore
	schedulerStore driven.SchedulerStore
	syncRunner     driving.SyncRunner
)

// ensureStores opens the config file and the local state database once.
func ensureStores() error {
	if configStore == nil {
		cfg, err := file.NewConfigStore(configDir)
		if err != nil {
			return fmt.Errorf("opening config: %w", err)
		}
		configStore = cfg
	}
	if checkpoints == nil || schedulerStore == nil {
		if stateStore == nil {
			store, err := sqlite.NewStore(dataDir())
			if err != nil {
				return fmt.Errorf("opening state database: %w", err)
			}
			stateStore = store
		}
		if checkpoints == nil {
			checkpoints = stateStore.CheckpointStore()
		}
		if schedulerStore == nil {
			schedulerStore = stateStore.SchedulerStore()
		}
	}
	return nil
}

// dataDir derives the state directory from the config directory flag.
// Empty means the store's own default (~/.subsync/data).
func dataDir() string {
	if configDir == "" {
		return ""
	}
	return configDir + "/data"
}

// buildSyncRunner wires the Google connectors and the sync service for one
// process. Returns the test-injected runner when set.
func buildSyncRunner(ctx context.Context, budget time.Duration) (driving.SyncRunner, error) {
	if syncRunner != nil {
		return syncRunner, nil
	}
	if err := ensureStores(); err != nil {
		return nil, err
	}

	creds := google.Credentials{
		ClientID:     configStore.GetString(keyClientID),
		ClientSecret: configStore.GetString(keyClientSecret),
		RefreshToken: configStore.GetString(keyRefreshToken),
	}
	ts, err := google.NewTokenSource(ctx, creds)
	if err != nil {
		return nil, err
	}

	mirrorID, err := checkpoints.Get(ctx, domain.KeyMirrorID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("run 'subsync mirror create' first: %w", domain.ErrMirrorNotConfigured)
	}
	if err != nil {
		return nil, fmt.Errorf("reading mirror binding: %w", err)
	}

	ytSvc, err := google.NewYouTubeService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("creating youtube client: %w", err)
	}
	sheetsSvc, err := google.NewSheetsService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	mirror := gsheets.NewMirrorStore(sheetsSvc, mirrorID, configStore.GetString(keySheetName))
	if err := mirror.EnsureHeader(ctx); err != nil {
		return nil, fmt.Errorf("preparing mirror sheet: %w", err)
	}
	api := gyoutube.NewMembershipAPI(ytSvc)

	return services.NewSyncService(checkpoints, mirror, api, budget, joinDelay()), nil
}

// joinDelay reads the politeness pause between successful joins.
func joinDelay() time.Duration {
	if configStore == nil {
		return services.DefaultJoinDelay
	}
	if secs := configStore.GetInt(keyJoinDelaySeconds); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return services.DefaultJoinDelay
}

// daemonBudget reads the per-run time budget for scheduled invocations.
func daemonBudget() time.Duration {
	if configStore == nil {
		return services.DefaultBudget
	}
	if mins := configStore.GetInt(keyBudgetMinutes); mins > 0 {
		return time.Duration(mins) * time.Minute
	}
	return services.DefaultBudget
}

// schedulerConfig builds the scheduler configuration from the config file,
// falling back to the defaults for unset keys.
func schedulerConfig() domain.SchedulerConfig {
	config := domain.DefaultSchedulerConfig()
	if configStore == nil {
		return config
	}
	if mins := configStore.GetInt(keyPullIntervalMins); mins > 0 {
		config.TaskConfigs[domain.TaskIDPullSync] = domain.TaskConfig{
			Enabled:  true,
			Interval: time.Duration(mins) * time.Minute,
		}
	}
	if hours := configStore.GetInt(keyPushIntervalHours); hours > 0 {
		config.TaskConfigs[domain.TaskIDPushSync] = domain.TaskConfig{
			Enabled:  true,
			Interval: time.Duration(hours) * time.Hour,
		}
	}
	return config
}

// printReport writes the run summary for one-shot commands.
func printReport(cmd interface{ Printf(string, ...interface{}) }, r domain.RunReport) {
	cmd.Printf("%s run %s: %s\n", r.Job, r.RunID, r.Outcome)
	cmd.Printf("  applied: %d, skipped: %d, failed: %d\n", r.Processed, r.Skipped, r.Failed)
	if r.Err != nil {
		cmd.Printf("  stopped by: %v\n", r.Err)
	}
}
