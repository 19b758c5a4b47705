// Command casefile keeps incident records, groups them into ranked cases
// and builds evidence reports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/casefile/internal/adapters/driven/config/file"
	"github.com/custodia-labs/casefile/internal/adapters/driven/engine/local"
	"github.com/custodia-labs/casefile/internal/adapters/driven/engine/rules"
	"github.com/custodia-labs/casefile/internal/adapters/driven/engine/throttle"
	"github.com/custodia-labs/casefile/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/casefile/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/casefile/internal/adapters/driving/cli"
	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
	"github.com/custodia-labs/casefile/internal/core/ranking"
	"github.com/custodia-labs/casefile/internal/core/services"
	"github.com/custodia-labs/casefile/internal/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	if err := cli.Execute(ctx, bootstrap); err != nil {
		stop()
		os.Exit(1)
	}
}

func bootstrap(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsSvc := services.NewSettingsService(configStore)
	if err := settingsSvc.Validate(); err != nil {
		logger.Warn("Invalid settings in %s, using defaults where needed: %v", configStore.Path(), err)
	}

	current := func() domain.AppSettings {
		s, err := settingsSvc.Get()
		if err != nil {
			return settingsSvc.GetDefaults()
		}
		return *s
	}

	engine := local.New(func() ranking.Params {
		return ranking.ParamsFromSettings(current().Ranking)
	})
	provider := current().Provider
	throttled := throttle.New(engine, provider.RatePerSecond, provider.Burst)

	var (
		records driven.RecordStore
		cases   driven.CaseStore
		closeFn func() error
	)
	if opts.Memory {
		logger.Info("Using in-memory storage")
		records = memory.NewRecordStore()
		cases = memory.NewCaseStore()
	} else {
		store, err := sqlite.NewStore(opts.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		logger.Debug("Database at %s", store.Path())
		records = store.RecordStore()
		cases = store.CaseStore()
		closeFn = store.Close
	}

	return &cli.Services{
		Record:   services.NewRecordService(records, cases),
		Case:     services.NewCaseService(cases, records, throttled, rules.New()),
		Report:   services.NewReportService(cases, records),
		Settings: settingsSvc,
		Watcher:  configStore,
		OnConfigReload: func() {
			p := current().Provider
			throttled.SetLimit(p.RatePerSecond, p.Burst)
			logger.Info("Provider limit now %v/s burst %d", p.RatePerSecond, p.Burst)
		},
		Close: closeFn,
	}, nil
}
