// Package cli provides the cobra command tree for casefile.
//
// Services are not constructed here. The composition root passes a
// Bootstrap function to Execute; it runs once the global flags are parsed
// so --memory and --data-dir can choose the storage backend.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/casefile/internal/core/ports/driven"
	"github.com/custodia-labs/casefile/internal/core/ports/driving"
	"github.com/custodia-labs/casefile/internal/logger"
)

// version is set by SetVersion from build flags.
var version = "dev"

// Global flags.
var (
	verbose    bool
	memoryMode bool
	assumeYes  bool
	dataDir    string
	configDir  string
)

// Wired services. Nil until bootstrap runs or a test sets them.
var (
	recordService   driving.RecordService
	caseService     driving.CaseService
	reportService   driving.ReportService
	settingsService driving.SettingsService
	configWatcher   driven.ConfigWatcher
	onConfigReload  func()
	closeServices   func() error
)

// errNotConfigured is returned when a command runs without its service.
var errNotConfigured = errors.New("service not configured")

// Options carries the global flags to the Bootstrap function.
type Options struct {
	// Memory selects in-memory stores instead of the SQLite database.
	Memory bool

	// DataDir overrides the database directory.
	DataDir string

	// ConfigDir overrides the configuration directory.
	ConfigDir string
}

// Services is what the composition root hands to the CLI.
type Services struct {
	Record   driving.RecordService
	Case     driving.CaseService
	Report   driving.ReportService
	Settings driving.SettingsService

	// Watcher reloads configuration during long-running commands. Optional.
	Watcher driven.ConfigWatcher

	// OnConfigReload runs after every configuration reload. Optional.
	OnConfigReload func()

	// Close releases storage. Optional.
	Close func() error
}

// Bootstrap builds the services for the given options.
type Bootstrap func(Options) (*Services, error)

var bootstrap Bootstrap

// noBootstrap marks commands that need no services.
const noBootstrap = "casefile/no-bootstrap"

var rootCmd = &cobra.Command{
	Use:   "casefile",
	Short: "Incident records, cases and evidence reports",
	Long: `casefile keeps timestamped incident notes ("records"), groups related ones
into cases ranked by actor, keyword and time relevance, and builds evidence
reports from a case's snapshot of included records.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Annotations[noBootstrap] == "true" || bootstrap == nil || caseService != nil {
			return nil
		}
		svc, err := bootstrap(Options{Memory: memoryMode, DataDir: dataDir, ConfigDir: configDir})
		if err != nil {
			return err
		}
		SetServices(svc)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&memoryMode, "memory", false, "use in-memory storage (nothing is saved)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "database directory (default ~/.casefile/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.casefile)")
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices wires services into the command tree. A nil argument clears them.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	recordService = s.Record
	caseService = s.Case
	reportService = s.Report
	settingsService = s.Settings
	configWatcher = s.Watcher
	onConfigReload = s.OnConfigReload
	closeServices = s.Close
}

// Execute runs the root command. b is called once before the first
// command that needs services.
func Execute(ctx context.Context, b Bootstrap) error {
	bootstrap = b
	defer func() {
		if closeServices != nil {
			if err := closeServices(); err != nil {
				logger.Warn("Closing storage: %v", err)
			}
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}
