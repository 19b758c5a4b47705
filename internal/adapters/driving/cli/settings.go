package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change ranking and provider settings",
	Long: `View and change settings stored in ~/.casefile/config.toml.

Ranking settings are the defaults a case profile falls back to. Provider
settings throttle relevance calls; a rate of 0 disables throttling.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset KEY...",
	Short: "Restore settings to their defaults",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsGetCmd, settingsSetCmd, settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func settingsValues() (map[string]string, error) {
	s, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return map[string]string{
		"ranking.weight_actor":   fmt.Sprint(s.Ranking.Weights.Actor),
		"ranking.weight_related": fmt.Sprint(s.Ranking.Weights.Related),
		"ranking.weight_text":    fmt.Sprint(s.Ranking.Weights.Text),
		"ranking.min_score":      fmt.Sprint(s.Ranking.MinScore),
		"ranking.min_text_sim":   fmt.Sprint(s.Ranking.MinTextSim),
		"ranking.max_results":    fmt.Sprint(s.Ranking.MaxResults),
		"provider.rate_per_sec":  fmt.Sprint(s.Provider.RatePerSecond),
		"provider.burst":         fmt.Sprint(s.Provider.Burst),
	}, nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}
	values, err := settingsValues()
	if err != nil {
		return err
	}
	for _, key := range settingsService.Keys() {
		cmd.Printf("%-24s %s\n", key, values[key])
	}
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("\nWarning: %v\n", err)
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured
	}
	values, err := settingsValues()
	if err != nil {
		return err
	}
	v, ok := values[args[0]]
	if !ok {
		return fmt.Errorf("unknown setting %q", args[0])
	}
	cmd.Println(v)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured
	}
	for _, key := range args {
		if err := settingsService.Reset(key); err != nil {
			return err
		}
		cmd.Printf("%s reset to default\n", key)
	}
	return nil
}
