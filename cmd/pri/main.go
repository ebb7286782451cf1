// Package main provides the CLI entrypoint for pri.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/s0u7a/pri-training/internal/config"
	"github.com/s0u7a/pri-training/internal/engine"
	"github.com/s0u7a/pri-training/internal/model"
	"github.com/s0u7a/pri-training/internal/round"
	"github.com/s0u7a/pri-training/internal/statsui"
	"github.com/s0u7a/pri-training/internal/store"
	"github.com/s0u7a/pri-training/internal/tui"
)

const (
	defaultMode        = string(model.ModeMatch)
	defaultLimit       = 60
	defaultCurveWindow = 10
)

var (
	playMode  string
	playLimit int

	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pri",
		Short:         "TUI processing speed trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playMode, "mode", defaultMode, "game mode: match or coding")
	rootCmd.Flags().IntVar(&playLimit, "limit", defaultLimit, "session length in seconds (30, 60, 120, or 0 for open-ended)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &playMode, fileCfg.Play.Mode)
	applyIntConfig(cmd, "limit", &playLimit, fileCfg.Play.Limit)

	cfg := model.PlayConfig{
		Mode:  model.Mode(playMode),
		Limit: model.TimeLimit(playLimit),
	}
	if err := validatePlayConfig(cfg); err != nil {
		return err
	}

	// A broken history store must not block playing; sessions then run
	// without persistence.
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open db, history disabled: %v\n", err)
		st = nil
	}
	defer func() {
		if st == nil {
			return
		}
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	var sink engine.SummaryStore
	if st != nil {
		sink = st
	}
	eng := engine.New(round.New(), sink)
	playModel := tui.NewModel(eng, st, cfg)
	program := tea.NewProgram(playModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session history and index curves",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter (match or coding)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)
	applyIntConfig(cmd, "last", &statsLast, fileCfg.Stats.Last)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsMode != "" && statsMode != string(model.ModeMatch) && statsMode != string(model.ModeCoding) {
		return fmt.Errorf("--mode must be %q or %q", model.ModeMatch, model.ModeCoding)
	}

	cfg := model.StatsConfig{
		Mode:        statsMode,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	statsModel := statsui.NewModel(st, cfg)
	program := tea.NewProgram(statsModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pri configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# mode = %q            # Game mode: match or coding
# limit = %d             # Session length in seconds (30, 60, 120, 0 = open-ended)

[stats]
# curve-window = %d      # Moving average window for index curves
# last = 0               # Limit stats to last N sessions (0 = all)
`,
		defaultMode,
		defaultLimit,
		defaultCurveWindow,
	)
}

func validatePlayConfig(cfg model.PlayConfig) error {
	if cfg.Mode != model.ModeMatch && cfg.Mode != model.ModeCoding {
		return fmt.Errorf("--mode must be %q or %q", model.ModeMatch, model.ModeCoding)
	}
	for _, limit := range model.TimeLimits {
		if cfg.Limit == limit {
			return nil
		}
	}
	return fmt.Errorf("--limit must be one of 30, 60, 120, or 0")
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
