package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mcqquiz/internal/config"
	"github.com/abhisek/mcqquiz/internal/logging"
	"github.com/abhisek/mcqquiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mcqquiz",
	Short: "Multiple-choice quizzes in the terminal",
	Long:  "mcqquiz fetches question modules over HTTP and runs timed multiple-choice sessions with saved progress.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MCQQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("config", config.DefaultConfigPath(), "Path to TOML config file")
	rootCmd.PersistentFlags().String("modules-url", "", "URL of the module list (overrides source.modules_url)")
	rootCmd.PersistentFlags().String("questions-url", "", "Play a single question set from this URL")

	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if u, _ := cmd.Flags().GetString("modules-url"); u != "" {
		cfg.Source.ModulesURL = u
	}
	if u, _ := cmd.Flags().GetString("questions-url"); u != "" {
		cfg.Source.QuestionsURL = u
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file, then MCQQUIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// runtime bundles what every subcommand opens.
type runtime struct {
	cfg      config.Config
	log      *zap.Logger
	store    *store.Store
	closeLog func() error
}

// open loads configuration, builds the logger and opens the store. console
// receives a copy of log output; pass nil when the TUI owns the terminal.
func open(cmd *cobra.Command, console io.Writer) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(cfg.Log, console)
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("store opened", zap.String("path", dbPath))

	return &runtime{cfg: cfg, log: logger, store: st, closeLog: closeLog}, nil
}

func (r *runtime) Close() error {
	err := r.store.Close()
	if lerr := r.closeLog(); lerr != nil && err == nil {
		err = lerr
	}
	return err
}
