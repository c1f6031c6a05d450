// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads configuration, sets up logging and builds the scoring engine

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harper/slm/internal/config"
	"github.com/harper/slm/internal/logging"
	"github.com/harper/slm/internal/mission"
	"github.com/harper/slm/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	engine *mission.Engine
	db     *storage.SQLiteDB

	configPath string
	logLevel   string
	logFormat  string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "slm",
	Short: "Score straight line missions from GPS tracks",
	Long: `
███████╗██╗     ███╗   ███╗
██╔════╝██║     ████╗ ████║
███████╗██║     ██╔████╔██║
╚════██║██║     ██║╚██╔╝██║
███████║███████╗██║ ╚═╝ ██║
╚══════╝╚══════╝╚═╝     ╚═╝

   How straight was your line?

Examples:
  slm score ride.gpx
  slm score track.csv -s 52.606,-1.91787 -e 52.6123,-1.65905
  slm score walk.sml --save "isle of man"
  slm distance 52.606,-1.91787 52.6123,-1.65905
  slm history list`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			err := db.Close()
			db = nil
			return err
		}
		return nil
	},
}

// setup loads configuration, applies flag overrides and builds the engine.
func setup(cmd *cobra.Command) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		loaded.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		loaded.Log.Format = logFormat
	}
	logging.Setup(loaded.Log.Level, loaded.Log.Format)

	model, err := loaded.Model.Build()
	if err != nil {
		return fmt.Errorf("invalid model: %w", err)
	}
	e, err := mission.NewEngine(model)
	if err != nil {
		return err
	}

	cfg = loaded
	engine = e
	slog.Debug("configured", "config", configPath, "workers", model.Workers)
	return nil
}

// openDB opens the attempt history on first use.
func openDB() (*storage.SQLiteDB, error) {
	if db != nil {
		return db, nil
	}
	path := dbPath
	if path == "" {
		path = cfg.GetDBPath()
	}
	opened, err := storage.NewSQLiteDB(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	slog.Debug("opened history", "path", opened.Path())
	db = opened
	return db, nil
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/slm/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "attempt history database (default: $XDG_DATA_HOME/slm/slm.db)")
}
