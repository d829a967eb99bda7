// Package cli implements the cmti command line interface.
package cli

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/djewell11/cmti-tools/internal/config"
	"github.com/djewell11/cmti-tools/internal/db"
	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/repository"
	"github.com/djewell11/cmti-tools/internal/service/identifier"
	"github.com/djewell11/cmti-tools/internal/service/importer"
	"github.com/djewell11/cmti-tools/internal/service/quality"
	"github.com/djewell11/cmti-tools/internal/service/units"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cmti",
		Short:         "Canadian Mine and Tailings Inventory toolkit",
		Long:          "Imports mine and tailings data from provincial and federal sources into the CMTI inventory.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("db", "", "path to the inventory SQLite file (overrides CMTI_DB_PATH)")
	rootCmd.PersistentFlags().String("lookups", "", "lookup CSV directory (overrides CMTI_LOOKUP_DIR)")
	rootCmd.PersistentFlags().String("profile", "", "import profile YAML (overrides CMTI_PROFILE)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// env resolves the effective configuration and opens the shared toolkit
// services for a command invocation.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *sql.DB
	pipeline *importer.Pipeline
	repo     *repository.InventoryRepo
	profile  *config.ImportProfile
	lookups  *domain.Lookups
	alloc    *identifier.Allocator
}

func newEnv(cmd *cobra.Command) (*env, error) {
	cfg := config.LoadFromEnv()
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("lookups"); v != "" {
		cfg.LookupDir = v
	}
	if v, _ := cmd.Flags().GetString("profile"); v != "" {
		cfg.ProfilePath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	pool, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(pool); err != nil {
		pool.Close()
		return nil, err
	}

	lookups, err := config.LoadLookups(cfg.LookupDir)
	if err != nil {
		pool.Close()
		return nil, err
	}

	reg := units.NewRegistry()
	var profile *config.ImportProfile
	var vocab quality.Vocabulary
	if cfg.ProfilePath != "" {
		profile, err = config.LoadProfile(cfg.ProfilePath)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if err := profile.ApplyUnits(reg); err != nil {
			pool.Close()
			return nil, err
		}
		vocab = profile.Vocab()
	}

	repo := repository.NewInventoryRepo(pool, logger)
	alloc := identifier.NewAllocator()
	pipeline := importer.NewPipeline(
		reg,
		alloc,
		quality.NewGrader(quality.DefaultWeights(), logger),
		lookups,
		repo,
		repository.NewImportRunRepo(pool),
		vocab,
		logger,
	)

	return &env{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		pipeline: pipeline,
		repo:     repo,
		profile:  profile,
		lookups:  lookups,
		alloc:    alloc,
	}, nil
}

func (e *env) close() {
	_ = e.pool.Close()
}
