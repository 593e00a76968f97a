package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"libraryapi/internal/author"
	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/platform/logger"
	"libraryapi/internal/platform/postgres"
	"libraryapi/internal/publisher"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Fill the catalog with a demo publisher, author and books",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to application.properties")
	return cmd
}

func run(ctx context.Context, configPath string) error {
	config.LoadEnvFiles()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	pool, err := postgres.Open(ctx, cfg.DB)
	if err != nil {
		return errors.Wrap(err, "cannot open database")
	}
	defer pool.Close()

	s := &seeder{
		authors:    author.NewService(author.NewPostgresRepo(pool, cfg.DB.QueryTimeout)),
		books:      book.NewService(book.NewPostgresRepo(pool, cfg.DB.QueryTimeout)),
		publishers: publisher.NewService(publisher.NewPostgresRepo(pool, cfg.DB.QueryTimeout)),
		log:        log,
	}
	if _, err := s.run(ctx); err != nil {
		return errors.Wrap(err, "seeding failed")
	}
	return nil
}
