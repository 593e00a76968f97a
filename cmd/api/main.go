package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

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
		Use:           "api",
		Short:         "Serve the library catalog over HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to application.properties (default: ./application.properties or ./config/)")
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
	log.Info("database connection OK",
		zap.String("url", postgres.RedactDSN(cfg.DB.DSN())),
		zap.Int32("pool_size", cfg.DB.PoolSize),
	)

	authorService := author.NewService(author.NewPostgresRepo(pool, cfg.DB.QueryTimeout))
	bookService := book.NewService(book.NewPostgresRepo(pool, cfg.DB.QueryTimeout))
	publisherService := publisher.NewService(publisher.NewPostgresRepo(pool, cfg.DB.QueryTimeout))

	app := &application{
		cfg:        cfg,
		log:        log,
		db:         pool,
		authors:    author.NewHTTPHandler(authorService, log, cfg.HTTP.MaxBodyBytes),
		books:      book.NewHTTPHandler(bookService, log, cfg.HTTP.MaxBodyBytes),
		publishers: publisher.NewHTTPHandler(publisherService, log, cfg.HTTP.MaxBodyBytes),
	}

	if err := app.serve(ctx); err != nil {
		log.Error("server error", zap.Error(err))
		return err
	}
	return nil
}
