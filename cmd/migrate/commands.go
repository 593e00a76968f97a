package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"libraryapi/internal/config"
	"libraryapi/internal/platform/postgres"
)

func openProvider(configPath string) (*goose.Provider, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	poolCfg, err := postgres.PoolConfig(cfg.DB)
	if err != nil {
		return nil, err
	}
	return postgres.NewMigrationProvider(poolCfg, migrationsFS())
}

func runUp(cmd *cobra.Command, configPath string) error {
	provider, err := openProvider(configPath)
	if err != nil {
		return err
	}
	defer provider.Close()

	results, err := provider.Up(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "applied %s (%s)\n", r.Source.Path, r.Duration)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied successfully")
	return nil
}

func runDown(cmd *cobra.Command, configPath string) error {
	provider, err := openProvider(configPath)
	if err != nil {
		return err
	}
	defer provider.Close()

	result, err := provider.Down(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "roll back migration")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s\n", result.Source.Path)
	return nil
}

func runStatus(cmd *cobra.Command, configPath string) error {
	provider, err := openProvider(configPath)
	if err != nil {
		return err
	}
	defer provider.Close()

	statuses, err := provider.Status(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "read migration status")
	}
	for _, s := range statuses {
		applied := "pending"
		if s.State == goose.StateApplied {
			applied = s.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", applied, s.Source.Path)
	}
	return nil
}

func runCreate(cmd *cobra.Command, name string) error {
	if err := goose.Create(nil, migrationsDir(), name, "sql"); err != nil {
		return errors.Wrap(err, "create migration")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migration created: %s\n", name)
	return nil
}
