// Package cli is the hubctl operator tool: schema migrations, demo data,
// session checks and manual notifications against a configured deployment.
package cli

import (
	"context"
	"os"

	"mammy-coker-hub/internal/app"
	"mammy-coker-hub/internal/config"
	"mammy-coker-hub/internal/pkg/logging"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel      string
	migrationsDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "hubctl",
		Short:        "Operate a Mammy Coker Hub deployment",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&opts.migrationsDir, "migrations", "migrations", "directory holding V<n>__<name>.sql files")

	cmd.AddCommand(migrateCmd(opts))
	cmd.AddCommand(seedCmd(opts))
	cmd.AddCommand(loginCmd(opts))
	cmd.AddCommand(notifyCmd(opts))
	return cmd
}

// withContainer loads config, connects and hands the container to fn.
func withContainer(ctx context.Context, opts *rootOptions, fn func(ctx context.Context, c *app.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.App.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := logging.New(level).With("cmd", "hubctl")
	defer func() { _ = logger.Sync() }()

	c, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	return fn(ctx, c)
}
