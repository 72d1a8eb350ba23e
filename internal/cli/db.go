package cli

import (
	"context"
	"fmt"
	"time"

	"mammy-coker-hub/internal/app"
	"mammy-coker-hub/internal/database/migration"
	"mammy-coker-hub/internal/database/seeder"

	"github.com/spf13/cobra"
)

func migrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			return withContainer(ctx, opts, func(ctx context.Context, c *app.Container) error {
				r := migration.Runner{Dir: opts.migrationsDir, Logger: c.Logger}
				if err := r.Run(ctx, c.DB.SQLDB()); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations up to date")
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations that have not been applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd.Context(), opts, func(ctx context.Context, c *app.Container) error {
				r := migration.Runner{Dir: opts.migrationsDir, Logger: c.Logger}
				pending, err := r.Pending(ctx, c.DB.SQLDB())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(pending) == 0 {
					fmt.Fprintln(out, "(no pending migrations)")
					return nil
				}
				for _, m := range pending {
					fmt.Fprintf(out, "- V%d %s\n", m.Version, m.Name)
				}
				return nil
			})
		},
	})
	return cmd
}

func seedCmd(opts *rootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo jobs and professionals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			return withContainer(ctx, opts, func(ctx context.Context, c *app.Container) error {
				if migrate {
					r := migration.Runner{Dir: opts.migrationsDir, Logger: c.Logger}
					if err := r.Run(ctx, c.DB.SQLDB()); err != nil {
						return fmt.Errorf("migration failed: %w", err)
					}
				}

				seeders := seeder.Defaults()
				if err := (seeder.Runner{Seeders: seeders}).Run(ctx, c.DB); err != nil {
					return err
				}
				for _, s := range seeders {
					fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", s.Name())
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations first")
	return cmd
}
