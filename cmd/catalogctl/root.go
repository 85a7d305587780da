package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"authorsite/internal/config"
)

// loadSettings resolves CLI settings from flags, CATALOG_* variables and the
// API's own environment, in that order.
func loadSettings(cmd *cobra.Command) (*viper.Viper, error) {
	config.LoadEnvFiles()

	v := viper.New()
	v.SetDefault("db.dsn", config.DatabaseDSNFromEnv())
	v.SetDefault("db.timeout", "3s")

	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if f := cmd.Flags().Lookup("dsn"); f != nil {
		if err := v.BindPFlag("db.dsn", f); err != nil {
			return nil, fmt.Errorf("bind --dsn: %w", err)
		}
	}
	return v, nil
}

func openPool(ctx context.Context, v *viper.Viper) (*pgxpool.Pool, time.Duration, error) {
	timeout, err := time.ParseDuration(v.GetString("db.timeout"))
	if err != nil {
		return nil, 0, fmt.Errorf("db.timeout: %w", err)
	}

	dsn := v.GetString("db.dsn")
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, 0, fmt.Errorf("connect %s: %w", config.RedactDSN(dsn), err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, 0, fmt.Errorf("ping %s: %w", config.RedactDSN(dsn), err)
	}
	return pool, timeout, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Operate the author catalog: slugs, legacy redirects, upcoming books",
		Long: `catalogctl inspects the author catalog from the command line.

Database settings come from --dsn, CATALOG_DB_DSN or DB_DSN.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("dsn", "", "Postgres DSN (overrides CATALOG_DB_DSN and DB_DSN)")

	root.AddCommand(
		newSlugCmd(),
		newRedirectCmd(),
		newUpcomingCmd(),
		newHashPasswordCmd(),
	)
	return root
}
