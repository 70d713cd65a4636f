package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/catalog/internal/catalog/config"
	"finitefield.org/catalog/internal/catalog/observability"
)

// cli carries state shared by the subcommands once the root has initialised.
type cli struct {
	envFile string
	cfg     config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "catalog",
		Short: "Product catalog built from a CSV file",
		Long: `catalog renders a product catalog from a CSV file: rows are grouped
by category into accordion sections with a sidebar, product cards and
localized labels (de, ru, en).

Serve it over HTTP with search and infinite scroll, or export it as a
static site.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context(), config.WithEnvFile(c.envFile))
			if err != nil {
				return err
			}
			logger, err := observability.NewLogger(cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.cfg = cfg
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file with CATALOG_* overrides")

	root.AddCommand(newServeCmd(c), newExportCmd(c))
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
