package main

import (
	"context"
	"fmt"

	"github.com/foodplanner/backend/config"
	"github.com/foodplanner/backend/internal/app"
	"github.com/foodplanner/backend/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions are the flags shared by every command
type rootOptions struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
	logger   *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "foodmatch",
		Short: "Match recipe ingredients to store products",
		Long: `foodmatch normalizes recipe ingredients and matches them against the
product catalog. It can seed the local store, compute matches for every
unmatched ingredient and aggregate recipes into a shopping list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(opts.cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}

			logger, err := logging.New(cfg.Log.Level, "console")
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			opts.cfg = cfg
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file path")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(
		newComputeCmd(opts),
		newMatchCmd(opts),
		newAggregateCmd(opts),
		newSeedCmd(opts),
		newMigrateCmd(opts),
	)
	return cmd
}

// openApp builds the application from the loaded configuration
func (o *rootOptions) openApp(ctx context.Context) (*app.App, error) {
	a, err := app.New(ctx, o.cfg, o.logger)
	if err != nil {
		return nil, fmt.Errorf("open application: %w", err)
	}
	return a, nil
}
