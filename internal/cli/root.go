// Package cli implements the matchctl command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"talent-match/internal/config"
	"talent-match/internal/database"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const app = "matchctl"

// Actual version can be specified in build command.
var version = "unknown"

// options carries state shared by every subcommand.
type options struct {
	cfgFile string
	v       *viper.Viper
	out     io.Writer
}

// NewRootCommand builds the command tree writing results to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	o := &options{v: viper.New(), out: out}

	root := &cobra.Command{
		Use:           app,
		Short:         "matchctl ranks candidates against project skill requirements and manages the schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&o.cfgFile, "config", "", "a YAML config file (default reads the environment only)")
	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = o.v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))
	_ = o.v.BindPFlag("json", root.PersistentFlags().Lookup("json"))

	root.AddCommand(
		newRankCommand(o),
		newMigrateCommand(o),
		newSeedCommand(o),
		newVersionCommand(o),
	)
	return root
}

// Execute runs matchctl with the process arguments.
func Execute(ctx context.Context, out io.Writer) error {
	return NewRootCommand(out).ExecuteContext(ctx)
}

func (o *options) logger() *zap.Logger {
	l, err := logger.New(o.v.GetBool("json"), o.v.GetBool("debug"))
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func (o *options) config() (config.Config, error) {
	path := o.cfgFile
	if path == "" {
		path = o.v.GetString(config.EnvConfigFile)
	}
	return config.LoadWithViper(o.v, path)
}

func (o *options) connect(ctx context.Context, log *zap.Logger) (config.Config, database.DB, error) {
	cfg, err := o.config()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := dbpostgres.Connect(ctx, cfg.Database, logger.Component(log, "database"))
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, nil
}

func newVersionCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(o.out, "%s version: %s\n", app, version)
		},
	}
}
