package cli

import (
	"talent-match/internal/database/seeder"
	"talent-match/internal/pkg/logger"

	"github.com/spf13/cobra"
)

func newSeedCommand(o *options) *cobra.Command {
	var sample bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the skill catalog and optionally a sample company",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := o.logger()
			defer func() { _ = log.Sync() }()

			_, db, err := o.connect(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer db.Close()

			seeders := seeder.Defaults()
			if sample {
				seeders = seeder.WithSample()
			}
			return seeder.Runner{Seeders: seeders, Logger: logger.Component(log, "seeder")}.Run(cmd.Context(), db)
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "also create the sample company, project and bench")
	return cmd
}
