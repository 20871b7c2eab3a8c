package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"talent-match/internal/database/migration"
	"talent-match/internal/pkg/logger"
	"talent-match/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCommand(o *options) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect schema migrations",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "read migrations from a directory instead of the embedded set")

	runner := func() migration.Runner {
		return migration.Runner{FS: migrations.FS, Dir: dir}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := o.logger()
			defer func() { _ = log.Sync() }()

			_, db, err := o.connect(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer db.Close()

			r := runner()
			r.Logger = logger.Component(log, "migration")
			return r.Run(cmd.Context(), db.SQLDB())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := o.logger()
			defer func() { _ = log.Sync() }()

			_, db, err := o.connect(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer db.Close()

			st, err := runner().Status(cmd.Context(), db.SQLDB())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED\tAPPLIED AT")
			for _, s := range st {
				at := "-"
				if s.AppliedAt != nil {
					at = s.AppliedAt.UTC().Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", s.Version, s.Name, s.Applied, at)
			}
			return w.Flush()
		},
	})

	return cmd
}
