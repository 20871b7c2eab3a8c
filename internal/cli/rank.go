package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"talent-match/internal/domain/matching"
	"talent-match/internal/fixture"
	"talent-match/internal/pkg/logger"
	"talent-match/internal/repository"
	"talent-match/internal/session"
	"talent-match/internal/usecase"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type rankFlags struct {
	snapshot   string
	projectID  string
	companyID  string
	candidates []string
	minScore   int
	limit      int
	excludeMMS bool
	output     string
	workers    int
}

type rankRow struct {
	Rank             int       `json:"rank"`
	CandidateID      uuid.UUID `json:"candidate_id"`
	Name             string    `json:"name,omitempty"`
	Score            int       `json:"score"`
	MandatoryMissing bool      `json:"mandatory_missing"`
	Skills           string    `json:"skills"`
}

type rankFailure struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Reason      string    `json:"reason"`
	Message     string    `json:"message"`
}

type rankReport struct {
	ProjectID uuid.UUID     `json:"project_id"`
	Results   []rankRow     `json:"results"`
	Failures  []rankFailure `json:"failures"`
	Partial   bool          `json:"partial"`
}

var errRankSource = errors.New("exactly one of --snapshot or --project is required")

func newRankCommand(o *options) *cobra.Command {
	f := &rankFlags{}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank candidates for a project from a YAML snapshot or the live database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (f.snapshot == "") == (f.projectID == "") {
				return errRankSource
			}
			if f.output != "text" && f.output != "json" {
				return fmt.Errorf("unknown output %q", f.output)
			}

			var (
				report rankReport
				err    error
			)
			if f.snapshot != "" {
				report, err = rankSnapshot(cmd, f)
			} else {
				report, err = rankLive(cmd, o, f)
			}
			if err != nil {
				return err
			}
			return o.printReport(report, f.output)
		},
	}

	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", "YAML snapshot to rank offline")
	cmd.Flags().StringVar(&f.projectID, "project", "", "project id to rank from the database")
	cmd.Flags().StringVar(&f.companyID, "company", "", "company owning the project (database mode)")
	cmd.Flags().StringSliceVar(&f.candidates, "candidates", nil, "candidate profile ids (database mode, default whole company)")
	cmd.Flags().IntVar(&f.minScore, "min-score", 0, "drop results below this score")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "keep at most this many results")
	cmd.Flags().BoolVar(&f.excludeMMS, "exclude-mandatory-missing", false, "drop candidates missing a mandatory skill")
	cmd.Flags().StringVarP(&f.output, "output", "o", "text", "output format: text or json")
	cmd.Flags().IntVar(&f.workers, "workers", 4, "scoring workers for large pools")
	return cmd
}

func (f *rankFlags) filter() matching.Filter {
	return matching.Filter{MinScore: f.minScore, Limit: f.limit, ExcludeMandatoryMissing: f.excludeMMS}
}

func rankSnapshot(cmd *cobra.Command, f *rankFlags) (rankReport, error) {
	snap, err := fixture.LoadFile(f.snapshot)
	if err != nil {
		return rankReport{}, err
	}
	if cmd.Flags().Changed("min-score") {
		snap.Filter.MinScore = f.minScore
	}
	if cmd.Flags().Changed("limit") {
		snap.Filter.Limit = f.limit
	}
	if cmd.Flags().Changed("exclude-mandatory-missing") {
		snap.Filter.ExcludeMandatoryMissing = f.excludeMMS
	}

	ranking, err := snap.Rank(cmd.Context(), matching.Options{Workers: f.workers, ParallelThreshold: 64})
	if err != nil {
		return rankReport{}, err
	}

	names := snap.Names()
	report := rankReport{ProjectID: ranking.ProjectID, Partial: ranking.Partial, Results: []rankRow{}, Failures: []rankFailure{}}
	for i, r := range ranking.Results {
		report.Results = append(report.Results, newRankRow(i, r, names[r.CandidateID]))
	}
	for _, fl := range ranking.Failures {
		msg := ""
		if fl.Err != nil {
			msg = fl.Err.Error()
		}
		report.Failures = append(report.Failures, rankFailure{CandidateID: fl.CandidateID, Reason: fl.Reason.String(), Message: msg})
	}
	return report, nil
}

func rankLive(cmd *cobra.Command, o *options, f *rankFlags) (rankReport, error) {
	projectID, err := uuid.Parse(f.projectID)
	if err != nil {
		return rankReport{}, fmt.Errorf("invalid --project: %w", err)
	}
	companyID, err := uuid.Parse(f.companyID)
	if err != nil {
		return rankReport{}, fmt.Errorf("invalid --company: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(f.candidates))
	for _, raw := range f.candidates {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return rankReport{}, fmt.Errorf("invalid candidate id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}

	log := o.logger()
	defer func() { _ = log.Sync() }()

	cfg, db, err := o.connect(cmd.Context(), log)
	if err != nil {
		return rankReport{}, err
	}
	defer db.Close()

	workers := cfg.Matching.Workers
	if cmd.Flags().Changed("workers") || workers <= 0 {
		workers = f.workers
	}

	uc := usecase.NewMatchingUsecase(usecase.MatchingDeps{
		Projects:       repository.NewPostgresProjectRepository(db),
		Requirements:   repository.NewPostgresRequirementRepository(db),
		Skills:         repository.NewPostgresSkillRepository(db),
		Profiles:       repository.NewPostgresProfileRepository(db),
		EmployeeSkills: repository.NewPostgresEmployeeSkillRepository(db),
		Logger:         logger.Component(log, "matching"),
		Options:        matching.Options{Workers: workers, ParallelThreshold: cfg.Matching.ParallelThreshold},
	})

	// The CLI acts as an operator of the target company.
	sess := session.Session{UserID: uuid.New(), CompanyID: companyID, Role: session.RoleAdmin}
	out, err := uc.RankCandidates(cmd.Context(), sess, projectID, usecase.RankingParams{CandidateIDs: ids, Filter: f.filter()})
	if err != nil {
		return rankReport{}, err
	}

	report := rankReport{ProjectID: out.ProjectID, Partial: out.Partial, Results: []rankRow{}, Failures: []rankFailure{}}
	for i, r := range out.Results {
		report.Results = append(report.Results, newRankRow(i, r.MatchResult, r.FullName))
	}
	for _, fl := range out.Failures {
		report.Failures = append(report.Failures, rankFailure{CandidateID: fl.CandidateID, Reason: fl.Reason, Message: fl.Message})
	}
	return report, nil
}

func newRankRow(i int, r matching.MatchResult, name string) rankRow {
	held := make([]string, 0, len(r.Breakdown))
	for _, o := range r.Breakdown {
		mark := "-"
		if o.Satisfied {
			mark = "+"
		}
		held = append(held, mark+o.SkillName)
	}
	return rankRow{
		Rank:             i + 1,
		CandidateID:      r.CandidateID,
		Name:             name,
		Score:            r.Score,
		MandatoryMissing: r.MandatoryMissing,
		Skills:           strings.Join(held, " "),
	}
}

func (o *options) printReport(r rankReport, format string) error {
	if format == "json" {
		enc := json.NewEncoder(o.out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	w := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "project %s\n", r.ProjectID)
	fmt.Fprintln(w, "RANK\tCANDIDATE\tNAME\tSCORE\tMANDATORY MISSING\tSKILLS")
	for _, row := range r.Results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%t\t%s\n", row.Rank, row.CandidateID, row.Name, row.Score, row.MandatoryMissing, row.Skills)
	}
	if len(r.Failures) > 0 {
		fmt.Fprintln(w, "\nFAILED\tREASON\tMESSAGE")
		for _, fl := range r.Failures {
			fmt.Fprintf(w, "%s\t%s\t%s\n", fl.CandidateID, fl.Reason, fl.Message)
		}
	}
	return w.Flush()
}
