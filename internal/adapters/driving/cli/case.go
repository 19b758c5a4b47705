package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

var caseCmd = &cobra.Command{
	Use:   "case",
	Short: "Manage cases and their snapshots",
}

var caseCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a case from ranked records",
	Long: `Rank every record against a case profile and store the hits as the
case's snapshot. The first --actor is the main actor.

Use --preview to print the ranked hits without saving a case.

Examples:
  casefile case create --actor 학생:홍길동 --query "언쟁 폭언" --from 2025-03-01
  casefile case create --actor 학부모:김보호 --actor 학생:김철수 --only-main --preview`,
	Args: cobra.NoArgs,
	RunE: runCaseCreate,
}

var caseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List cases, newest first",
	Args:    cobra.NoArgs,
	RunE:    runCaseList,
}

var caseShowCmd = &cobra.Command{
	Use:   "show CASE",
	Short: "Show a case and its included records",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaseShow,
}

var caseCandidatesCmd = &cobra.Command{
	Use:   "candidates CASE",
	Short: "Rank records not yet in the case",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaseCandidates,
}

var caseAddCmd = &cobra.Command{
	Use:   "add CASE RECORD...",
	Short: "Add records to the case snapshot",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCaseAdd,
}

var caseRemoveCmd = &cobra.Command{
	Use:   "remove CASE RECORD",
	Short: "Remove a record from the case snapshot",
	Args:  cobra.ExactArgs(2),
	RunE:  runCaseRemove,
}

var caseCompactCmd = &cobra.Command{
	Use:   "compact CASE",
	Short: "Drop cached scores for records no longer included",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaseCompact,
}

var caseAdviseCmd = &cobra.Command{
	Use:   "advise CASE",
	Short: "Refresh or update the case advisories",
	Long: `Without flags, recompute advisories from the included records.
With --set and --state, change one advisory's state instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runCaseAdvise,
}

var caseStepCmd = &cobra.Command{
	Use:   "step CASE",
	Short: "Log a procedural step",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaseStep,
}

var caseStatusCmd = &cobra.Command{
	Use:   "status CASE STATUS",
	Short: "Set the case status (진행중, 답변 준비, 종결)",
	Args:  cobra.ExactArgs(2),
	RunE:  runCaseStatus,
}

var caseDeleteCmd = &cobra.Command{
	Use:     "delete CASE",
	Aliases: []string{"rm"},
	Short:   "Delete a case",
	Args:    cobra.ExactArgs(1),
	RunE:    runCaseDelete,
}

func init() {
	f := caseCreateCmd.Flags()
	f.StringArray("actor", nil, "actor as TYPE:NAME (repeatable, first is the main actor)")
	f.String("query", "", "keywords")
	f.String("from", "", "start of the time window")
	f.String("to", "", "end of the time window")
	f.Bool("only-main", false, "match only records whose main actor is a case actor")
	f.String("title", "", "case title (default derived from actors and query)")
	f.Int("max-results", 0, "maximum hits (default from settings)")
	f.Bool("preview", false, "print hits without creating the case")
	addRankFlags(caseCreateCmd)
	f.Float64("w-actor", 0, "actor weight override")
	f.Float64("w-related", 0, "related-actor weight override")
	f.Float64("w-text", 0, "keyword weight override")
	_ = caseCreateCmd.MarkFlagRequired("actor")

	caseCandidatesCmd.Flags().Int("limit", 0, "ranking limit before included records are dropped (default the case's max results)")
	addRankFlags(caseCandidatesCmd)

	caseAdviseCmd.Flags().String("set", "", "advisory ID to update")
	caseAdviseCmd.Flags().String("state", "", "new state: active, done, dismissed")

	caseStepCmd.Flags().String("name", "", "step name")
	caseStepCmd.Flags().String("note", "", "note")
	caseStepCmd.Flags().String("at", "", "when it happened (default now)")
	_ = caseStepCmd.MarkFlagRequired("name")

	for _, c := range []*cobra.Command{caseCreateCmd, caseListCmd, caseShowCmd, caseCandidatesCmd} {
		c.Flags().Bool("json", false, "print JSON")
	}

	caseCmd.AddCommand(caseCreateCmd, caseListCmd, caseShowCmd, caseCandidatesCmd,
		caseAddCmd, caseRemoveCmd, caseCompactCmd, caseAdviseCmd, caseStepCmd,
		caseStatusCmd, caseDeleteCmd)
	rootCmd.AddCommand(caseCmd)
}

func addRankFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("min-score", 0, "minimum total score override")
	cmd.Flags().Float64("min-text-sim", 0, "minimum keyword similarity override (0..1)")
}

func runCaseCreate(cmd *cobra.Command, _ []string) error {
	if caseService == nil {
		return errNotConfigured
	}
	draft, err := caseDraftFromFlags(cmd)
	if err != nil {
		return err
	}

	preview, _ := cmd.Flags().GetBool("preview")
	if preview {
		hits, err := caseService.Preview(cmd.Context(), draft)
		if err != nil {
			return err
		}
		if asJSON(cmd) {
			return printJSON(cmd, hits)
		}
		printHits(cmd, hits)
		return nil
	}

	c, err := caseService.Create(cmd.Context(), draft)
	if err != nil {
		return err
	}
	if asJSON(cmd) {
		return printJSON(cmd, c)
	}
	cmd.Printf("Created case %s %q with %d record(s)\n", c.ID, c.Title, len(c.Snapshot.RecordIDs))
	return nil
}

func caseDraftFromFlags(cmd *cobra.Command) (domain.CaseDraft, error) {
	f := cmd.Flags()
	actors, _ := f.GetStringArray("actor")
	query, _ := f.GetString("query")
	from, _ := f.GetString("from")
	to, _ := f.GetString("to")
	onlyMain, _ := f.GetBool("only-main")
	title, _ := f.GetString("title")
	maxResults, _ := f.GetInt("max-results")

	draft := domain.CaseDraft{
		Title:         title,
		Actors:        parseActors(actors),
		Query:         query,
		OnlyMainActor: onlyMain,
		MaxResults:    maxResults,
	}
	var err error
	if draft.TimeFrom, err = parseTime("from", from); err != nil {
		return draft, err
	}
	if draft.TimeTo, err = parseTime("to", to); err != nil {
		return draft, err
	}
	if draft.MinScore, draft.MinTextSim, err = thresholdFlags(cmd); err != nil {
		return draft, err
	}

	var w domain.WeightOverrides
	if w.Actor, err = floatFlag(cmd, "w-actor"); err != nil {
		return draft, err
	}
	if w.Related, err = floatFlag(cmd, "w-related"); err != nil {
		return draft, err
	}
	if w.Text, err = floatFlag(cmd, "w-text"); err != nil {
		return draft, err
	}
	if w.Actor != nil || w.Related != nil || w.Text != nil {
		draft.Weights = &w
	}
	return draft, nil
}

func thresholdFlags(cmd *cobra.Command) (minScore, minTextSim *float64, err error) {
	if minScore, err = floatFlag(cmd, "min-score"); err != nil {
		return nil, nil, err
	}
	if minTextSim, err = floatFlag(cmd, "min-text-sim"); err != nil {
		return nil, nil, err
	}
	return minScore, minTextSim, nil
}

func runCaseList(cmd *cobra.Command, _ []string) error {
	if caseService == nil {
		return errNotConfigured
	}
	cases, err := caseService.List(cmd.Context())
	if err != nil {
		return err
	}
	if asJSON(cmd) {
		return printJSON(cmd, cases)
	}
	if len(cases) == 0 {
		cmd.Println("No cases.")
		return nil
	}
	for _, c := range cases {
		cmd.Printf("%s  %-8s  %3d record(s)  %s\n", c.ID, c.Status, len(c.Snapshot.RecordIDs), c.Title)
	}
	return nil
}

func runCaseShow(cmd *cobra.Command, args []string) error {
	if caseService == nil {
		return errNotConfigured
	}
	c, err := caseService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("case %s: %w", args[0], err)
	}
	if asJSON(cmd) {
		return printJSON(cmd, c)
	}
	records, err := caseService.Records(cmd.Context(), c.ID)
	if err != nil {
		return err
	}

	cmd.Printf("%s  %s\n", c.ID, c.Title)
	cmd.Printf("Status:  %s\n", c.Status)
	actors := make([]string, 0, len(c.Profile.Actors))
	for _, a := range c.Profile.Actors {
		actors = append(actors, a.Short())
	}
	cmd.Printf("Actors:  %s\n", strings.Join(actors, ", "))
	if c.Profile.Query != "" {
		cmd.Printf("Query:   %s\n", c.Profile.Query)
	}
	if c.Profile.HasTimeBounds() {
		cmd.Printf("Window:  %s ~ %s\n", formatBound(c.Profile.TimeFrom), formatBound(c.Profile.TimeTo))
	}

	cmd.Printf("\nRecords (%d):\n", len(records))
	for _, r := range records {
		score := "   -"
		if s, ok := c.Snapshot.ScoreByRecordID[r.ID]; ok {
			score = fmt.Sprintf("%4.2f", s)
		}
		cmd.Printf("  %s  %s  %-16s  %s\n", score, r.ID, formatWhen(r.Timestamp), truncate(r.Summary, 48))
	}

	if len(c.Advisors) > 0 {
		cmd.Println("\nAdvisories:")
		for _, a := range c.Advisors {
			cmd.Printf("  %s  [%s/%s] %s\n", a.ID, a.Level, a.State, a.Title)
		}
	}
	if len(c.Steps) > 0 {
		cmd.Println("\nSteps:")
		for _, s := range c.Steps {
			cmd.Printf("  %s  %s  %s\n", formatWhen(s.TS), s.Name, s.Note)
		}
	}
	return nil
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "…"
	}
	return formatWhen(t)
}

func runCaseCandidates(cmd *cobra.Command, args []string) error {
	if caseService == nil {
		return errNotConfigured
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("getting limit flag: %w", err)
	}
	minScore, minTextSim, err := thresholdFlags(cmd)
	if err != nil {
		return err
	}
	hits, err := caseService.Candidates(cmd.Context(), args[0], domain.RankOptions{
		Limit:      limit,
		MinScore:   minScore,
		MinTextSim: minTextSim,
	})
	if err != nil {
		return err
	}
	if asJSON(cmd) {
		return printJSON(cmd, hits)
	}
	printHits(cmd, hits)
	return nil
}

func printHits(cmd *cobra.Command, hits []domain.RankedHit) {
	if len(hits) == 0 {
		cmd.Println("No matching records.")
		return
	}
	for _, h := range hits {
		cmd.Printf("%3d  %5.2f  %s  %-16s  %s\n",
			h.Rank, h.Score, h.ID, formatWhen(h.Record.Timestamp), truncate(h.Record.Summary, 40))
		if len(h.Reasons) > 0 {
			cmd.Printf("            %s\n", strings.Join(h.Reasons, " · "))
		}
	}
}

func runCaseAdd(cmd *cobra.Command, args []string) error {
	if caseService == nil {
		return errNotConfigured
	}
	c, err := caseService.AddRecords(cmd.Context(), args[0], args[1:])
	if err != nil {
		return err
	}
	cmd.Printf("Case %s now includes %d record(s)\n", c.ID, len(c.Snapshot.RecordIDs))
	return nil
}

func runCaseRemove(cmd *cobra.Command, args []string) error {
	if caseService == nil {
		return errNotConfigured
	}
	c, err := caseService.RemoveRecord(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	cmd.Printf("Removed %s; case %s now includes %d record(s)\n", args[1], c.ID, len(c.Snapshot.RecordIDs))
	return nil
}

func runCaseCompact(cmd *cobra.Command, args []string) error {
	if caseService == nil {
		return errNotConfigured
	}
	n, err := caseService.Compact(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Dropped %d cached score(s)\n", n)
	return nil
}

func runCaseAdvise(cmd *cobra.Command, args []string) error {
	if caseService == nil {
		return errNotConfigured
	}
	advisorID, _ := cmd.Flags().GetString("set")
	state, _ := cmd.Flags().GetString("state")

	var (
		c   *domain.Case
		err error
	)
	switch {
	case advisorID == "" && state == "":
		c, err = caseService.Advise(cmd.Context(), args[0])
	case advisorID == "" || state == "":
		return domain.NewValidationError("set", "--set and --state go together")
	default:
		c, err = caseService.SetAdvisorState(cmd.Context(), args[0], advisorID, domain.AdvisorState(state))
	}
	if err != nil {
		return err
	}

	active := 0
	for _, a := range c.Advisors {
		if a.State == domain.AdvisorActive {
			active++
		}
	}
	cmd.Printf("Case %s has %d advisory(ies), %d active\n", c.ID, len(c.Advisors), active)
	return nil
}

func runCaseStep(cmd *cobra.Command, args []string) error {
	if caseService == nil {
		return errNotConfigured
	}
	name, _ := cmd.Flags().GetString("name")
	note, _ := cmd.Flags().GetString("note")
	at, _ := cmd.Flags().GetString("at")
	ts, err := parseTime("at", at)
	if err != nil {
		return err
	}
	c, err := caseService.AddStep(cmd.Context(), args[0], domain.StepDraft{TS: ts, Name: name, Note: note})
	if err != nil {
		return err
	}
	cmd.Printf("Logged step on case %s (%d step(s))\n", c.ID, len(c.Steps))
	return nil
}

func runCaseStatus(cmd *cobra.Command, args []string) error {
	if caseService == nil {
		return errNotConfigured
	}
	c, err := caseService.SetStatus(cmd.Context(), args[0], domain.CaseStatus(args[1]))
	if err != nil {
		return err
	}
	cmd.Printf("Case %s is now %s\n", c.ID, c.Status)
	return nil
}

func runCaseDelete(cmd *cobra.Command, args []string) error {
	if caseService == nil {
		return errNotConfigured
	}
	id := args[0]
	c, err := caseService.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("case %s: %w", id, err)
	}
	ok, err := confirm(cmd, fmt.Sprintf("Delete case %s %q?", id, c.Title))
	if err != nil {
		return err
	}
	if !ok {
		cmd.Println("Cancelled.")
		return nil
	}
	if err := caseService.Delete(cmd.Context(), id); err != nil {
		return err
	}
	cmd.Printf("Deleted case %s\n", id)
	return nil
}
