package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

var recordCmd = &cobra.Command{
	Use:     "record",
	Aliases: []string{"rec"},
	Short:   "Manage incident records",
}

var recordAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a record",
	Long: `Add a timestamped incident record.

Actors are written as TYPE:NAME, where TYPE is one of
관리자, 학부모, 학생, 동료교사, 외부인, 기타.

Examples:
  casefile record add --actor 학생:홍길동 --related 학부모:홍아버지 \
    --place 복도 --store 문서 --lv LV2 --at "2025-06-01 09:00" \
    --summary "복도에서 언쟁"`,
	Args: cobra.NoArgs,
	RunE: runRecordAdd,
}

var recordListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List records, oldest first",
	Args:    cobra.NoArgs,
	RunE:    runRecordList,
}

var recordGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordGet,
}

var recordDeleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a record no case includes",
	Args:    cobra.ExactArgs(1),
	RunE:    runRecordDelete,
}

func init() {
	f := recordAddCmd.Flags()
	f.String("actor", "", "main actor as TYPE:NAME")
	f.StringArray("related", nil, "related actor as TYPE:NAME (repeatable)")
	f.String("place", "", "place, e.g. 교실 or 기타")
	f.String("place-other", "", "place detail when --place is 기타")
	f.String("summary", "", "what happened")
	f.String("lv", string(domain.LV1), "sensitivity LV1..LV5")
	f.String("store", "", "how it is kept, e.g. 문서 or 녹취록")
	f.String("store-other", "", "storage detail when --store is 기타")
	f.String("at", "", "when it happened, YYYY-MM-DD[ HH:MM] (empty means unknown)")
	f.StringArray("extra", nil, "extra field as KEY=VALUE (repeatable)")
	_ = recordAddCmd.MarkFlagRequired("actor")
	_ = recordAddCmd.MarkFlagRequired("summary")

	for _, c := range []*cobra.Command{recordAddCmd, recordListCmd, recordGetCmd} {
		c.Flags().Bool("json", false, "print JSON")
	}

	recordCmd.AddCommand(recordAddCmd, recordListCmd, recordGetCmd, recordDeleteCmd)
	rootCmd.AddCommand(recordCmd)
}

func runRecordAdd(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return errNotConfigured
	}
	f := cmd.Flags()
	actor, _ := f.GetString("actor")
	related, _ := f.GetStringArray("related")
	place, _ := f.GetString("place")
	placeOther, _ := f.GetString("place-other")
	summary, _ := f.GetString("summary")
	lv, _ := f.GetString("lv")
	store, _ := f.GetString("store")
	storeOther, _ := f.GetString("store-other")
	at, _ := f.GetString("at")
	extraArgs, _ := f.GetStringArray("extra")

	ts, err := parseTime("at", at)
	if err != nil {
		return err
	}
	extra, err := parseExtra(extraArgs)
	if err != nil {
		return err
	}

	rec, err := recordService.Add(cmd.Context(), domain.RecordDraft{
		Timestamp:   ts,
		Actor:       parseActor(actor),
		Related:     parseActors(related),
		Place:       place,
		PlaceOther:  placeOther,
		Summary:     summary,
		Sensitivity: domain.Sensitivity(strings.ToUpper(lv)),
		StoreType:   store,
		StoreOther:  storeOther,
		Extra:       extra,
	})
	if err != nil {
		return err
	}

	if asJSON(cmd) {
		return printJSON(cmd, rec)
	}
	cmd.Printf("Added record %s\n", rec.ID)
	return nil
}

func runRecordList(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return errNotConfigured
	}
	records, err := recordService.List(cmd.Context())
	if err != nil {
		return err
	}
	if asJSON(cmd) {
		return printJSON(cmd, records)
	}
	if len(records) == 0 {
		cmd.Println("No records.")
		return nil
	}
	for _, r := range records {
		cmd.Printf("%s  %-16s  %s  %-12s  %s\n",
			r.ID, formatWhen(r.Timestamp), r.Sensitivity, r.Actor.Short(), truncate(r.Summary, 48))
	}
	return nil
}

func runRecordGet(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errNotConfigured
	}
	r, err := recordService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("record %s: %w", args[0], err)
	}
	if asJSON(cmd) {
		return printJSON(cmd, r)
	}

	cmd.Printf("ID:        %s\n", r.ID)
	cmd.Printf("When:      %s\n", formatWhen(r.Timestamp))
	cmd.Printf("Actor:     %s\n", r.Actor.Short())
	if len(r.Related) > 0 {
		names := make([]string, 0, len(r.Related))
		for _, a := range r.Related {
			names = append(names, a.Short())
		}
		cmd.Printf("Related:   %s\n", strings.Join(names, ", "))
	}
	cmd.Printf("Place:     %s\n", r.PlaceLabel())
	cmd.Printf("Stored as: %s\n", r.StoreLabel())
	cmd.Printf("Level:     %s\n", r.Sensitivity)
	cmd.Printf("Summary:   %s\n", r.Summary)
	for k, v := range r.Extra {
		cmd.Printf("  %s = %s\n", k, v)
	}
	return nil
}

func runRecordDelete(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errNotConfigured
	}
	id := args[0]
	if _, err := recordService.Get(cmd.Context(), id); err != nil {
		return fmt.Errorf("record %s: %w", id, err)
	}
	ok, err := confirm(cmd, fmt.Sprintf("Delete record %s?", id))
	if err != nil {
		return err
	}
	if !ok {
		cmd.Println("Cancelled.")
		return nil
	}
	if err := recordService.Delete(cmd.Context(), id); err != nil {
		return err
	}
	cmd.Printf("Deleted record %s\n", id)
	return nil
}

func parseExtra(args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, domain.NewValidationError("extra", fmt.Sprintf("%q is not KEY=VALUE", a))
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

func asJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
