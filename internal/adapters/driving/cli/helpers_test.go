package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casefile/internal/adapters/driven/engine/local"
	"github.com/custodia-labs/casefile/internal/adapters/driven/engine/rules"
	"github.com/custodia-labs/casefile/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/services"
)

var hong = domain.ActorRef{Type: domain.ActorStudent, Name: "홍길동"}

type testEnv struct {
	records  *memory.RecordStore
	cases    *memory.CaseStore
	caseSvc  *services.CaseService
	settings *services.SettingsService
}

// setupTestServices wires the real services over memory stores.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		records: memory.NewRecordStore(),
		cases:   memory.NewCaseStore(),
	}
	e.caseSvc = services.NewCaseService(e.cases, e.records, local.New(nil), rules.New())
	e.settings = services.NewSettingsService(memory.NewConfigStore())

	SetServices(&Services{
		Record:   services.NewRecordService(e.records, e.cases),
		Case:     e.caseSvc,
		Report:   services.NewReportService(e.cases, e.records),
		Settings: e.settings,
	})
	t.Cleanup(func() { SetServices(nil) })
	return e
}

func (e *testEnv) seed(t *testing.T, id string, day int, summary string) {
	t.Helper()
	require.NoError(t, e.records.Save(context.Background(), &domain.Record{
		ID:          id,
		Timestamp:   time.Date(2025, time.June, day, 9, 0, 0, 0, time.UTC),
		Actor:       hong,
		Place:       "복도",
		Summary:     summary,
		Sensitivity: domain.LV2,
		StoreType:   "문서",
	}))
}

func (e *testEnv) createCase(t *testing.T, query string) *domain.Case {
	t.Helper()
	c, err := e.caseSvc.Create(context.Background(), domain.CaseDraft{
		Actors: []domain.ActorRef{hong},
		Query:  query,
	})
	require.NoError(t, err)
	return c
}

// run executes the root command and returns everything it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags(rootCmd)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag in the tree to its default so tests
// sharing rootCmd do not leak values.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
