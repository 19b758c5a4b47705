package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casefile/internal/core/domain"
)

func TestRecordAdd(t *testing.T) {
	e := setupTestServices(t)

	out, err := run(t, "record", "add",
		"--actor", "학생:홍길동",
		"--related", "학부모:홍아버지",
		"--related", "동료교사:김선생",
		"--place", "복도",
		"--store", "문서",
		"--lv", "lv3",
		"--at", "2025-06-01 09:30",
		"--extra", "witness=이반장",
		"--summary", "복도에서 언쟁")
	require.NoError(t, err)
	assert.Contains(t, out, "Added record REC_")

	records, err := e.records.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, hong, r.Actor)
	assert.Len(t, r.Related, 2)
	assert.Equal(t, domain.LV3, r.Sensitivity)
	assert.Equal(t, 30, r.Timestamp.Minute())
	assert.Equal(t, map[string]string{"witness": "이반장"}, r.Extra)
}

func TestRecordAdd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "record", "add", "--json",
		"--actor", "학생:홍길동", "--place", "교실", "--store", "문서", "--summary", "수업 방해")
	require.NoError(t, err)

	var r domain.Record
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.True(t, strings.HasPrefix(r.ID, "REC_"))
	assert.True(t, r.Timestamp.IsZero())
	assert.Equal(t, domain.LV1, r.Sensitivity)
}

func TestRecordAdd_Invalid(t *testing.T) {
	setupTestServices(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad time", []string{"--at", "yesterday"}},
		{"bad extra", []string{"--extra", "novalue"}},
		{"other place without detail", []string{"--place", "기타"}},
		{"bad level", []string{"--lv", "LV9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []string{"record", "add", "--actor", "학생:홍길동", "--place", "복도", "--store", "문서", "--summary", "x"}
			_, err := run(t, append(args, tt.args...)...)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRecordListAndGet(t *testing.T) {
	e := setupTestServices(t)
	e.seed(t, "r2", 2, "상담 진행")
	e.seed(t, "r1", 1, "복도에서 언쟁")

	out, err := run(t, "record", "list")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "r1"), strings.Index(out, "r2"))

	out, err = run(t, "record", "get", "r1")
	require.NoError(t, err)
	assert.Contains(t, out, "학생 홍길동")
	assert.Contains(t, out, "복도에서 언쟁")

	_, err = run(t, "record", "get", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordList_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "record", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No records.")
}

func TestRecordDelete(t *testing.T) {
	e := setupTestServices(t)
	e.seed(t, "r1", 1, "복도에서 언쟁")
	require.NoError(t, e.records.Save(context.Background(), &domain.Record{
		ID:          "r2",
		Actor:       domain.ActorRef{Type: domain.ActorParent, Name: "김보호"},
		Place:       "교무실",
		Summary:     "급식 문의",
		Sensitivity: domain.LV1,
		StoreType:   "전화",
	}))
	c := e.createCase(t, "언쟁")
	require.Equal(t, []string{"r1"}, c.Snapshot.RecordIDs)

	_, err := run(t, "record", "delete", "r1", "--yes")
	assert.ErrorIs(t, err, domain.ErrRecordInUse)

	out, err := run(t, "record", "delete", "r2", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted record r2")
}

func TestRecordDelete_NeedsConfirmation(t *testing.T) {
	e := setupTestServices(t)
	e.seed(t, "r1", 1, "기록")

	orig := stdinIsTerminal
	t.Cleanup(func() { stdinIsTerminal = orig })

	stdinIsTerminal = func() bool { return false }
	_, err := run(t, "record", "delete", "r1")
	assert.ErrorIs(t, err, errNeedsConfirmation)

	stdinIsTerminal = func() bool { return true }
	rootCmd.SetIn(strings.NewReader("n\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })
	out, err := run(t, "record", "delete", "r1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")

	_, err = e.records.Get(context.Background(), "r1")
	assert.NoError(t, err)
}
