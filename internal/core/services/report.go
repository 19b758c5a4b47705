package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/evidence"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
	"github.com/custodia-labs/casefile/internal/core/ports/driving"
	"github.com/custodia-labs/casefile/internal/logger"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// Report layout limits.
const (
	factLinesPerDay   = 8
	factSummaryRunes  = 120
	reportAdvisorsMax = 5
)

// WhenLayout formats timestamps in report rows and overview lines.
const WhenLayout = "2006-01-02 15:04"

// ReportService builds evidence reports for cases.
type ReportService struct {
	caseStore   driven.CaseStore
	recordStore driven.RecordStore
	now         func() time.Time
}

// NewReportService creates a new report service.
func NewReportService(caseStore driven.CaseStore, recordStore driven.RecordStore) *ReportService {
	return &ReportService{
		caseStore:   caseStore,
		recordStore: recordStore,
		now:         time.Now,
	}
}

// SetClock replaces the time source used for GeneratedAt.
func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// Build assembles the report payload for a case. Snapshot records are
// deduplicated once and that set feeds both the per-day facts and the
// evidence rows.
func (s *ReportService) Build(ctx context.Context, caseID string) (*domain.ReportPayload, error) {
	logger.Section("Build Report")

	c, err := s.caseStore.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	raw, err := s.recordStore.GetMany(ctx, c.Snapshot.RecordIDs)
	if err != nil {
		return nil, fmt.Errorf("load case records: %w", err)
	}
	records := evidence.Dedupe(raw)
	logger.Debug("Case %s: %d snapshot records, %d after dedup", c.ID, len(raw), len(records))

	generatedAt := s.now()
	hash, err := contentHash(c, records, generatedAt)
	if err != nil {
		return nil, err
	}

	return &domain.ReportPayload{
		CaseID:      c.ID,
		Title:       c.Title + " - 상황 경위 및 기록 정리서",
		GeneratedAt: generatedAt,
		Overview:    overviewLines(c),
		Facts:       factBlocks(records),
		Advisories:  advisoryLines(c.Advisors),
		Rows:        reportRows(c, records),
		ContentHash: hash,
	}, nil
}

func overviewLines(c *domain.Case) []string {
	p := c.Profile

	period := "-"
	if p.HasTimeBounds() {
		period = formatWhen(p.TimeFrom) + " ~ " + formatWhen(p.TimeTo)
	}

	parties := make([]string, 0, len(p.Actors))
	for _, a := range p.Actors {
		parties = append(parties, a.Short())
	}
	partyLine := "-"
	if len(parties) > 0 {
		partyLine = strings.Join(parties, ", ")
	}

	query := strings.TrimSpace(p.Query)
	if query == "" {
		query = "-"
	}

	basis := "기록 포함 기준: 자동 매칭(Actor/기간/텍스트) 랭킹 기반"
	if len(c.Snapshot.RecordIDs) > 0 {
		basis = "기록 포함 기준: 스냅샷에 명시된 기록"
	}

	return []string{
		"기간: " + period,
		"당사자(Actor): " + partyLine,
		"방어 필요 상황 요약: " + query,
		"상태: " + string(c.Status),
		basis,
	}
}

func factBlocks(records []domain.Record) []domain.FactBlock {
	days := evidence.GroupByDay(records)
	blocks := make([]domain.FactBlock, 0, len(days))
	for _, day := range days {
		date := day.Date
		if date == "" {
			date = "일자 미상"
		}
		block := domain.FactBlock{Date: date}
		for i, r := range day.Records {
			if i == factLinesPerDay {
				block.Overflow = len(day.Records) - factLinesPerDay
				break
			}
			block.Lines = append(block.Lines, fmt.Sprintf("%s(%s): %s [%s]",
				r.Actor.Short(), r.PlaceLabel(), truncate(strings.TrimSpace(r.Summary), factSummaryRunes), shortID(r.ID)))
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func advisoryLines(items []domain.AdvisorItem) []string {
	lines := make([]string, 0, reportAdvisorsMax)
	for _, a := range items {
		if a.State == domain.AdvisorDismissed {
			continue
		}
		if len(lines) == reportAdvisorsMax {
			break
		}
		head := fmt.Sprintf("[%s] %s", strings.ToUpper(string(a.Level)), strings.TrimSpace(a.Title))
		if body := firstLine(a.Body); body != "" {
			head += " - " + body
		}
		lines = append(lines, head)
	}
	return lines
}

func reportRows(c *domain.Case, records []domain.Record) []domain.ReportRow {
	rows := make([]domain.ReportRow, 0, len(records)+len(c.Steps))
	for _, r := range records {
		reason := "스냅샷 포함"
		if score, ok := c.Snapshot.ScoreByRecordID[r.ID]; ok && score > 0 {
			reason = fmt.Sprintf("스냅샷 포함 (점수 %.2f)", score)
		}
		rows = append(rows, domain.ReportRow{
			When:             r.Timestamp,
			Kind:             domain.RowKindRecord,
			SensitivityLevel: r.Sensitivity,
			Actor:            r.Actor.Short(),
			Place:            r.PlaceLabel(),
			Summary:          strings.TrimSpace(r.Summary),
			ID:               r.ID,
			Reason:           reason,
		})
	}
	for _, st := range c.Steps {
		parts := make([]string, 0, 2)
		for _, p := range []string{st.Name, st.Note} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		summary := strings.Join(parts, " - ")
		if summary == "" {
			summary = "-"
		}
		rows = append(rows, domain.ReportRow{
			When:    st.TS,
			Kind:    domain.RowKindStep,
			Actor:   "-",
			Place:   "-",
			Summary: summary,
			ID:      st.ID,
			Reason:  "진행 기록",
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].When, rows[j].When
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.Before(b)
	})
	return rows
}

// contentHash digests the case, its deduplicated records and the
// generation time. It is a display hint for tamper evidence only.
func contentHash(c *domain.Case, records []domain.Record, generatedAt time.Time) (string, error) {
	payload := struct {
		Case        *domain.Case    `json:"case"`
		Records     []domain.Record `json:"records"`
		GeneratedAt time.Time       `json:"generatedAt"`
	}{c, records, generatedAt}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode report hash input: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(WhenLayout)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// shortID abbreviates an id to its first and last four characters.
func shortID(id string) string {
	r := []rune(id)
	if len(r) <= 10 {
		return id
	}
	return string(r[:4]) + "…" + string(r[len(r)-4:])
}
