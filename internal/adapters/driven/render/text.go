package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
)

// Ensure Text implements the interface.
var _ driven.ReportRenderer = (*Text)(nil)

// whenLayout matches the layout used in report rows.
const whenLayout = "2006-01-02 15:04"

// Text renders a report as styled plain text.
type Text struct {
	renderer *lipgloss.Renderer
	styles   *Styles
}

// NewText creates a text renderer whose colour support follows w.
// Pass the writer the report will be written to.
func NewText(w io.Writer) *Text {
	if w == nil {
		w = io.Discard
	}
	r := lipgloss.NewRenderer(w)
	return &Text{renderer: r, styles: NewStyles(r, nil)}
}

// Format returns "text".
func (t *Text) Format() string { return "text" }

// Render writes the header, overview, per-day facts, advisories and the
// evidence table.
func (t *Text) Render(ctx context.Context, p *domain.ReportPayload) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("render text: %w", domain.ErrInvalidInput)
	}

	var b strings.Builder
	s := t.styles

	b.WriteString(s.Title.Render(p.Title) + "\n")
	b.WriteString(s.Muted.Render(fmt.Sprintf("생성: %s  ·  해시: %s",
		p.GeneratedAt.Format(whenLayout), p.ContentHash)) + "\n")

	t.section(&b, "개요")
	for _, line := range p.Overview {
		b.WriteString("  • " + line + "\n")
	}

	t.section(&b, "사실 관계")
	if len(p.Facts) == 0 {
		b.WriteString(s.Muted.Render("  (기록 없음)") + "\n")
	}
	for _, fb := range p.Facts {
		b.WriteString("  " + s.Section.Render(fb.Date) + "\n")
		for _, line := range fb.Lines {
			b.WriteString("    - " + line + "\n")
		}
		if fb.Overflow > 0 {
			b.WriteString(s.Muted.Render(fmt.Sprintf("    … 외 %d건", fb.Overflow)) + "\n")
		}
	}

	if len(p.Advisories) > 0 {
		t.section(&b, "권고")
		for _, line := range p.Advisories {
			b.WriteString("  " + t.advisory(line) + "\n")
		}
	}

	t.section(&b, "기록 목록")
	if len(p.Rows) == 0 {
		b.WriteString(s.Muted.Render("  (기록 없음)") + "\n")
	} else {
		b.WriteString(t.rowsTable(p.Rows) + "\n")
	}

	return []byte(b.String()), nil
}

func (t *Text) section(b *strings.Builder, name string) {
	b.WriteString("\n" + t.styles.Section.Render("── "+name+" ──") + "\n")
}

// advisory colours the "[LEVEL]" prefix of an advisory line.
func (t *Text) advisory(line string) string {
	end := strings.Index(line, "]")
	if !strings.HasPrefix(line, "[") || end < 0 {
		return line
	}
	level := domain.AdvisorLevel(strings.ToLower(line[1:end]))
	return t.styles.Level(level).Render(line[:end+1]) + line[end+1:]
}

func (t *Text) rowsTable(rows []domain.ReportRow) string {
	s := t.styles
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		Headers("일시", "구분", "민감도", "당사자", "장소", "내용", "ID", "포함 사유").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			if col == 2 && row >= 0 && row < len(rows) {
				if st, ok := s.Sensitivity(rows[row].SensitivityLevel); ok {
					return st.Padding(0, 1)
				}
			}
			return t.renderer.NewStyle().Padding(0, 1)
		})

	for _, r := range rows {
		when := "일자 미상"
		if !r.When.IsZero() {
			when = r.When.Format(whenLayout)
		}
		kind := "기록"
		if r.Kind == domain.RowKindStep {
			kind = "진행"
		}
		lv := string(r.SensitivityLevel)
		if lv == "" {
			lv = "-"
		}
		tbl.Row(when, kind, lv, r.Actor, r.Place, r.Summary, r.ID, r.Reason)
	}
	return tbl.Render()
}
