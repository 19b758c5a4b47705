// Package rules provides the built-in advisory provider.
//
// Every rule inspects a case and its snapshot records and emits at most
// one item. Items carry a stable RuleID so regenerated advice keeps the
// state the operator gave it.
package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ports/driven"
)

// Ensure Advisor implements the interface.
var _ driven.AdvisorProvider = (*Advisor)(nil)

// Rule produces an advisory item for a case, or false when it does not apply.
type Rule struct {
	ID    string
	Apply func(req driven.AdviseRequest) (domain.AdvisorItem, bool)
}

// Advisor evaluates a fixed list of rules.
type Advisor struct {
	rules []Rule
}

// New creates an advisor with the given rules, or the defaults when none are given.
func New(rules ...Rule) *Advisor {
	if len(rules) == 0 {
		rules = Defaults()
	}
	return &Advisor{rules: rules}
}

// Advise runs every rule in order.
func (a *Advisor) Advise(ctx context.Context, req driven.AdviseRequest) ([]domain.AdvisorItem, error) {
	out := make([]domain.AdvisorItem, 0, len(a.rules))
	for _, r := range a.rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, ok := r.Apply(req)
		if !ok {
			continue
		}
		item.RuleID = r.ID
		if item.State == "" {
			item.State = domain.AdvisorActive
		}
		out = append(out, item)
	}
	return out, nil
}

// Defaults returns the built-in rules.
func Defaults() []Rule {
	return []Rule{
		{ID: "rule:pack", Apply: packEvidence},
		{ID: "rule:comm", Apply: officialChannels},
		{ID: "rule:next", Apply: nextAction},
		{ID: "rule:sensitive", Apply: sensitiveRecords},
		{ID: "rule:empty", Apply: emptySnapshot},
	}
}

func packEvidence(driven.AdviseRequest) (domain.AdvisorItem, bool) {
	return domain.AdvisorItem{
		Title: "증빙 정리",
		Body:  "시간순으로 사실만 정리하고, 원본 증빙(녹취/문서/메신저)을 함께 묶어두세요.",
		Level: domain.AdvisorInfo,
		Tags:  []string{"정리"},
	}, true
}

func officialChannels(driven.AdviseRequest) (domain.AdvisorItem, bool) {
	return domain.AdvisorItem{
		Title: "커뮤니케이션",
		Body:  "추가 소통은 가능한 한 공식 채널/문서로 남기고, 감정 표현은 줄이세요.",
		Level: domain.AdvisorWarn,
		Tags:  []string{"소통"},
	}, true
}

func nextAction(req driven.AdviseRequest) (domain.AdvisorItem, bool) {
	hint := strings.TrimSpace(req.Case.Title)
	if hint == "" {
		hint = "케이스"
	}
	return domain.AdvisorItem{
		Title: fmt.Sprintf("다음 액션 (%s)", hint),
		Body:  "필요 시 관리자/담당자에게 '요약 3줄 + 타임라인 + 증빙 목록' 형태로 공유할 준비를 하세요.",
		Level: domain.AdvisorInfo,
		Tags:  []string{"액션"},
	}, true
}

func sensitiveRecords(req driven.AdviseRequest) (domain.AdvisorItem, bool) {
	n := 0
	for _, r := range req.Records {
		if r.Sensitivity == domain.LV4 || r.Sensitivity == domain.LV5 {
			n++
		}
	}
	if n == 0 {
		return domain.AdvisorItem{}, false
	}
	return domain.AdvisorItem{
		Title: "민감 기록 취급",
		Body:  fmt.Sprintf("민감도 LV4 이상 기록 %d건이 포함되어 있어요. 공유 범위를 최소화하세요.", n),
		Level: domain.AdvisorCritical,
		Tags:  []string{"보안"},
		Extra: map[string]string{"count": fmt.Sprint(n)},
	}, true
}

func emptySnapshot(req driven.AdviseRequest) (domain.AdvisorItem, bool) {
	if len(req.Records) > 0 {
		return domain.AdvisorItem{}, false
	}
	return domain.AdvisorItem{
		Title: "포함된 기록 없음",
		Body:  "조건에 맞는 기록이 없어요. 기간이나 키워드를 넓히거나 기록을 직접 추가하세요.",
		Level: domain.AdvisorWarn,
		Tags:  []string{"정리"},
	}, true
}
