package services

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/casefile/internal/core/domain"
	"github.com/custodia-labs/casefile/internal/core/ranking"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs tag validation and converts the first failure into
// a *domain.ValidationError.
func validateStruct(value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return domain.NewValidationError(fieldPath(fe), tagMessage(fe))
}

// fieldPath strips the struct name from the namespace: "RecordDraft.actor" -> "actor".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("needs at least %s entries", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s long", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// normalizeActor trims both parts of an actor reference.
func normalizeActor(a domain.ActorRef) domain.ActorRef {
	return domain.ActorRef{
		Type: domain.ActorType(strings.TrimSpace(string(a.Type))),
		Name: strings.TrimSpace(a.Name),
	}
}

func validateActor(field string, a domain.ActorRef) error {
	if !a.Type.IsValid() {
		return domain.NewValidationError(field+".type", fmt.Sprintf("unknown actor type %q", a.Type))
	}
	if a.Name == "" {
		return domain.NewValidationError(field+".name", "is required")
	}
	return nil
}

// validateRecordDraft checks a draft and returns a cleaned copy.
func validateRecordDraft(d domain.RecordDraft) (domain.RecordDraft, error) {
	d.Actor = normalizeActor(d.Actor)
	d.Summary = strings.TrimSpace(d.Summary)
	d.Place = strings.TrimSpace(d.Place)
	d.PlaceOther = strings.TrimSpace(d.PlaceOther)
	d.StoreType = strings.TrimSpace(d.StoreType)
	d.StoreOther = strings.TrimSpace(d.StoreOther)

	if err := validateStruct(d); err != nil {
		return d, err
	}
	if err := validateActor("actor", d.Actor); err != nil {
		return d, err
	}
	if !d.Sensitivity.IsValid() {
		return d, domain.NewValidationError("lv", fmt.Sprintf("unknown sensitivity %q", d.Sensitivity))
	}
	if d.Place == domain.OtherTag && d.PlaceOther == "" {
		return d, domain.NewValidationError("placeOther", "is required when place is "+domain.OtherTag)
	}
	if d.StoreType == domain.OtherTag && d.StoreOther == "" {
		return d, domain.NewValidationError("storeOther", "is required when storeType is "+domain.OtherTag)
	}

	related := make([]domain.ActorRef, 0, len(d.Related))
	seen := map[string]struct{}{ranking.ActorKey(d.Actor): {}}
	for i, a := range d.Related {
		a = normalizeActor(a)
		if a.Name == "" {
			continue
		}
		if err := validateActor(fmt.Sprintf("related[%d]", i), a); err != nil {
			return d, err
		}
		if _, dup := seen[ranking.ActorKey(a)]; dup {
			continue
		}
		seen[ranking.ActorKey(a)] = struct{}{}
		related = append(related, a)
	}
	d.Related = related

	return d, nil
}

// validateCaseDraft checks a draft and returns a cleaned copy.
func validateCaseDraft(d domain.CaseDraft) (domain.CaseDraft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Query = strings.TrimSpace(d.Query)

	if err := validateStruct(d); err != nil {
		return d, err
	}

	actors := make([]domain.ActorRef, 0, len(d.Actors))
	seen := make(map[string]struct{}, len(d.Actors))
	for i, a := range d.Actors {
		a = normalizeActor(a)
		if err := validateActor(fmt.Sprintf("actors[%d]", i), a); err != nil {
			return d, err
		}
		if _, dup := seen[ranking.ActorKey(a)]; dup {
			continue
		}
		seen[ranking.ActorKey(a)] = struct{}{}
		actors = append(actors, a)
	}
	d.Actors = actors

	if !d.TimeFrom.IsZero() && !d.TimeTo.IsZero() && d.TimeFrom.After(d.TimeTo) {
		return d, domain.NewValidationError("timeFrom", "must not be after timeTo")
	}
	if err := validateOverrides(d.Weights, d.MinScore, d.MinTextSim); err != nil {
		return d, err
	}
	return d, nil
}

// validateRankOptions checks per-request ranking overrides.
func validateRankOptions(o domain.RankOptions) error {
	if o.Limit < 0 {
		return domain.NewValidationError("limit", "must not be negative")
	}
	return validateOverrides(o.Weights, o.MinScore, o.MinTextSim)
}

func validateOverrides(w *domain.WeightOverrides, minScore, minTextSim *float64) error {
	if w != nil {
		weights := []struct {
			field string
			value *float64
		}{
			{"weights.actor", w.Actor},
			{"weights.related", w.Related},
			{"weights.text", w.Text},
		}
		for _, wt := range weights {
			if wt.value != nil && !nonNegative(*wt.value) {
				return domain.NewValidationError(wt.field, "must be a non-negative number")
			}
		}
	}
	if minScore != nil && !nonNegative(*minScore) {
		return domain.NewValidationError("minScore", "must be a non-negative number")
	}
	if minTextSim != nil && (!nonNegative(*minTextSim) || *minTextSim > 1) {
		return domain.NewValidationError("minTextSim", "must be between 0 and 1")
	}
	return nil
}

func nonNegative(f float64) bool {
	return f >= 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
