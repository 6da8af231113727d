package validator

import (
	"fmt"

	"github.com/septivank/babybeat/internal/domain"
)

// Validator enforces the structural invariants of an event before it is
// persisted and strips fields that belong to other clusters.
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// Normalize validates a complete candidate event and returns a new event that
// carries only the identity fields and the cluster selected by its type.
// The candidate itself is never modified.
func (v *Validator) Normalize(candidate domain.Event) (domain.Event, error) {
	if candidate.Timestamp.IsZero() {
		return domain.Event{}, domain.NewValidationError("Timestamp is required")
	}

	if candidate.EndTime != nil && !candidate.EndTime.After(candidate.Timestamp) {
		return domain.Event{}, domain.NewValidationError("End time must be after start time")
	}

	out := domain.Event{
		ID:        candidate.ID,
		Type:      candidate.Type,
		Timestamp: candidate.Timestamp,
		CreatedAt: candidate.CreatedAt,
		UpdatedAt: candidate.UpdatedAt,
	}

	switch candidate.Type {
	case domain.EventTypeFeed:
		if err := normalizeFeed(candidate, &out); err != nil {
			return domain.Event{}, err
		}
	case domain.EventTypeSleep:
		if candidate.SleepLocation == nil || *candidate.SleepLocation == "" {
			return domain.Event{}, domain.NewValidationError("Sleep location is required for sleep events")
		}
		if !candidate.SleepLocation.Valid() {
			return domain.Event{}, domain.NewValidationError("Invalid sleep location")
		}
		out.SleepLocation = clone(candidate.SleepLocation)
		out.EndTime = clone(candidate.EndTime)
	case domain.EventTypeDiaper:
		if candidate.DiaperType == nil || *candidate.DiaperType == "" {
			return domain.Event{}, domain.NewValidationError("Diaper type is required for diaper events")
		}
		if !candidate.DiaperType.Valid() {
			return domain.Event{}, domain.NewValidationError("Invalid diaper type")
		}
		out.DiaperType = clone(candidate.DiaperType)
	default:
		return domain.Event{}, domain.NewValidationError("Invalid event type")
	}

	return out, nil
}

// normalizeFeed copies the feed sub-cluster selected by the feed type into out
func normalizeFeed(candidate domain.Event, out *domain.Event) error {
	if candidate.FeedType == nil || *candidate.FeedType == "" {
		return domain.NewValidationError("Feed type is required for feed events")
	}
	feedType := *candidate.FeedType

	switch feedType {
	case domain.FeedTypeBottle, domain.FeedTypeSolids:
		if candidate.Amount == nil {
			return domain.NewValidationError(fmt.Sprintf("Amount is required for %s feeds", feedType))
		}
		if *candidate.Amount <= 0 {
			return domain.NewValidationError(fmt.Sprintf("Amount must be positive for %s feeds", feedType))
		}
		if truthy(candidate.LeftDuration) || truthy(candidate.RightDuration) {
			return domain.NewValidationError(fmt.Sprintf("Duration fields are not allowed for %s feeds", feedType))
		}
		out.Amount = clone(candidate.Amount)
	case domain.FeedTypeBreastfeeding:
		if candidate.Amount != nil {
			return domain.NewValidationError("Amount is not allowed for breastfeeding")
		}
		if !truthy(candidate.LeftDuration) && !truthy(candidate.RightDuration) {
			return domain.NewValidationError("At least one breast duration is required for breastfeeding")
		}
		if negative(candidate.LeftDuration) || negative(candidate.RightDuration) {
			return domain.NewValidationError("Duration must be non-negative")
		}
		out.LeftDuration = clone(candidate.LeftDuration)
		out.RightDuration = clone(candidate.RightDuration)
	default:
		return domain.NewValidationError("Invalid feed type")
	}

	out.FeedType = &feedType
	return nil
}

func truthy(d *int) bool {
	return d != nil && *d != 0
}

func negative(d *int) bool {
	return d != nil && *d < 0
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
