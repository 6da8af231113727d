package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/septivank/babybeat/tools/timeparser"
)

var validate = validator.New()

const msgInvalidDate = "Invalid date format"

type listParams struct {
	StartDate string `form:"startDate" validate:"required"`
	EndDate   string `form:"endDate" validate:"required"`
	Limit     *int   `form:"limit" validate:"omitempty,gt=0"`
}

type rangeParams struct {
	StartDate string `form:"startDate" validate:"required"`
	EndDate   string `form:"endDate" validate:"required"`
}

// limitInvalid reports whether a validation failure concerns the limit
func limitInvalid(err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.StructField() == "Limit" {
			return true
		}
	}
	return false
}

func parseRange(startDate, endDate string) (start, end time.Time, err error) {
	if start, err = timeparser.ParseInstant(startDate); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end, err = timeparser.ParseInstant(endDate); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
