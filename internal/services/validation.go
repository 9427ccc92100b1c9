package services

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
)

const (
	maxTransactionAmount = 1_000_000
	maxGoalTarget        = 10_000_000
	maxDescriptionLength = 100
	defaultListLimit     = 50
)

func requireOwner(uid string) error {
	if uid == "" {
		return errs.NewAuthenticationRequiredError()
	}
	return nil
}

// requireText trims v and rejects it when nothing is left.
func requireText(v, message string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", errs.NewValidationError(message)
	}
	return v, nil
}

func optionalText(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func cleanTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// positiveAmount rounds v to cents and checks it lies in (0, ceiling].
// A ceiling of 0 disables the upper bound.
func positiveAmount(v, ceiling float64, field, ceilingMsg string) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errs.NewValidationError(field + " must be a finite number")
	}
	v = helpers.RoundMoney(v)
	if v <= 0 {
		return 0, errs.NewValidationError(field + " must be greater than zero")
	}
	if ceiling > 0 && v > ceiling {
		return 0, errs.NewValidationError(ceilingMsg)
	}
	return v, nil
}

func transactionAmount(v float64) (float64, error) {
	return positiveAmount(v, maxTransactionAmount, "Amount", "Amount cannot exceed $1,000,000")
}

func goalTarget(v float64) (float64, error) {
	return positiveAmount(v, maxGoalTarget, "Target amount", "Target amount cannot exceed $10,000,000")
}

func budgetLimit(v float64) (float64, error) {
	return positiveAmount(v, 0, "Budget limit", "")
}

func transactionDescription(v string) (string, error) {
	v, err := requireText(v, "Description cannot be empty")
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(v) > maxDescriptionLength {
		return "", errs.NewValidationError("Description must be 100 characters or less")
	}
	return v, nil
}

func futureDeadline(deadline, now time.Time) error {
	if !deadline.After(now) {
		return errs.NewValidationError("Deadline must be in the future")
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *errs.NotFoundError
	return errors.As(err, &nf)
}
