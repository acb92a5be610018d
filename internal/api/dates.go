package api

import (
	"fmt"
	"time"

	"github.com/lox/surfsup/internal/models"
)

// yearBefore returns the date 365 days before date. Leap days are not
// special-cased, so the result can land one calendar day off the anniversary.
func yearBefore(date string) (string, error) {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return t.AddDate(0, 0, -365).Format(models.DateLayout), nil
}
