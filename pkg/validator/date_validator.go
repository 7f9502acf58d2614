package validator

import (
	"fmt"
	"regexp"
	"time"
)

// DateValidator validates date query parameters
type DateValidator interface {
	Validate(date string) error
}

type ISODateValidator struct {
	pattern *regexp.Regexp
}

func NewISODateValidator() DateValidator {
	return &ISODateValidator{
		pattern: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	}
}

func (v *ISODateValidator) Validate(date string) error {
	if date == "" {
		return fmt.Errorf("date cannot be empty")
	}

	if !v.pattern.MatchString(date) {
		return fmt.Errorf("date must use the YYYY-MM-DD format")
	}

	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("date is not a valid calendar date")
	}

	return nil
}
