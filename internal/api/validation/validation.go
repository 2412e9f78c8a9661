package validation

import (
	"fmt"
	"math"
	"net/url"
	"unicode/utf8"
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func checkLength(errs []FieldError, field string, v *string, max int) []FieldError {
	if v != nil && utf8.RuneCountInString(*v) > max {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, max)})
	}
	return errs
}

// maxCount is the largest value the INTEGER count and price columns hold.
const maxCount = math.MaxInt32

func checkCount(errs []FieldError, field string, v *int) []FieldError {
	switch {
	case v == nil:
	case *v < 0:
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("%s must not be negative", field)})
	case *v > maxCount:
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("%s must be at most %d", field, maxCount)})
	}
	return errs
}

// checkURL accepts empty strings so clients can blank a link without sending null.
func checkURL(errs []FieldError, field string, v *string) []FieldError {
	if v == nil || *v == "" {
		return errs
	}
	if len(*v) > 2048 {
		return append(errs, FieldError{Field: field, Message: fmt.Sprintf("%s must be at most 2048 characters", field)})
	}
	u, err := url.Parse(*v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return append(errs, FieldError{Field: field, Message: fmt.Sprintf("%s must be an absolute http or https URL", field)})
	}
	return errs
}
