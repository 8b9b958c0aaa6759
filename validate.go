package synthmark

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// validateRecord rejects records whose fields would corrupt the
// positional wire format. Runs after default-filling, so an empty
// platform here is a caller bug rather than a missing default.
func validateRecord(r Record, limits Limits) error {
	if r.Platform == "" {
		return fmt.Errorf("%w: platform is empty", ErrValidation)
	}
	if r.Timestamp < 0 {
		return fmt.Errorf("%w: negative timestamp %d", ErrValidation, r.Timestamp)
	}
	fields := []struct {
		name  string
		value string
	}{
		{"platform", r.Platform},
		{"source", r.Source},
		{"userIdHash", r.UserIDHash},
		{"model", r.Model},
	}
	for _, f := range fields {
		if err := validateField(f.name, f.value, limits); err != nil {
			return err
		}
	}
	return nil
}

func validateField(name, value string, limits Limits) error {
	if len(value) > limits.MaxFieldLen {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrLimitExceeded, name, limits.MaxFieldLen)
	}
	if strings.Contains(value, fieldDelimiter) {
		return fmt.Errorf("%w: %s contains the field delimiter", ErrValidation, name)
	}
	if strings.ContainsRune(value, 0) {
		return fmt.Errorf("%w: %s contains a NUL byte", ErrValidation, name)
	}
	if !utf8.ValidString(value) {
		return fmt.Errorf("%w: %s is not valid UTF-8", ErrValidation, name)
	}
	return nil
}
