package deathreport

import (
	"errors"
	"strings"
)

// ValidationFailure is a user-correctable problem with a form. Field is the
// JSON name of the offending input, empty for form-level failures.
type ValidationFailure struct {
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (f *ValidationFailure) Error() string {
	if f.Field == "" {
		return f.Message
	}
	return f.Field + ": " + f.Message
}

// Is matches failures by code, and by field when the target names one.
func (f *ValidationFailure) Is(target error) bool {
	t, ok := target.(*ValidationFailure)
	if !ok {
		return false
	}
	return t.Code == f.Code && (t.Field == "" || t.Field == f.Field)
}

var (
	ErrMissingScreeningForm = &ValidationFailure{
		Code:    "missing_screening_form",
		Message: "Missing Subject Screening form. Please complete it before proceeding.",
	}
	ErrMissingConsentVersionForm = &ValidationFailure{
		Code:    "missing_consent_version_form",
		Message: "Missing Consent Version form. Please complete it before proceeding.",
	}
	ErrDuplicateReport = &ValidationFailure{
		Field:   "subject_identifier",
		Code:    "unique",
		Message: "Death report with this subject identifier already exists.",
	}
)

// ValidationFailures collects every failure found on one form.
type ValidationFailures []*ValidationFailure

func (fs ValidationFailures) Error() string {
	msgs := make([]string, len(fs))
	for i, f := range fs {
		msgs[i] = f.Error()
	}
	return strings.Join(msgs, "; ")
}

func (fs ValidationFailures) Unwrap() []error {
	out := make([]error, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

// Fields returns the distinct field names that failed, in order.
func (fs ValidationFailures) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range fs {
		if f.Field != "" && !seen[f.Field] {
			seen[f.Field] = true
			out = append(out, f.Field)
		}
	}
	return out
}

// AsFailures extracts the failures carried by err, if any.
func AsFailures(err error) (ValidationFailures, bool) {
	var many ValidationFailures
	if errors.As(err, &many) {
		return many, true
	}
	var one *ValidationFailure
	if errors.As(err, &one) {
		return ValidationFailures{one}, true
	}
	return nil, false
}
