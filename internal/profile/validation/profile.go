// Package validation gates profile edits before they are persisted.
//
// Two validators live here. ProfileValidator covers the basic-info section of
// a person record and knows how to cross-check submitted values against the
// resident registration number. SectionValidator generalizes the same idea
// over arbitrary named sections, each carrying its own required-field list
// and per-field constraint table.
//
// Both validators are pure: they hold only immutable configuration and a
// reference clock, so a single instance is safe for concurrent use.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"personnel/internal/identity"
)

// ErrorCode classifies a field-level validation failure.
type ErrorCode string

const (
	CodeRequired     ErrorCode = "REQUIRED"
	CodeInvalidRRN   ErrorCode = "INVALID_RRN"
	CodeInvalidPhone ErrorCode = "INVALID_PHONE"
	CodeInvalidEmail ErrorCode = "INVALID_EMAIL"
	CodeInconsistent ErrorCode = "INCONSISTENT"
)

// FieldError is a single validation failure tied to a submitted field.
type FieldError struct {
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Code    ErrorCode `json:"code"`
}

// Result collects every problem found in one validation pass. It is built
// fresh per call and returned to the caller; nothing retains it afterwards.
type Result struct {
	Valid    bool             `json:"is_valid"`
	Errors   []FieldError     `json:"errors,omitempty"`
	Identity *identity.Parsed `json:"identity,omitempty"`
}

func (r *Result) add(field, message string, code ErrorCode) {
	r.Valid = false
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message, Code: code})
}

// AutoFields are the values a caller can pre-fill from a valid resident
// registration number.
type AutoFields struct {
	BirthDate string          `json:"birth_date"`
	Age       int             `json:"age"`
	Gender    identity.Gender `json:"gender"`
}

var (
	// Optional 2-3 digit prefix group, 3-4 digit middle group, 4 digit final
	// group; hyphens optional throughout.
	phonePattern = regexp.MustCompile(`^(\d{2,3}-?)?\d{3,4}-?\d{4}$`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

// requiredBasicFields is the fixed set enforced under strict validation, in
// reporting order.
var requiredBasicFields = []string{
	"name",
	"english_name",
	"resident_number",
	"mobile_phone",
	"email",
	"registered_address",
	"actual_address",
}

// phoneFields are checked independently whenever present.
var phoneFields = []string{"mobile_phone", "home_phone", "emergency_contact"}

// ProfileValidator validates the basic-info section of a person record.
type ProfileValidator struct {
	now func() time.Time
}

// ProfileOption customizes a ProfileValidator.
type ProfileOption func(*ProfileValidator)

// WithClock fixes the reference clock; tests use this for deterministic age
// and future-date decisions.
func WithClock(now func() time.Time) ProfileOption {
	return func(v *ProfileValidator) {
		v.now = now
	}
}

// NewProfileValidator constructs a validator with the real clock by default.
func NewProfileValidator(opts ...ProfileOption) *ProfileValidator {
	v := &ProfileValidator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateBasicInfo checks submitted basic-info fields. All checks are
// additive: a single call reports every failing category at once, and only
// the stages inside the identity parser short-circuit internally.
//
// When strict, every field in the required set must be present and non-blank.
// The consistency check between a submitted birth date or gender and the
// values derived from the resident number runs only when the number itself
// parsed successfully.
func (v *ProfileValidator) ValidateBasicInfo(data map[string]string, strict bool) *Result {
	result := &Result{Valid: true}

	if strict {
		for _, field := range requiredBasicFields {
			if strings.TrimSpace(data[field]) == "" {
				result.add(field, fmt.Sprintf("%s is required", labelFor(field)), CodeRequired)
			}
		}
	}

	if rrn := strings.TrimSpace(data["resident_number"]); rrn != "" {
		parsed := identity.ParseAt(rrn, v.now())
		if parsed.Valid {
			result.Identity = &parsed
		} else {
			result.add("resident_number", parsed.ErrorMessage, CodeInvalidRRN)
		}
	}

	for _, field := range phoneFields {
		if value := strings.TrimSpace(data[field]); value != "" && !phonePattern.MatchString(value) {
			result.add(field, fmt.Sprintf("%s is not a valid phone number", labelFor(field)), CodeInvalidPhone)
		}
	}

	if email := strings.TrimSpace(data["email"]); email != "" && !emailPattern.MatchString(email) {
		result.add("email", fmt.Sprintf("%s is not a valid email address", labelFor("email")), CodeInvalidEmail)
	}

	if result.Identity != nil {
		v.checkConsistency(data, result)
	}

	return result
}

// checkConsistency flags submitted values that conflict with what the
// resident number encodes. The parser-derived value is authoritative;
// comparison is exact string equality with no format normalization.
func (v *ProfileValidator) checkConsistency(data map[string]string, result *Result) {
	if birth := strings.TrimSpace(data["birth_date"]); birth != "" && birth != result.Identity.BirthDate {
		result.add("birth_date",
			fmt.Sprintf("birth date does not match resident number (expected %s)", result.Identity.BirthDate),
			CodeInconsistent)
	}
	if gender := strings.TrimSpace(data["gender"]); gender != "" && gender != string(result.Identity.Gender) {
		result.add("gender",
			fmt.Sprintf("gender does not match resident number (expected %s)", result.Identity.Gender),
			CodeInconsistent)
	}
}

// ExtractAutoFields derives the auto-fill values from a resident registration
// number, or nil when the number does not validate.
func ExtractAutoFields(rrn string) *AutoFields {
	return ExtractAutoFieldsAt(rrn, time.Now())
}

// ExtractAutoFieldsAt is ExtractAutoFields with an explicit reference date.
func ExtractAutoFieldsAt(rrn string, ref time.Time) *AutoFields {
	parsed := identity.ParseAt(rrn, ref)
	if !parsed.Valid {
		return nil
	}
	return &AutoFields{
		BirthDate: parsed.BirthDate,
		Age:       parsed.Age,
		Gender:    parsed.Gender,
	}
}
