package validation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"personnel/internal/identity"
)

// SectionField is the reserved pseudo-field key for section-level errors,
// e.g. an unknown section name.
const SectionField = "_section"

// Section error codes surfaced by the per-kind checkers.
const (
	CodeInvalidSection  ErrorCode = "INVALID_SECTION"
	CodeInvalidOption   ErrorCode = "INVALID_OPTION"
	CodeInvalidInteger  ErrorCode = "INVALID_INTEGER"
	CodeInvalidCurrency ErrorCode = "INVALID_CURRENCY"
	CodeInvalidBoolean  ErrorCode = "INVALID_BOOLEAN"
	CodeInvalidUsername ErrorCode = "INVALID_USERNAME"
	CodeInvalidDate     ErrorCode = "INVALID_DATE"
	CodeInvalidText     ErrorCode = "INVALID_TEXT"
)

// Kind is the tagged field type driving per-kind checker dispatch.
type Kind int

const (
	KindText Kind = iota
	KindPhone
	KindEmail
	KindDate
	KindResidentNumber
	KindOption
	KindInteger
	KindCurrency
	KindBool
	KindAccountHandle
)

// Constraint declares the type and extra bounds for one field.
type Constraint struct {
	Kind    Kind
	MaxLen  int    // text and account-handle upper bound (0 = unbounded)
	MinLen  int    // account-handle lower bound
	Catalog string // option-catalog category for KindOption
}

type sectionRules struct {
	required []string
	fields   map[string]Constraint
}

// sections is the full per-section constraint table. Fields not declared for
// a section are ignored so richer client payloads stay forward compatible.
var sections = map[string]sectionRules{
	"basic": {
		required: requiredBasicFields,
		fields: map[string]Constraint{
			"name":               {Kind: KindText, MaxLen: 50},
			"english_name":       {Kind: KindText, MaxLen: 100},
			"resident_number":    {Kind: KindResidentNumber},
			"birth_date":         {Kind: KindDate},
			"gender":             {Kind: KindOption, Catalog: "gender"},
			"mobile_phone":       {Kind: KindPhone},
			"home_phone":         {Kind: KindPhone},
			"emergency_contact":  {Kind: KindPhone},
			"email":              {Kind: KindEmail},
			"registered_address": {Kind: KindText, MaxLen: 200},
			"actual_address":     {Kind: KindText, MaxLen: 200},
			"blood_type":         {Kind: KindOption, Catalog: "blood_type"},
			"marital_status":     {Kind: KindBool},
		},
	},
	"organization": {
		required: []string{"department", "position"},
		fields: map[string]Constraint{
			"department":        {Kind: KindOption, Catalog: "department"},
			"position":          {Kind: KindOption, Catalog: "position"},
			"job_title":         {Kind: KindText, MaxLen: 50},
			"employment_status": {Kind: KindOption, Catalog: "employment_status"},
			"employee_number":   {Kind: KindText, MaxLen: 20},
			"join_date":         {Kind: KindDate},
			"work_email":        {Kind: KindEmail},
			"work_phone":        {Kind: KindPhone},
			"messenger_id":      {Kind: KindAccountHandle, MinLen: 3, MaxLen: 32},
		},
	},
	"contract": {
		required: []string{"contract_type", "contract_start_date"},
		fields: map[string]Constraint{
			"contract_type":       {Kind: KindOption, Catalog: "contract_type"},
			"contract_start_date": {Kind: KindDate},
			"contract_end_date":   {Kind: KindDate},
			"base_salary":         {Kind: KindCurrency},
			"meal_allowance":      {Kind: KindCurrency},
		},
	},
	"education": {
		fields: map[string]Constraint{
			"school_name":     {Kind: KindText, MaxLen: 100},
			"major":           {Kind: KindText, MaxLen: 100},
			"education_level": {Kind: KindOption, Catalog: "education_level"},
			"graduation_date": {Kind: KindDate},
		},
	},
	"career": {
		fields: map[string]Constraint{
			"company_name":      {Kind: KindText, MaxLen: 100},
			"career_start_date": {Kind: KindDate},
			"career_end_date":   {Kind: KindDate},
			"final_position":    {Kind: KindText, MaxLen: 50},
		},
	},
	"family": {
		fields: map[string]Constraint{
			"relation":          {Kind: KindOption, Catalog: "family_relation"},
			"family_name":       {Kind: KindText, MaxLen: 50},
			"family_birth_date": {Kind: KindDate},
			"family_phone":      {Kind: KindPhone},
			"cohabiting":        {Kind: KindBool},
		},
	},
	"bank_account": {
		required: []string{"bank", "account_number", "account_holder"},
		fields: map[string]Constraint{
			"bank":           {Kind: KindOption, Catalog: "bank"},
			"account_number": {Kind: KindInteger},
			"account_holder": {Kind: KindText, MaxLen: 50},
		},
	},
	"military": {
		fields: map[string]Constraint{
			"military_service":   {Kind: KindOption, Catalog: "military_service"},
			"service_start_date": {Kind: KindDate},
			"service_end_date":   {Kind: KindDate},
			"rank":               {Kind: KindText, MaxLen: 30},
			"exemption_reason":   {Kind: KindText, MaxLen: 200},
		},
	},
}

var accountHandlePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// OptionCatalog supplies valid values for categorical fields. Implementations
// live outside this package (static seed, postgres, redis cache).
type OptionCatalog interface {
	// Values returns the ordered valid values for a category, or
	// sentinel.ErrNotFound when the category is unknown.
	Values(ctx context.Context, category string) ([]string, error)
	// Has reports whether the category exists.
	Has(ctx context.Context, category string) (bool, error)
}

// SectionValidator validates arbitrary named sections against the constraint
// table above.
type SectionValidator struct {
	catalog OptionCatalog
}

// NewSectionValidator constructs a validator backed by the given catalog.
func NewSectionValidator(catalog OptionCatalog) *SectionValidator {
	return &SectionValidator{catalog: catalog}
}

// ValidateSection checks every declared field present in data and, when
// strict, presence of the section's required fields. The returned map is
// empty on success; an unknown section yields a single error under the
// reserved SectionField key.
func (v *SectionValidator) ValidateSection(ctx context.Context, section string, data map[string]any, strict bool) map[string]string {
	errs := make(map[string]string)

	rules, ok := sections[section]
	if !ok {
		errs[SectionField] = fmt.Sprintf("unknown section %q", section)
		return errs
	}

	if strict {
		for _, field := range rules.required {
			if value, present := data[field]; !present || isEmpty(value) {
				errs[field] = fmt.Sprintf("%s is required", labelFor(field))
			}
		}
	}

	for field, value := range data {
		constraint, declared := rules.fields[field]
		if !declared {
			continue // unknown keys are forward compatible
		}
		if isEmpty(value) {
			continue // emptiness is only an error for required fields above
		}
		if msg := v.checkKind(ctx, constraint, field, value); msg != "" {
			errs[field] = msg
		}
	}

	return errs
}

// ValidateField runs the single-field check used by inline validation. An
// empty message means the value passed. The section defaults to "basic" when
// blank; a field not declared for the section passes.
func (v *SectionValidator) ValidateField(ctx context.Context, field string, value any, section string) string {
	if section == "" {
		section = "basic"
	}
	rules, ok := sections[section]
	if !ok {
		return fmt.Sprintf("unknown section %q", section)
	}
	constraint, declared := rules.fields[field]
	if !declared || isEmpty(value) {
		return ""
	}
	return v.checkKind(ctx, constraint, field, value)
}

// kindCheckers is the fixed dispatch table over field kinds.
var kindCheckers = map[Kind]func(*SectionValidator, context.Context, Constraint, string, string) string{
	KindText:           (*SectionValidator).checkText,
	KindPhone:          (*SectionValidator).checkPhone,
	KindEmail:          (*SectionValidator).checkEmail,
	KindDate:           (*SectionValidator).checkDate,
	KindResidentNumber: (*SectionValidator).checkResidentNumber,
	KindOption:         (*SectionValidator).checkOption,
	KindInteger:        (*SectionValidator).checkInteger,
	KindCurrency:       (*SectionValidator).checkCurrency,
	KindBool:           (*SectionValidator).checkBool,
	KindAccountHandle:  (*SectionValidator).checkAccountHandle,
}

func (v *SectionValidator) checkKind(ctx context.Context, c Constraint, field string, value any) string {
	checker, ok := kindCheckers[c.Kind]
	if !ok {
		return ""
	}
	return checker(v, ctx, c, labelFor(field), stringify(value))
}

func (v *SectionValidator) checkText(_ context.Context, c Constraint, label, value string) string {
	if c.MaxLen > 0 && len([]rune(value)) > c.MaxLen {
		return fmt.Sprintf("%s must be at most %d characters", label, c.MaxLen)
	}
	return ""
}

func (v *SectionValidator) checkPhone(_ context.Context, _ Constraint, label, value string) string {
	if !phonePattern.MatchString(value) {
		return fmt.Sprintf("%s is not a valid phone number", label)
	}
	return ""
}

func (v *SectionValidator) checkEmail(_ context.Context, _ Constraint, label, value string) string {
	if !emailPattern.MatchString(value) {
		return fmt.Sprintf("%s is not a valid email address", label)
	}
	return ""
}

func (v *SectionValidator) checkDate(_ context.Context, _ Constraint, label, value string) string {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", label)
	}
	return ""
}

// checkResidentNumber enforces the 13-digit shape only; full checksum
// validation belongs to the basic-info path via identity.Parse.
func (v *SectionValidator) checkResidentNumber(_ context.Context, _ Constraint, label, value string) string {
	if err := identity.ValidateFormat(value); err != nil {
		return fmt.Sprintf("%s must be 13 digits", label)
	}
	return ""
}

// checkOption verifies membership in the named catalog. An unknown catalog
// passes: catalog completeness is the registry's concern, not this engine's.
func (v *SectionValidator) checkOption(ctx context.Context, c Constraint, label, value string) string {
	if v.catalog == nil {
		return ""
	}
	values, err := v.catalog.Values(ctx, c.Catalog)
	if err != nil {
		return ""
	}
	for _, candidate := range values {
		if candidate == value {
			return ""
		}
	}
	return fmt.Sprintf("%s has an invalid value %q", label, value)
}

func (v *SectionValidator) checkInteger(_ context.Context, _ Constraint, label, value string) string {
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		return fmt.Sprintf("%s must be an integer", label)
	}
	return ""
}

func (v *SectionValidator) checkCurrency(_ context.Context, _ Constraint, label, value string) string {
	amount, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Sprintf("%s must be an integer amount", label)
	}
	if amount < 0 {
		return fmt.Sprintf("%s must not be negative", label)
	}
	return ""
}

func (v *SectionValidator) checkBool(_ context.Context, _ Constraint, label, value string) string {
	switch strings.ToLower(value) {
	case "true", "false", "1", "0":
		return ""
	}
	return fmt.Sprintf("%s must be a boolean value", label)
}

func (v *SectionValidator) checkAccountHandle(_ context.Context, c Constraint, label, value string) string {
	length := len([]rune(value))
	if c.MinLen > 0 && length < c.MinLen {
		return fmt.Sprintf("%s must be at least %d characters", label, c.MinLen)
	}
	if c.MaxLen > 0 && length > c.MaxLen {
		return fmt.Sprintf("%s must be at most %d characters", label, c.MaxLen)
	}
	if !accountHandlePattern.MatchString(value) {
		return fmt.Sprintf("%s may only contain letters, digits and underscores", label)
	}
	return ""
}

// isEmpty reports whether a submitted value counts as absent.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// stringify renders a submitted value for pattern checks. JSON numbers arrive
// as float64; integral ones format without a fraction.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
