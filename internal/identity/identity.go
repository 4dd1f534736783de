// Package identity parses and validates Korean resident registration numbers
// (RRN). Every function is a pure computation over its input: no I/O, no
// shared mutable state, safe for concurrent use. The reference date used for
// age and future-date checks is injectable so callers and tests stay
// deterministic.
package identity

import (
	"fmt"
	"strings"
	"time"
)

// Gender is the decoded gender label carried on a parsed identity number.
type Gender string

const (
	GenderMale   Gender = "남"
	GenderFemale Gender = "여"
)

// FailureCode classifies why a number was rejected. Stages short-circuit in a
// fixed order so the code and message are stable for a given input.
type FailureCode string

const (
	FailFormat     FailureCode = "FORMAT"
	FailGenderCode FailureCode = "GENDER_CODE"
	FailDate       FailureCode = "DATE"
	FailChecksum   FailureCode = "CHECKSUM"
)

// Parsed is the outcome of decoding a resident registration number.
//
// Invariant: Valid == true iff BirthDate, Age and Gender are populated and
// ErrorMessage is empty. On failure all derived fields are zero.
type Parsed struct {
	Valid        bool        `json:"is_valid"`
	BirthDate    string      `json:"birth_date,omitempty"` // YYYY-MM-DD
	Age          int         `json:"age,omitempty"`
	Gender       Gender      `json:"gender,omitempty"`
	Foreign      bool        `json:"foreign,omitempty"`
	Code         FailureCode `json:"code,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

// checksumWeights are applied to digits 0-11; the weighted sum mod 11 yields
// the expected check digit at position 12.
var checksumWeights = [12]int{2, 3, 4, 5, 6, 7, 8, 9, 2, 3, 4, 5}

// centuryEntry decodes digit 6 of the number into century base, gender and
// foreign-resident status.
type centuryEntry struct {
	base    int
	gender  Gender
	foreign bool
}

// genderCodes maps the 7th digit to century and gender. Codes 9 and 0 decode
// to the 1800s; no numerically valid number uses them in practice but they
// remain decodable for compatibility with legacy records.
var genderCodes = map[byte]centuryEntry{
	'1': {1900, GenderMale, false},
	'2': {1900, GenderFemale, false},
	'3': {2000, GenderMale, false},
	'4': {2000, GenderFemale, false},
	'5': {1900, GenderMale, true},
	'6': {1900, GenderFemale, true},
	'7': {2000, GenderMale, true},
	'8': {2000, GenderFemale, true},
	'9': {1800, GenderMale, false},
	'0': {1800, GenderFemale, false},
}

// maxAgeYears bounds how far in the past an encoded birth date may lie.
const maxAgeYears = 150

// Normalize strips every non-digit character from raw.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateFormat checks the structural shape: exactly 13 decimal digits after
// normalization.
func ValidateFormat(raw string) error {
	if len(Normalize(raw)) != 13 {
		return fmt.Errorf("resident registration number must be 13 digits")
	}
	return nil
}

// ValidateGenderCode checks that digit 6 is a known century/gender code.
func ValidateGenderCode(raw string) error {
	digits := Normalize(raw)
	if len(digits) != 13 {
		return fmt.Errorf("resident registration number must be 13 digits")
	}
	if _, ok := genderCodes[digits[6]]; !ok {
		return fmt.Errorf("invalid gender code %q", string(digits[6]))
	}
	return nil
}

// ValidateDate checks that the encoded birth date exists on the calendar, is
// not in the future relative to ref, and does not imply an age over 150.
func ValidateDate(raw string, ref time.Time) error {
	digits := Normalize(raw)
	if len(digits) != 13 {
		return fmt.Errorf("resident registration number must be 13 digits")
	}
	entry, ok := genderCodes[digits[6]]
	if !ok {
		return fmt.Errorf("invalid gender code %q", string(digits[6]))
	}
	birth, err := composeBirthDate(digits, entry.base)
	if err != nil {
		return err
	}
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	if birth.After(refDay) {
		return fmt.Errorf("birth date %s is in the future", birth.Format("2006-01-02"))
	}
	if ageAt(birth, refDay) > maxAgeYears {
		return fmt.Errorf("birth date %s implies an age over %d years", birth.Format("2006-01-02"), maxAgeYears)
	}
	return nil
}

// ValidateChecksum verifies the weighted mod-11 check digit at position 12.
func ValidateChecksum(raw string) error {
	digits := Normalize(raw)
	if len(digits) != 13 {
		return fmt.Errorf("resident registration number must be 13 digits")
	}
	sum := 0
	for i, w := range checksumWeights {
		sum += int(digits[i]-'0') * w
	}
	want := (11 - sum%11) % 10
	if got := int(digits[12] - '0'); got != want {
		return fmt.Errorf("checksum mismatch: expected check digit %d, got %d", want, got)
	}
	return nil
}

// Parse decodes and validates raw against the current date.
func Parse(raw string) Parsed {
	return ParseAt(raw, time.Now())
}

// ParseAt decodes and validates raw against ref. Stages run in a fixed order
// (format, gender code, date, checksum) and the first failure wins, so the
// error message is deterministic for a given input.
func ParseAt(raw string, ref time.Time) Parsed {
	digits := Normalize(raw)
	if len(digits) != 13 {
		return invalid(FailFormat, "resident registration number must be 13 digits")
	}
	entry, ok := genderCodes[digits[6]]
	if !ok {
		return invalid(FailGenderCode, fmt.Sprintf("invalid gender code %q", string(digits[6])))
	}
	if err := ValidateDate(digits, ref); err != nil {
		return invalid(FailDate, err.Error())
	}
	if err := ValidateChecksum(digits); err != nil {
		return invalid(FailChecksum, err.Error())
	}

	birth, _ := composeBirthDate(digits, entry.base)
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return Parsed{
		Valid:     true,
		BirthDate: birth.Format("2006-01-02"),
		Age:       ageAt(birth, refDay),
		Gender:    entry.gender,
		Foreign:   entry.foreign,
	}
}

func invalid(code FailureCode, msg string) Parsed {
	return Parsed{Code: code, ErrorMessage: msg}
}

// composeBirthDate builds the full birth date from digits 0-5 and the century
// base, rejecting dates that do not exist on the calendar.
func composeBirthDate(digits string, base int) (time.Time, error) {
	year := base + int(digits[0]-'0')*10 + int(digits[1]-'0')
	month := int(digits[2]-'0')*10 + int(digits[3]-'0')
	day := int(digits[4]-'0')*10 + int(digits[5]-'0')

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. Feb 30 -> Mar 2); reject anything
	// that did not round-trip.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid birth date %04d-%02d-%02d", year, month, day)
	}
	return t, nil
}

// ageAt computes full years elapsed (age-last-birthday semantics).
func ageAt(birth, ref time.Time) int {
	age := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() ||
		(ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		age--
	}
	return age
}

// ExtractBirthDate returns the YYYY-MM-DD birth date, or "" when invalid.
func ExtractBirthDate(raw string) string {
	return Parse(raw).BirthDate
}

// ExtractGender returns the decoded gender label, or "" when invalid.
func ExtractGender(raw string) Gender {
	return Parse(raw).Gender
}

// CalculateAge returns age-last-birthday at ref for a valid number, or -1.
func CalculateAge(raw string, ref time.Time) int {
	p := ParseAt(raw, ref)
	if !p.Valid {
		return -1
	}
	return p.Age
}

// IsForeignResident reports whether the gender code marks a foreign resident
// (codes 5-8). Returns false for anything that is not 13 digits.
func IsForeignResident(raw string) bool {
	digits := Normalize(raw)
	if len(digits) != 13 {
		return false
	}
	entry, ok := genderCodes[digits[6]]
	return ok && entry.foreign
}

// Mask renders a number for display as DDDDDD-G****** so the serial and check
// digits are never revealed. Inputs that are not 13 digits are returned
// unchanged.
func Mask(raw string) string {
	digits := Normalize(raw)
	if len(digits) != 13 {
		return raw
	}
	return digits[:6] + "-" + string(digits[6]) + "******"
}

// FormatWithHyphen renders a 13-digit number as DDDDDD-DDDDDDD. Inputs that
// are not 13 digits are returned unchanged.
func FormatWithHyphen(raw string) string {
	digits := Normalize(raw)
	if len(digits) != 13 {
		return raw
	}
	return digits[:6] + "-" + digits[6:]
}
