package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel/internal/identity"
)

var refDate = time.Date(2026, time.August, 30, 9, 0, 0, 0, time.UTC)

// Check digits computed with the standard weight sequence.
const (
	validRRN    = "9001011234568" // 1990-01-01, male
	badChecksum = "9001011234569"
)

func newValidator() *ProfileValidator {
	return NewProfileValidator(WithClock(func() time.Time { return refDate }))
}

func completeBasicInfo() map[string]string {
	return map[string]string{
		"name":               "홍길동",
		"english_name":       "Hong Gildong",
		"resident_number":    validRRN,
		"mobile_phone":       "010-1234-5678",
		"email":              "hong@example.com",
		"registered_address": "서울특별시 중구 세종대로 110",
		"actual_address":     "서울특별시 중구 세종대로 110",
	}
}

func errorCodes(r *Result) map[string]ErrorCode {
	codes := make(map[string]ErrorCode, len(r.Errors))
	for _, e := range r.Errors {
		codes[e.Field] = e.Code
	}
	return codes
}

func TestValidateBasicInfo_Success(t *testing.T) {
	result := newValidator().ValidateBasicInfo(completeBasicInfo(), true)

	require.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Identity)
	assert.Equal(t, "1990-01-01", result.Identity.BirthDate)
	assert.Equal(t, identity.GenderMale, result.Identity.Gender)
	assert.Equal(t, 36, result.Identity.Age)
}

func TestValidateBasicInfo_StrictRequiresAllFields(t *testing.T) {
	result := newValidator().ValidateBasicInfo(map[string]string{}, true)

	require.False(t, result.Valid)
	assert.Nil(t, result.Identity)
	assert.Len(t, result.Errors, len(requiredBasicFields))
	for _, e := range result.Errors {
		assert.Equal(t, CodeRequired, e.Code)
	}
	// Errors come back in the declared field order.
	assert.Equal(t, "name", result.Errors[0].Field)
	assert.Equal(t, "actual_address", result.Errors[len(result.Errors)-1].Field)
}

func TestValidateBasicInfo_NonStrictSkipsPresence(t *testing.T) {
	result := newValidator().ValidateBasicInfo(map[string]string{}, false)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateBasicInfo_InvalidRRN(t *testing.T) {
	data := completeBasicInfo()
	data["resident_number"] = badChecksum

	result := newValidator().ValidateBasicInfo(data, true)

	require.False(t, result.Valid)
	assert.Nil(t, result.Identity)
	codes := errorCodes(result)
	assert.Equal(t, CodeInvalidRRN, codes["resident_number"])
}

func TestValidateBasicInfo_PhoneAndEmail(t *testing.T) {
	t.Run("accepts loose phone shapes", func(t *testing.T) {
		for _, phone := range []string{"010-1234-5678", "01012345678", "02-123-4567", "1234-5678"} {
			data := completeBasicInfo()
			data["mobile_phone"] = phone
			result := newValidator().ValidateBasicInfo(data, false)
			assert.True(t, result.Valid, "phone %q should pass: %v", phone, result.Errors)
		}
	})

	t.Run("rejects malformed phones independently", func(t *testing.T) {
		data := completeBasicInfo()
		data["mobile_phone"] = "not-a-phone"
		data["home_phone"] = "12"
		data["emergency_contact"] = "010-1234-5678"

		result := newValidator().ValidateBasicInfo(data, false)

		require.False(t, result.Valid)
		codes := errorCodes(result)
		assert.Equal(t, CodeInvalidPhone, codes["mobile_phone"])
		assert.Equal(t, CodeInvalidPhone, codes["home_phone"])
		assert.NotContains(t, codes, "emergency_contact")
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		data := completeBasicInfo()
		data["email"] = "not-an-email"

		result := newValidator().ValidateBasicInfo(data, false)

		require.False(t, result.Valid)
		assert.Equal(t, CodeInvalidEmail, errorCodes(result)["email"])
	})
}

func TestValidateBasicInfo_Consistency(t *testing.T) {
	t.Run("conflicting birth date", func(t *testing.T) {
		data := completeBasicInfo()
		data["birth_date"] = "1991-01-01"

		result := newValidator().ValidateBasicInfo(data, false)

		require.False(t, result.Valid)
		require.NotNil(t, result.Identity, "identity should still be retained")
		codes := errorCodes(result)
		assert.Equal(t, CodeInconsistent, codes["birth_date"])
		// The parser-derived value is named as authoritative.
		for _, e := range result.Errors {
			if e.Field == "birth_date" {
				assert.Contains(t, e.Message, "1990-01-01")
			}
		}
	})

	t.Run("conflicting gender", func(t *testing.T) {
		data := completeBasicInfo()
		data["gender"] = string(identity.GenderFemale)

		result := newValidator().ValidateBasicInfo(data, false)

		require.False(t, result.Valid)
		assert.Equal(t, CodeInconsistent, errorCodes(result)["gender"])
	})

	t.Run("exact-match only, no normalization", func(t *testing.T) {
		data := completeBasicInfo()
		data["birth_date"] = "1990-1-1" // same date, different format

		result := newValidator().ValidateBasicInfo(data, false)
		assert.False(t, result.Valid)
	})

	t.Run("never runs when the resident number fails to parse", func(t *testing.T) {
		data := completeBasicInfo()
		data["resident_number"] = badChecksum
		data["birth_date"] = "1991-01-01"

		result := newValidator().ValidateBasicInfo(data, false)

		codes := errorCodes(result)
		assert.Equal(t, CodeInvalidRRN, codes["resident_number"])
		assert.NotContains(t, codes, "birth_date")
	})

	t.Run("matching values pass", func(t *testing.T) {
		data := completeBasicInfo()
		data["birth_date"] = "1990-01-01"
		data["gender"] = string(identity.GenderMale)

		result := newValidator().ValidateBasicInfo(data, false)
		assert.True(t, result.Valid, "errors: %v", result.Errors)
	})
}

func TestValidateBasicInfo_AccumulatesAcrossCategories(t *testing.T) {
	data := map[string]string{
		"name":            "홍길동",
		"resident_number": badChecksum,
		"mobile_phone":    "bogus",
		"email":           "bogus",
	}

	result := newValidator().ValidateBasicInfo(data, true)

	require.False(t, result.Valid)
	codes := errorCodes(result)
	assert.Equal(t, CodeRequired, codes["english_name"])
	assert.Equal(t, CodeInvalidRRN, codes["resident_number"])
	assert.Equal(t, CodeInvalidPhone, codes["mobile_phone"])
	assert.Equal(t, CodeInvalidEmail, codes["email"])
}

func TestExtractAutoFields(t *testing.T) {
	fields := ExtractAutoFieldsAt(validRRN, refDate)
	require.NotNil(t, fields)
	assert.Equal(t, "1990-01-01", fields.BirthDate)
	assert.Equal(t, 36, fields.Age)
	assert.Equal(t, identity.GenderMale, fields.Gender)

	assert.Nil(t, ExtractAutoFieldsAt(badChecksum, refDate))
	assert.Nil(t, ExtractAutoFieldsAt("", refDate))
}
