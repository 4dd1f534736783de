package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed reference date keeps age and future-date assertions deterministic.
var refDate = time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

// Known-good numbers; check digits computed with the standard weight sequence.
const (
	validMale1990     = "9001011234568" // 1990-01-01, male
	validFemale2005   = "0503154123450" // 2005-03-15, female
	validForeign1990  = "9001015234569" // 1990-01-01, male, foreign resident
	validLegacy1800s  = "9912319000014" // 1899-12-31, male (legacy code 9)
	validFemale1800s0 = "9912310000010" // 1899-12-31, female (legacy code 0)
)

func checkDigit(prefix string) byte {
	weights := [12]int{2, 3, 4, 5, 6, 7, 8, 9, 2, 3, 4, 5}
	sum := 0
	for i := 0; i < 12; i++ {
		sum += int(prefix[i]-'0') * weights[i]
	}
	return byte((11-sum%11)%10) + '0'
}

func TestParseAt_ValidNumbers(t *testing.T) {
	t.Run("male born 1990", func(t *testing.T) {
		p := ParseAt(validMale1990, refDate)
		require.True(t, p.Valid, "error: %s", p.ErrorMessage)
		assert.Equal(t, "1990-01-01", p.BirthDate)
		assert.Equal(t, GenderMale, p.Gender)
		assert.Equal(t, 36, p.Age)
		assert.False(t, p.Foreign)
		assert.Empty(t, p.ErrorMessage)
	})

	t.Run("female born 2005", func(t *testing.T) {
		p := ParseAt(validFemale2005, refDate)
		require.True(t, p.Valid, "error: %s", p.ErrorMessage)
		assert.Equal(t, "2005-03-15", p.BirthDate)
		assert.Equal(t, GenderFemale, p.Gender)
		assert.Equal(t, 21, p.Age)
	})

	t.Run("foreign resident", func(t *testing.T) {
		p := ParseAt(validForeign1990, refDate)
		require.True(t, p.Valid, "error: %s", p.ErrorMessage)
		assert.True(t, p.Foreign)
		assert.Equal(t, "1990-01-01", p.BirthDate)
	})

	t.Run("legacy 1800s codes decode", func(t *testing.T) {
		p := ParseAt(validLegacy1800s, refDate)
		require.True(t, p.Valid, "error: %s", p.ErrorMessage)
		assert.Equal(t, "1899-12-31", p.BirthDate)
		assert.Equal(t, GenderMale, p.Gender)
		assert.Equal(t, 126, p.Age)

		f := ParseAt(validFemale1800s0, refDate)
		require.True(t, f.Valid, "error: %s", f.ErrorMessage)
		assert.Equal(t, GenderFemale, f.Gender)
	})

	t.Run("hyphenated input parses identically", func(t *testing.T) {
		plain := ParseAt(validMale1990, refDate)
		hyphen := ParseAt("900101-1234568", refDate)
		assert.Equal(t, plain, hyphen)
	})

	t.Run("parsing is idempotent", func(t *testing.T) {
		first := ParseAt(validMale1990, refDate)
		second := ParseAt(validMale1990, refDate)
		assert.Equal(t, first, second)
	})
}

func TestParseAt_FailureStages(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		p := ParseAt("900101123456", refDate)
		require.False(t, p.Valid)
		assert.Equal(t, FailFormat, p.Code)
		assert.Contains(t, p.ErrorMessage, "13 digits")
		assert.Empty(t, p.BirthDate)
		assert.Zero(t, p.Age)
		assert.Empty(t, p.Gender)
	})

	t.Run("non-digit garbage", func(t *testing.T) {
		p := ParseAt("abc!@#", refDate)
		require.False(t, p.Valid)
		assert.Equal(t, FailFormat, p.Code)
	})

	t.Run("impossible calendar date", func(t *testing.T) {
		// February 30th cannot exist in any year.
		prefix := "900230123456"
		p := ParseAt(prefix+string(checkDigit(prefix)), refDate)
		require.False(t, p.Valid)
		assert.Equal(t, FailDate, p.Code)
		assert.Contains(t, p.ErrorMessage, "invalid birth date")
	})

	t.Run("future birth date rejected before checksum", func(t *testing.T) {
		// 2030-12-31 with gender code 3; deliberately wrong check digit to
		// prove the date stage short-circuits first.
		p := ParseAt("3012313000000", refDate)
		require.False(t, p.Valid)
		assert.Equal(t, FailDate, p.Code)
		assert.Contains(t, p.ErrorMessage, "future")
	})

	t.Run("age over 150 rejected", func(t *testing.T) {
		// Code 9 decodes to the 1800s; 1801-01-01 is over 150 years before ref.
		prefix := "010101900000"
		p := ParseAt(prefix+string(checkDigit(prefix)), refDate)
		require.False(t, p.Valid)
		assert.Equal(t, FailDate, p.Code)
		assert.Contains(t, p.ErrorMessage, "150")
	})

	t.Run("bad checksum", func(t *testing.T) {
		// Increment the final digit of a valid number (mod 10).
		bad := validMale1990[:12] + string((validMale1990[12]-'0'+1)%10+'0')
		p := ParseAt(bad, refDate)
		require.False(t, p.Valid)
		assert.Equal(t, FailChecksum, p.Code)
		assert.Contains(t, p.ErrorMessage, "checksum")
	})
}

// TestChecksum_DetectsSingleDigitErrors verifies the documented property that
// altering any single digit among positions 0-11 changes the required check
// digit, so every single-digit transcription error is caught.
func TestChecksum_DetectsSingleDigitErrors(t *testing.T) {
	for _, valid := range []string{validMale1990, validFemale2005, validForeign1990} {
		for pos := 0; pos < 12; pos++ {
			for delta := byte(1); delta <= 9; delta++ {
				mutated := []byte(valid)
				mutated[pos] = (mutated[pos]-'0'+delta)%10 + '0'
				if checkDigit(string(mutated[:12])) == valid[12] {
					// Remainders 0 and 10 both map to check digit 1, so a
					// rare mutation can keep the same check digit. Skip those.
					continue
				}
				assert.Error(t, ValidateChecksum(string(mutated)),
					"mutation at %d (+%d) of %s should fail checksum", pos, delta, valid)
			}
		}
	}
}

func TestCalculateAge(t *testing.T) {
	newborn := "260830" + "3" + "12345"
	newborn += string(checkDigit(newborn))

	oneYear := "250830" + "3" + "12345"
	oneYear += string(checkDigit(oneYear))

	dayAfter := "250831" + "3" + "12345" // birthday tomorrow relative to ref
	dayAfter += string(checkDigit(dayAfter))

	assert.Equal(t, 0, CalculateAge(newborn, refDate), "born on the reference date")
	assert.Equal(t, 1, CalculateAge(oneYear, refDate), "born exactly one year earlier")
	assert.Equal(t, 0, CalculateAge(dayAfter, refDate), "birthday not yet reached this year")
	assert.Equal(t, -1, CalculateAge("garbage", refDate))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "900101-1******", Mask(validMale1990))
	assert.Equal(t, "900101-1******", Mask("900101-1234568"))
	assert.NotContains(t, Mask(validMale1990), validMale1990[7:])
	// Non-conforming input passes through untouched.
	assert.Equal(t, "short", Mask("short"))
}

func TestFormatWithHyphen(t *testing.T) {
	assert.Equal(t, "900101-1234568", FormatWithHyphen(validMale1990))
	assert.Equal(t, "900101-1234568", FormatWithHyphen("900101-1234568"))
	assert.Equal(t, "12345", FormatWithHyphen("12345"))
}

func TestIsForeignResident(t *testing.T) {
	assert.True(t, IsForeignResident(validForeign1990))
	assert.False(t, IsForeignResident(validMale1990))
	assert.False(t, IsForeignResident("junk"))
}

func TestSubChecks(t *testing.T) {
	assert.NoError(t, ValidateFormat(validMale1990))
	assert.Error(t, ValidateFormat("123"))
	assert.NoError(t, ValidateGenderCode(validMale1990))
	assert.NoError(t, ValidateDate(validMale1990, refDate))
	assert.Error(t, ValidateDate("3012313000000", refDate))
	assert.NoError(t, ValidateChecksum(validMale1990))
	assert.Equal(t, "1990-01-01", ExtractBirthDate(validMale1990))
	assert.Equal(t, GenderMale, ExtractGender(validMale1990))
}
