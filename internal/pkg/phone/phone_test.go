package phone

import (
	"errors"
	"testing"

	"github.com/dating-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_HappyPath(t *testing.T) {
	got, err := Normalize("660 123-4567", "AT")
	require.NoError(t, err)
	assert.Equal(t, "+436601234567", got)
}

func TestNormalize_AllCountries(t *testing.T) {
	cases := map[string]string{
		"DE": "+49",
		"AT": "+43",
		"CH": "+41",
	}
	for country, prefix := range cases {
		got, err := Normalize("6601234567", country)
		require.NoError(t, err, country)
		assert.Equal(t, prefix+"6601234567", got)
	}
}

func TestNormalize_UnsupportedCountry(t *testing.T) {
	_, err := Normalize("6601234567", "US")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestNormalize_TooShort(t *testing.T) {
	_, err := Normalize("12345", "AT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestNormalize_TooLong(t *testing.T) {
	_, err := Normalize("1234567890123456", "AT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestNormalize_NonDigits(t *testing.T) {
	_, err := Normalize("66o1234567", "AT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

// Re-feeding the canonical output through Normalize must yield the same
// canonical output.
func TestNormalize_IdempotentOnCanonicalForm(t *testing.T) {
	first, err := Normalize("660 1234567", "AT")
	require.NoError(t, err)

	second, err := Normalize(first, "AT")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCountries_ClosedSet(t *testing.T) {
	countries := Countries()
	require.Len(t, countries, 3)
	codes := make([]string, 0, len(countries))
	for _, c := range countries {
		codes = append(codes, c.Code)
	}
	assert.ElementsMatch(t, []string{"DE", "AT", "CH"}, codes)
}
