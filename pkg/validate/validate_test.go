package validate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/percursohq/percurso/pkg/validate"
)

func TestFreeText(t *testing.T) {
	fn := validate.FreeText(2)

	v, err := fn("  Maria Silva  ")
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", v)

	_, err = fn("a")
	assert.True(t, validate.IsRejection(err))

	_, err = fn("   ")
	assert.True(t, validate.IsRejection(err))
}

func TestFreeText_ZeroMinDefaultsToOne(t *testing.T) {
	fn := validate.FreeText(0)

	_, err := fn("x")
	assert.NoError(t, err)

	_, err = fn("")
	assert.True(t, validate.IsRejection(err))
}

func TestEmail(t *testing.T) {
	fn := validate.Email()

	v, err := fn("  Maria@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", v)

	for _, bad := range []string{"", "maria", "maria@example", "maria example@x.co", "@example.com"} {
		_, err := fn(bad)
		assert.True(t, validate.IsRejection(err), "expected rejection for %q", bad)
	}
}

func TestYear(t *testing.T) {
	clock := func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	fn := validate.Year(clock)

	v, err := fn("1995")
	require.NoError(t, err)
	assert.Equal(t, 1995, v)

	// Next model year is allowed.
	_, err = fn("2026")
	assert.NoError(t, err)

	for _, bad := range []string{"1989", "2027", "abc", ""} {
		_, err := fn(bad)
		assert.True(t, validate.IsRejection(err), "expected rejection for %q", bad)
	}
}

func TestAge(t *testing.T) {
	fn := validate.Age(18, 80)

	v, err := fn(" 35 ")
	require.NoError(t, err)
	assert.Equal(t, 35, v)

	for _, bad := range []string{"17", "81", "-1", "many"} {
		_, err := fn(bad)
		assert.True(t, validate.IsRejection(err), "expected rejection for %q", bad)
	}
}

func TestAge_DefaultBounds(t *testing.T) {
	fn := validate.Age(0, 0)

	_, err := fn("119")
	assert.NoError(t, err)

	_, err = fn("121")
	assert.True(t, validate.IsRejection(err))
}

func TestDocument(t *testing.T) {
	fn := validate.Document()

	// Punctuation is normalization, not content.
	v, err := fn("529.982.247-25")
	require.NoError(t, err)
	assert.Equal(t, "52998224725", v)

	v, err = fn("11144477735")
	require.NoError(t, err)
	assert.Equal(t, "11144477735", v)

	for _, bad := range []string{
		"",
		"123",
		"111111111111", // 12 digits
		"11111111111",  // repeated digit passes the arithmetic but is a known invalid issue
		"52998224724",  // wrong second check digit
		"52998224715",  // wrong first check digit
	} {
		_, err := fn(bad)
		assert.True(t, validate.IsRejection(err), "expected rejection for %q", bad)
	}
}

func TestCityRegion(t *testing.T) {
	fn := validate.CityRegion()

	v, err := fn(" Recife , PE ")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"city": "Recife", "region": "PE"}, v)

	for _, bad := range []string{"", "Recife", "Recife,", ", PE", ","} {
		_, err := fn(bad)
		assert.True(t, validate.IsRejection(err), "expected rejection for %q", bad)
	}
}

func TestIsRejection(t *testing.T) {
	assert.True(t, validate.IsRejection(validate.Reject("nope")))
	assert.False(t, validate.IsRejection(errors.New("boom")))
	assert.False(t, validate.IsRejection(nil))
}
