package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	cases := []struct {
		part, total int64
		want        int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{3, 4, 75},
		{1, 3, 33},
		{2, 3, 67},
		{4, 4, 100},
		{9, 4, 100},
		{-1, 4, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Percentage(tc.part, tc.total), "Percentage(%d, %d)", tc.part, tc.total)
	}
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-01-05", "2024-01-11")
	require.NoError(t, err)
	assert.True(t, r.From.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)), "from: %s", r.From)
	assert.True(t, r.To.Equal(time.Date(2024, 1, 11, 23, 59, 59, 999999999, time.UTC)), "date-only upper bound covers the whole day: %s", r.To)

	r, err = ParseDateRange("", "2024-01-11T10:00:00Z")
	require.NoError(t, err)
	assert.True(t, r.From.IsZero())
	assert.True(t, r.To.Equal(time.Date(2024, 1, 11, 10, 0, 0, 0, time.UTC)), "to: %s", r.To)

	_, err = ParseDateRange("last week", "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "date_from", vErr.Field)
}

func TestValidateRating(t *testing.T) {
	for _, v := range []interface{}{1, 3, 5, "4"} {
		_, err := ValidateRating(NewFlexNumber(v))
		assert.NoError(t, err, "rating %v", v)
	}
	for _, v := range []interface{}{0, 6, 3.5, "x", -1} {
		_, err := ValidateRating(NewFlexNumber(v))
		assert.ErrorIs(t, err, ErrValidation, "rating %v", v)
	}

	_, err := ValidateRating(FlexNumber{})
	require.Error(t, err)
	assert.Equal(t, "Missing required field: condition_rating", err.Error())
}

func TestStringValue(t *testing.T) {
	assert.Equal(t, "10", stringValue(float64(10)))
	assert.Equal(t, "10.25", stringValue(10.25))
	assert.Equal(t, "NR", stringValue(" NR "))
	assert.Equal(t, "true", stringValue(true))
	assert.Equal(t, "", stringValue(nil))
	assert.Equal(t, "", stringValue(map[string]interface{}{}))
}
