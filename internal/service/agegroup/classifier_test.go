package agegroup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mbacelar/rebanho/internal/domain/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeInMonthsIgnoresDayOfMonth(t *testing.T) {
	// A birth on the 31st counts one full month on the 1st of the next month.
	require.Equal(t, 1, AgeInMonths(date(2024, time.January, 31), date(2024, time.February, 1)))
	require.Equal(t, 0, AgeInMonths(date(2024, time.January, 1), date(2024, time.January, 31)))
	require.Equal(t, 12, AgeInMonths(date(2023, time.March, 15), date(2024, time.March, 2)))
}

func TestAgeInMonthsFutureBirthDateGoesNegative(t *testing.T) {
	require.Equal(t, -2, AgeInMonths(date(2024, time.June, 10), date(2024, time.April, 20)))
}

func TestCalculateAgeGroupBoundaries(t *testing.T) {
	cases := []struct {
		months int
		want   models.AgeGroupID
	}{
		{0, models.AgeGroup0To4},
		{4, models.AgeGroup0To4},
		{5, models.AgeGroup5To12},
		{12, models.AgeGroup5To12},
		{13, models.AgeGroup12To24},
		{24, models.AgeGroup12To24},
		{25, models.AgeGroup24To36},
		{36, models.AgeGroup24To36},
		{37, models.AgeGroup36Plus},
		{120, models.AgeGroup36Plus},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, CalculateAgeGroup(tc.months), "months=%d", tc.months)
	}
}

func TestCalculateAgeGroupIsTotal(t *testing.T) {
	for m := 0; m <= 600; m++ {
		got := CalculateAgeGroup(m)
		require.True(t, models.ValidAgeGroup(got), "months=%d resolved to %q", m, got)
	}
}

func TestCalculateAgeGroupNegativeMonths(t *testing.T) {
	// Future birth dates are not rejected; anything below the first bracket
	// classifies as the first bracket.
	require.Equal(t, models.AgeGroup0To4, CalculateAgeGroup(-1))
	require.Equal(t, models.AgeGroup0To4, CalculateAgeGroup(-48))
}

func TestShouldUpdateBracket(t *testing.T) {
	now := date(2024, time.July, 15)
	sixMonthsOld := date(2024, time.January, 10)

	require.True(t, ShouldUpdateBracket(models.AgeGroup0To4, sixMonthsOld, now))
	require.False(t, ShouldUpdateBracket(models.AgeGroup5To12, sixMonthsOld, now))
}
