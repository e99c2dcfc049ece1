package balance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbacelar/rebanho/internal/domain/models"
)

func TestTransferMovesHeadCountBetweenGroups(t *testing.T) {
	svc := NewService(nil)

	balances := models.BalanceSet{
		models.AgeGroup0To4: {
			PropertyID: "farm-1",
			AgeGroupID: models.AgeGroup0To4,
			Male:       models.BalanceGroup{PreviousBalance: 10, CurrentBalance: 10},
		},
	}

	updated := svc.UpdateBalanceOnAgeGroupChange(balances, models.AgeGroup0To4, models.AgeGroup5To12, 4, models.SexMale)

	source := updated[models.AgeGroup0To4].Male
	require.Equal(t, 6, source.CurrentBalance)
	require.Equal(t, 4, source.Exits)
	require.Equal(t, 0, source.Entries)
	require.Equal(t, 10, source.PreviousBalance, "previous balance is seeded elsewhere and must not move")

	dest := updated[models.AgeGroup5To12].Male
	require.Equal(t, 4, dest.CurrentBalance)
	require.Equal(t, 4, dest.Entries)
	require.Equal(t, 0, dest.Exits)
}

func TestTransferCreatesMissingGroups(t *testing.T) {
	svc := NewService(nil)

	updated := svc.UpdateBalanceOnAgeGroupChange(models.BalanceSet{}, models.AgeGroup12To24, models.AgeGroup24To36, 2, models.SexFemale)

	require.Contains(t, updated, models.AgeGroup12To24)
	require.Contains(t, updated, models.AgeGroup24To36)
	require.Equal(t, 2, updated[models.AgeGroup24To36].Female.CurrentBalance)
}

func TestTransferClampsUnderflowAtZero(t *testing.T) {
	svc := NewService(nil)

	balances := models.BalanceSet{
		models.AgeGroup0To4: {
			AgeGroupID: models.AgeGroup0To4,
			Female:     models.BalanceGroup{CurrentBalance: 3},
		},
	}

	updated := svc.UpdateBalanceOnAgeGroupChange(balances, models.AgeGroup0To4, models.AgeGroup5To12, 8, models.SexFemale)

	source := updated[models.AgeGroup0To4].Female
	require.Equal(t, 0, source.CurrentBalance, "deficit is clamped, never negative")
	require.Equal(t, 8, source.Exits, "exits still record the full transfer")
	require.Equal(t, 8, updated[models.AgeGroup5To12].Female.CurrentBalance)
}

func TestTransferDoesNotAliasInput(t *testing.T) {
	svc := NewService(nil)

	balances := models.BalanceSet{
		models.AgeGroup0To4: {
			AgeGroupID: models.AgeGroup0To4,
			Male:       models.BalanceGroup{CurrentBalance: 5},
		},
	}

	_ = svc.UpdateBalanceOnAgeGroupChange(balances, models.AgeGroup0To4, models.AgeGroup5To12, 5, models.SexMale)

	require.Equal(t, 5, balances[models.AgeGroup0To4].Male.CurrentBalance, "input set must stay untouched")
	require.NotContains(t, balances, models.AgeGroup5To12)
}

func TestTransferKeepsSexesIndependent(t *testing.T) {
	svc := NewService(nil)

	balances := models.BalanceSet{
		models.AgeGroup0To4: {
			AgeGroupID: models.AgeGroup0To4,
			Male:       models.BalanceGroup{CurrentBalance: 7},
			Female:     models.BalanceGroup{CurrentBalance: 9},
		},
	}

	updated := svc.UpdateBalanceOnAgeGroupChange(balances, models.AgeGroup0To4, models.AgeGroup5To12, 7, models.SexMale)

	require.Equal(t, 0, updated[models.AgeGroup0To4].Male.CurrentBalance)
	require.Equal(t, 9, updated[models.AgeGroup0To4].Female.CurrentBalance)
	require.Equal(t, 0, updated[models.AgeGroup5To12].Female.CurrentBalance)
}
