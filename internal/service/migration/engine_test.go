package migration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mbacelar/rebanho/internal/domain/models"
	balancesvc "github.com/mbacelar/rebanho/internal/service/balance"
)

type stubRepo struct {
	movements        []models.MovementRecord
	listMovementsErr error

	animals       []models.Animal
	updateErrs    map[string]error
	updatedGroups map[string]models.AgeGroupID

	lastRun time.Time
	hasRun  bool

	marked        []time.Time
	savedResults  []models.MigrationResult
	balances      models.BalanceSet
	savedBalances models.BalanceSet
}

func (r *stubRepo) ListMovements(ctx context.Context, propertyID string) ([]models.MovementRecord, error) {
	if r.listMovementsErr != nil {
		return nil, r.listMovementsErr
	}
	return r.movements, nil
}

func (r *stubRepo) ListAnimals(ctx context.Context, propertyID string) ([]models.Animal, error) {
	return r.animals, nil
}

func (r *stubRepo) UpdateAnimalAgeGroup(ctx context.Context, animalID string, group models.AgeGroupID) error {
	if err := r.updateErrs[animalID]; err != nil {
		return err
	}
	if r.updatedGroups == nil {
		r.updatedGroups = map[string]models.AgeGroupID{}
	}
	r.updatedGroups[animalID] = group
	return nil
}

func (r *stubRepo) LoadBalances(ctx context.Context, propertyID string) (models.BalanceSet, error) {
	return r.balances, nil
}

func (r *stubRepo) SaveBalances(ctx context.Context, propertyID string, balances models.BalanceSet) error {
	r.savedBalances = balances
	return nil
}

func (r *stubRepo) LastMigrationRun(ctx context.Context) (time.Time, bool, error) {
	return r.lastRun, r.hasRun, nil
}

func (r *stubRepo) MarkMigrationRun(ctx context.Context, runDate time.Time) error {
	r.marked = append(r.marked, runDate)
	r.lastRun = runDate
	r.hasRun = true
	return nil
}

func (r *stubRepo) SaveMigrationResult(ctx context.Context, result models.MigrationResult) error {
	r.savedResults = append(r.savedResults, result)
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(repo *stubRepo, now time.Time) *Service {
	svc := NewService(repo, balancesvc.NewService(nil), nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestMovementDetectionReportsBracketDrift(t *testing.T) {
	now := date(2024, time.July, 15)
	svc := newTestService(&stubRepo{}, now)

	movement := models.MovementRecord{
		ID:        "mov-1",
		Type:      models.MovementBirth,
		Quantity:  3,
		BirthDate: "2024-01-10", // six months old, still recorded in the default bracket
	}

	result := svc.MigrateMovementsBetweenAgeGroups([]models.MovementRecord{movement})

	require.Equal(t, 1, result.MigratedCount)
	require.Len(t, result.Details, 1)
	require.Equal(t, models.MigrationDetail{
		MovementID:   "mov-1",
		FromAgeGroup: models.AgeGroup0To4,
		ToAgeGroup:   models.AgeGroup5To12,
		AgeInMonths:  6,
		Quantity:     3,
	}, result.Details[0])
	require.Equal(t, now, result.ExecutedAt)
	require.NotEmpty(t, result.RunID)
}

func TestMovementDetectionSkipsUnparseableBirthDates(t *testing.T) {
	now := date(2024, time.July, 15)
	svc := newTestService(&stubRepo{}, now)

	movements := []models.MovementRecord{
		{ID: "bad", Type: models.MovementBirth, Quantity: 1, BirthDate: "not-a-date"},
		{ID: "good", Type: models.MovementBirth, Quantity: 2, BirthDate: "2023-05-01"},
	}

	result := svc.MigrateMovementsBetweenAgeGroups(movements)

	require.Equal(t, 1, result.MigratedCount, "bad record is skipped, batch continues")
	require.Equal(t, "good", result.Details[0].MovementID)
}

func TestMovementDetectionFiltersNonBirths(t *testing.T) {
	now := date(2024, time.July, 15)
	svc := newTestService(&stubRepo{}, now)

	movements := []models.MovementRecord{
		{ID: "sale", Type: models.MovementSale, Quantity: 5, BirthDate: "2023-01-01"},
		{ID: "no-date", Type: models.MovementBirth, Quantity: 5},
		{ID: "settled", Type: models.MovementBirth, Quantity: 5, BirthDate: "2024-06-01", AgeGroupID: models.AgeGroup0To4},
	}

	result := svc.MigrateMovementsBetweenAgeGroups(movements)

	require.Zero(t, result.MigratedCount)
	require.Empty(t, result.Details)
}

func TestRecalculateAgeGroupsUpdatesThroughRepository(t *testing.T) {
	now := date(2024, time.July, 15)
	repo := &stubRepo{
		animals: []models.Animal{
			{ID: "a1", BirthDate: date(2024, time.January, 10), CurrentAgeGroup: models.AgeGroup0To4},
			{ID: "a2", BirthDate: date(2024, time.June, 1), CurrentAgeGroup: models.AgeGroup0To4},
		},
	}
	svc := newTestService(repo, now)

	updates, err := svc.RecalculateAgeGroups(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, updates, 1)
	require.Equal(t, models.AnimalAgeGroupUpdate{
		AnimalID:  "a1",
		From:      models.AgeGroup0To4,
		To:        models.AgeGroup5To12,
		BirthDate: date(2024, time.January, 10),
	}, updates[0])
	require.Equal(t, models.AgeGroup5To12, repo.updatedGroups["a1"])
	require.NotContains(t, repo.updatedGroups, "a2")
}

func TestRecalculateAgeGroupsContinuesPastUpdateFailures(t *testing.T) {
	now := date(2024, time.July, 15)
	repo := &stubRepo{
		animals: []models.Animal{
			{ID: "a1", BirthDate: date(2022, time.January, 1), CurrentAgeGroup: models.AgeGroup0To4},
			{ID: "a2", BirthDate: date(2024, time.January, 10), CurrentAgeGroup: models.AgeGroup0To4},
		},
		updateErrs: map[string]error{"a1": errors.New("write failed")},
	}
	svc := newTestService(repo, now)

	updates, err := svc.RecalculateAgeGroups(context.Background(), "")
	require.Error(t, err)
	require.Len(t, updates, 1, "remaining animals still processed")
	require.Equal(t, "a2", updates[0].AnimalID)
}

func TestShouldRunComparesCalendarDates(t *testing.T) {
	today := date(2024, time.July, 15)

	require.True(t, ShouldRun(time.Time{}, false, today), "no marker means due")
	require.False(t, ShouldRun(date(2024, time.July, 15), true, today))
	require.True(t, ShouldRun(date(2024, time.July, 14), true, today))

	// Calendar-day check, not a rolling 24h window.
	lateYesterday := time.Date(2024, time.July, 14, 23, 59, 0, 0, time.UTC)
	earlyToday := time.Date(2024, time.July, 15, 0, 1, 0, 0, time.UTC)
	require.True(t, ShouldRun(lateYesterday, true, earlyToday))
}

func TestInitializeMarksRunEvenWithoutMigrations(t *testing.T) {
	now := date(2024, time.July, 15)
	repo := &stubRepo{}
	svc := newTestService(repo, now)

	require.NoError(t, svc.Initialize(context.Background(), "", nil))
	require.Len(t, repo.marked, 1)
	require.Len(t, repo.savedResults, 1)
	require.Zero(t, repo.savedResults[0].MigratedCount)

	// Second invocation on the same day is a no-op.
	require.NoError(t, svc.Initialize(context.Background(), "", nil))
	require.Len(t, repo.marked, 1)
	require.Len(t, repo.savedResults, 1)
}

func TestInitializeDoesNotMarkWhenDetectionFails(t *testing.T) {
	now := date(2024, time.July, 15)
	repo := &stubRepo{listMovementsErr: errors.New("mongo down")}
	svc := newTestService(repo, now)

	err := svc.Initialize(context.Background(), "", nil)
	require.Error(t, err)
	require.Empty(t, repo.marked, "marker untouched so the next invocation retries")
	require.Empty(t, repo.savedResults)
}

func TestInitializeAppliesBalancesAndInvokesCallback(t *testing.T) {
	now := date(2024, time.July, 15)
	repo := &stubRepo{
		movements: []models.MovementRecord{
			{ID: "mov-1", Type: models.MovementBirth, Quantity: 2, Sex: models.SexFemale, BirthDate: "2024-01-10"},
		},
		balances: models.BalanceSet{
			models.AgeGroup0To4: {
				PropertyID: "farm-1",
				AgeGroupID: models.AgeGroup0To4,
				Female:     models.BalanceGroup{CurrentBalance: 5},
			},
		},
	}
	svc := newTestService(repo, now)

	received := make(chan models.MigrationResult, 1)
	err := svc.Initialize(context.Background(), "farm-1", func(result models.MigrationResult) {
		received <- result
	})
	require.NoError(t, err)

	require.NotNil(t, repo.savedBalances)
	require.Equal(t, 3, repo.savedBalances[models.AgeGroup0To4].Female.CurrentBalance)
	require.Equal(t, 2, repo.savedBalances[models.AgeGroup5To12].Female.CurrentBalance)
	require.Equal(t, 2, repo.savedBalances[models.AgeGroup5To12].Female.Entries)

	select {
	case result := <-received:
		require.Equal(t, 1, result.MigratedCount)
	case <-time.After(time.Second):
		t.Fatal("callback was not invoked")
	}

	require.Len(t, repo.marked, 1)
}
