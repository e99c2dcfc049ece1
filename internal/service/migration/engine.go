// Package migration detects and applies age-group drift: animals that aged
// into a new bracket since their bracket was last recorded.
package migration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mbacelar/rebanho/internal/domain/models"
	"github.com/mbacelar/rebanho/internal/observability"
	mongorepo "github.com/mbacelar/rebanho/internal/repository/mongodb"
	"github.com/mbacelar/rebanho/internal/service/agegroup"
	balancesvc "github.com/mbacelar/rebanho/internal/service/balance"
)

const birthDateLayout = "2006-01-02"

// Service runs the two detection modes and the once-per-day orchestration.
// The mutex serializes the stateful surfaces (animal recalculation and the
// run marker); everything else is pure.
type Service struct {
	repo     mongorepo.Repository
	balances *balancesvc.Service
	logger   *zap.Logger
	now      func() time.Time
	mu       sync.Mutex
}

// NewService wires a migration engine instance.
func NewService(repo mongorepo.Repository, balances *balancesvc.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		balances: balances,
		logger:   logger,
		now:      time.Now,
	}
}

// MigrateMovementsBetweenAgeGroups inspects birth movements and reports which
// ones sit in a bracket their birth date no longer resolves to. The input is
// never modified; applying the reported transfers is the caller's job.
// Movements whose birth date cannot be parsed are skipped and logged, never
// aborting the batch. A movement without a recorded bracket defaults to the
// first one, since births start there.
func (s *Service) MigrateMovementsBetweenAgeGroups(movements []models.MovementRecord) models.MigrationResult {
	now := s.now().UTC()
	result := models.MigrationResult{
		RunID:      uuid.NewString(),
		Details:    []models.MigrationDetail{},
		ExecutedAt: now,
	}

	for _, mv := range movements {
		if mv.Type != models.MovementBirth || mv.BirthDate == "" {
			continue
		}

		birth, err := parseBirthDate(mv.BirthDate)
		if err != nil {
			s.logger.Warn("skipping movement with unparseable birth date",
				zap.String("movement_id", mv.ID),
				zap.String("birth_date", mv.BirthDate),
				zap.Error(err))
			continue
		}

		months := agegroup.AgeInMonths(birth, now)
		current := agegroup.CalculateAgeGroup(months)

		previous := mv.AgeGroupID
		if previous == "" {
			previous = models.AgeGroup0To4
		}

		if current == previous {
			continue
		}

		result.Details = append(result.Details, models.MigrationDetail{
			MovementID:   mv.ID,
			FromAgeGroup: previous,
			ToAgeGroup:   current,
			AgeInMonths:  months,
			Quantity:     mv.Quantity,
		})
		result.MigratedCount++
	}

	return result
}

// RecalculateAgeGroups refreshes the stored bracket of every animal whose
// birth date resolves elsewhere, optionally filtered by property. Updates go
// through the repository one at a time under the engine's lock; a failed
// update is logged and the remaining animals still get processed.
func (s *Service) RecalculateAgeGroups(ctx context.Context, propertyID string) ([]models.AnimalAgeGroupUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	animals, err := s.repo.ListAnimals(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}

	now := s.now().UTC()
	updates := []models.AnimalAgeGroupUpdate{}
	var firstErr error

	for _, animal := range animals {
		target := agegroup.CalculateAgeGroup(agegroup.AgeInMonths(animal.BirthDate, now))
		if target == animal.CurrentAgeGroup {
			continue
		}

		if err := s.repo.UpdateAnimalAgeGroup(ctx, animal.ID, target); err != nil {
			s.logger.Error("failed to update animal age group",
				zap.String("animal_id", animal.ID),
				zap.String("to", string(target)),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		updates = append(updates, models.AnimalAgeGroupUpdate{
			AnimalID:  animal.ID,
			From:      animal.CurrentAgeGroup,
			To:        target,
			BirthDate: animal.BirthDate,
		})
	}

	return updates, firstErr
}

// ShouldRun reports whether a migration run is due. The check compares
// calendar dates, not a rolling 24h window: a run at 23:59 makes the next one
// due a minute later.
func ShouldRun(lastRun time.Time, hasRun bool, today time.Time) bool {
	if !hasRun {
		return true
	}
	ly, lm, ld := lastRun.Date()
	ty, tm, td := today.Date()
	return ly != ty || lm != tm || ld != td
}

// Initialize is the scheduled entry point: it runs movement detection at most
// once per calendar day, applies the detected transfers to the property's
// balances, persists the run and invokes the optional callback. The run
// marker is written even when nothing migrated, but never when detection
// fails, so the next invocation retries.
func (s *Service) Initialize(ctx context.Context, propertyID string, onResult func(models.MigrationResult)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now().UTC()

	lastRun, hasRun, err := s.repo.LastMigrationRun(ctx)
	if err != nil {
		return fmt.Errorf("load last migration run: %w", err)
	}

	if !ShouldRun(lastRun, hasRun, today) {
		s.logger.Debug("migration already ran today", zap.Time("last_run", lastRun))
		return nil
	}

	movements, result, err := s.detect(ctx, propertyID)
	if err != nil {
		s.logger.Error("migration detection failed", zap.Error(err))
		return err
	}

	if err := s.applyToBalances(ctx, propertyID, movements, result); err != nil {
		s.logger.Error("failed applying migrations to balances", zap.Error(err))
	}

	if err := s.repo.SaveMigrationResult(ctx, result); err != nil {
		s.logger.Error("failed persisting migration result", zap.Error(err))
	}

	if onResult != nil {
		go onResult(result)
	}

	if err := s.repo.MarkMigrationRun(ctx, today); err != nil {
		return fmt.Errorf("mark migration run: %w", err)
	}

	migratedHead := 0
	for _, d := range result.Details {
		migratedHead += d.Quantity
	}
	observability.RecordMigrationRun(migratedHead)

	s.logger.Info("migration run completed",
		zap.String("run_id", result.RunID),
		zap.Int("migrated_count", result.MigratedCount),
		zap.Int("migrated_head", migratedHead))

	return nil
}

func (s *Service) detect(ctx context.Context, propertyID string) (movements []models.MovementRecord, result models.MigrationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("migration detection panic: %v", r)
		}
	}()

	movements, err = s.repo.ListMovements(ctx, propertyID)
	if err != nil {
		return nil, models.MigrationResult{}, fmt.Errorf("list movements: %w", err)
	}

	return movements, s.MigrateMovementsBetweenAgeGroups(movements), nil
}

func (s *Service) applyToBalances(ctx context.Context, propertyID string, movements []models.MovementRecord, result models.MigrationResult) error {
	if result.MigratedCount == 0 {
		return nil
	}

	balances, err := s.repo.LoadBalances(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("load balances: %w", err)
	}
	if balances == nil {
		balances = models.BalanceSet{}
	}

	sexByMovement := make(map[string]models.Sex, len(movements))
	for _, mv := range movements {
		sexByMovement[mv.ID] = mv.Sex
	}

	for _, d := range result.Details {
		balances = s.balances.UpdateBalanceOnAgeGroupChange(balances, d.FromAgeGroup, d.ToAgeGroup, d.Quantity, sexByMovement[d.MovementID])
	}

	if err := s.repo.SaveBalances(ctx, propertyID, balances); err != nil {
		return fmt.Errorf("save balances: %w", err)
	}

	return nil
}

func parseBirthDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty birth date")
	}
	if len(value) > 10 {
		value = value[:10]
	}
	return time.Parse(birthDateLayout, value)
}
