package models

import "time"

// MigrationDetail records a single detected bracket drift: the movement it
// came from, where the head-count sits today and where it belongs.
type MigrationDetail struct {
	MovementID   string     `bson:"movement_id" json:"movement_id"`
	FromAgeGroup AgeGroupID `bson:"from_age_group" json:"from_age_group"`
	ToAgeGroup   AgeGroupID `bson:"to_age_group" json:"to_age_group"`
	AgeInMonths  int        `bson:"age_in_months" json:"age_in_months"`
	Quantity     int        `bson:"quantity" json:"quantity"`
}

// MigrationResult is the outcome of one detection run. It is transient from
// the engine's point of view; the run history collection keeps a copy.
type MigrationResult struct {
	RunID         string            `bson:"run_id" json:"run_id"`
	MigratedCount int               `bson:"migrated_count" json:"migrated_count"`
	Details       []MigrationDetail `bson:"details" json:"details"`
	ExecutedAt    time.Time         `bson:"executed_at" json:"executed_at"`
}

// AnimalAgeGroupUpdate describes one animal whose stored bracket was
// refreshed by the per-animal recalculation.
type AnimalAgeGroupUpdate struct {
	AnimalID  string     `bson:"animal_id" json:"animal_id"`
	From      AgeGroupID `bson:"from" json:"from"`
	To        AgeGroupID `bson:"to" json:"to"`
	BirthDate time.Time  `bson:"birth_date" json:"birth_date"`
}
