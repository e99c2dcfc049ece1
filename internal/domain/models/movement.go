package models

import "time"

// MovementType enumerates the supported herd movement categories.
type MovementType string

const (
	MovementBirth      MovementType = "birth"
	MovementDeath      MovementType = "death"
	MovementSale       MovementType = "sale"
	MovementPurchase   MovementType = "purchase"
	MovementVaccine    MovementType = "vaccine"
	MovementAdjustment MovementType = "adjustment"
	MovementOther      MovementType = "other"
)

// MovementRecord is an immutable herd movement entry. The migration engine
// only ever reads these; creation and deletion happen in the host application.
//
// BirthDate is kept as the raw string entered at registration time (only
// meaningful for births); it may be unparseable, in which case the record is
// skipped during migration detection.
type MovementRecord struct {
	ID         string       `bson:"_id" json:"id"`
	Type       MovementType `bson:"type" json:"type"`
	Date       time.Time    `bson:"date" json:"date"`
	Quantity   int          `bson:"quantity" json:"quantity"`
	Sex        Sex          `bson:"sex,omitempty" json:"sex,omitempty"`
	AgeGroupID AgeGroupID   `bson:"age_group_id,omitempty" json:"age_group_id,omitempty"`
	BirthDate  string       `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	PropertyID string       `bson:"property_id" json:"property_id"`
}
