package models

import "time"

// Sex distinguishes the two balance groups tracked per bracket.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Animal is a registered head of cattle in a property's herd.
// CurrentAgeGroup is a cached projection of BirthDate, refreshed by the
// migration engine; BirthDate is the source of truth.
type Animal struct {
	ID              string     `bson:"_id" json:"id"`
	BirthDate       time.Time  `bson:"birth_date" json:"birth_date"`
	Sex             Sex        `bson:"sex" json:"sex"`
	CurrentAgeGroup AgeGroupID `bson:"current_age_group" json:"current_age_group"`
	PropertyID      string     `bson:"property_id" json:"property_id"`
	MovementIDs     []string   `bson:"movement_ids,omitempty" json:"movement_ids,omitempty"`
}
