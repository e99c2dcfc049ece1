package models

// BalanceGroup tracks head-count accounting for one sex within a bracket.
// Invariant: CurrentBalance = PreviousBalance + Entries - Exits, with
// CurrentBalance clamped at zero.
type BalanceGroup struct {
	PreviousBalance int `bson:"previous_balance" json:"previous_balance"`
	Entries         int `bson:"entries" json:"entries"`
	Exits           int `bson:"exits" json:"exits"`
	CurrentBalance  int `bson:"current_balance" json:"current_balance"`
}

// CattleBalance is the per-bracket balance pair for one property.
type CattleBalance struct {
	PropertyID string       `bson:"property_id" json:"property_id"`
	AgeGroupID AgeGroupID   `bson:"age_group_id" json:"age_group_id"`
	Male       BalanceGroup `bson:"male" json:"male"`
	Female     BalanceGroup `bson:"female" json:"female"`
}

// BalanceSet holds a property's balances keyed by age group.
type BalanceSet map[AgeGroupID]CattleBalance

// Group returns the balance group for the given sex. Anything that is not
// female is counted as male, matching the registration default.
func (b CattleBalance) Group(sex Sex) BalanceGroup {
	if sex == SexFemale {
		return b.Female
	}
	return b.Male
}

// SetGroup stores the balance group for the given sex.
func (b *CattleBalance) SetGroup(sex Sex, g BalanceGroup) {
	if sex == SexFemale {
		b.Female = g
		return
	}
	b.Male = g
}
