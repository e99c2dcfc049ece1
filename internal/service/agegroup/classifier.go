// Package agegroup classifies animals into the five fixed age brackets.
// All functions are pure and safe for concurrent use.
package agegroup

import (
	"time"

	"github.com/mbacelar/rebanho/internal/domain/models"
)

// AgeInMonths computes the whole-month age between a birth date and a
// reference instant using calendar arithmetic: (Δyear * 12) + Δmonth.
// Day-of-month is deliberately ignored, so a birth on the 31st counts a full
// month on the 1st of the following month. A birth date in the future yields
// a negative value; callers decide what to do with it.
func AgeInMonths(birthDate, now time.Time) int {
	return (now.Year()-birthDate.Year())*12 + int(now.Month()) - int(birthDate.Month())
}

// CalculateAgeGroup maps an age in months to its bracket id. The mapping is
// total: every month count, including negative ones, resolves to exactly one
// bracket. Values below the first bracket's minimum classify as the first
// bracket.
func CalculateAgeGroup(ageInMonths int) models.AgeGroupID {
	for _, g := range models.AgeGroups {
		if g.MaxMonths < 0 {
			return g.ID
		}
		if ageInMonths <= g.MaxMonths {
			return g.ID
		}
	}
	// Unreachable as long as the last bracket stays open-ended.
	return models.AgeGroup36Plus
}

// ShouldUpdateBracket reports whether the stored bracket has drifted from the
// bracket the birth date resolves to at the reference instant.
func ShouldUpdateBracket(current models.AgeGroupID, birthDate, now time.Time) bool {
	return CalculateAgeGroup(AgeInMonths(birthDate, now)) != current
}
