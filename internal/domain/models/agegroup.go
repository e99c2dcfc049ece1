package models

// AgeGroupID identifies one of the five fixed livestock age brackets.
type AgeGroupID string

const (
	AgeGroup0To4   AgeGroupID = "0-4"
	AgeGroup5To12  AgeGroupID = "5-12"
	AgeGroup12To24 AgeGroupID = "12-24" // spans months 13-24; the id is kept for compatibility with stored data
	AgeGroup24To36 AgeGroupID = "24-36"
	AgeGroup36Plus AgeGroupID = "36+"
)

// AgeGroup describes an inclusive month range used to bucket the herd.
// MaxMonths of -1 marks the open-ended last bracket.
type AgeGroup struct {
	ID        AgeGroupID
	Label     string
	MinMonths int
	MaxMonths int
}

// AgeGroups is the fixed, ordered bracket table. The ranges partition every
// non-negative month count with no gaps or overlaps.
var AgeGroups = []AgeGroup{
	{ID: AgeGroup0To4, Label: "0 a 4 meses", MinMonths: 0, MaxMonths: 4},
	{ID: AgeGroup5To12, Label: "5 a 12 meses", MinMonths: 5, MaxMonths: 12},
	{ID: AgeGroup12To24, Label: "13 a 24 meses", MinMonths: 13, MaxMonths: 24},
	{ID: AgeGroup24To36, Label: "25 a 36 meses", MinMonths: 25, MaxMonths: 36},
	{ID: AgeGroup36Plus, Label: "acima de 36 meses", MinMonths: 37, MaxMonths: -1},
}

// ValidAgeGroup reports whether the id belongs to the fixed bracket table.
func ValidAgeGroup(id AgeGroupID) bool {
	for _, g := range AgeGroups {
		if g.ID == id {
			return true
		}
	}
	return false
}
