package balance

import (
	"go.uber.org/zap"

	"github.com/mbacelar/rebanho/internal/domain/models"
	"github.com/mbacelar/rebanho/internal/observability"
)

// Service applies age-group transfers to cattle balances.
type Service struct {
	logger *zap.Logger
}

// NewService wires a new balance service instance.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// UpdateBalanceOnAgeGroupChange moves head-count between two age groups for
// one sex and returns a fresh balance set; the input set is never modified.
// Missing groups are created with all-zero balances. When the source group
// holds less than the transferred quantity the current balance clamps at zero
// instead of going negative; the discarded deficit is logged and counted so
// upstream bookkeeping errors stay observable. PreviousBalance fields are
// left untouched, they are seeded once per accounting period elsewhere.
func (s *Service) UpdateBalanceOnAgeGroupChange(balances models.BalanceSet, from, to models.AgeGroupID, quantity int, sex models.Sex) models.BalanceSet {
	updated := make(models.BalanceSet, len(balances)+2)
	for id, b := range balances {
		updated[id] = b
	}

	propertyID := ""
	for _, b := range balances {
		propertyID = b.PropertyID
		break
	}

	ensureGroup(updated, from, propertyID)
	ensureGroup(updated, to, propertyID)

	source := updated[from]
	group := source.Group(sex)
	remaining := group.CurrentBalance - quantity
	if remaining < 0 {
		s.logger.Warn("balance underflow clamped",
			zap.String("property_id", source.PropertyID),
			zap.String("age_group", string(from)),
			zap.String("sex", string(sex)),
			zap.Int("quantity", quantity),
			zap.Int("deficit", -remaining))
		observability.RecordBalanceClamp(string(from), string(sex), -remaining)
		remaining = 0
	}
	group.CurrentBalance = remaining
	group.Exits += quantity
	source.SetGroup(sex, group)
	updated[from] = source

	dest := updated[to]
	group = dest.Group(sex)
	group.CurrentBalance += quantity
	group.Entries += quantity
	dest.SetGroup(sex, group)
	updated[to] = dest

	return updated
}

func ensureGroup(balances models.BalanceSet, id models.AgeGroupID, propertyID string) {
	if _, ok := balances[id]; ok {
		return
	}
	balances[id] = models.CattleBalance{PropertyID: propertyID, AgeGroupID: id}
}
