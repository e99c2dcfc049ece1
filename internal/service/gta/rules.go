package gta

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mbacelar/rebanho/internal/domain/models"
)

// rule pairs the static configuration with its compiled pattern.
type rule struct {
	models.TransportDocumentRule
	re *regexp.Regexp
}

// The per-state GTA configuration. One entry per supported state; the table
// is static and never mutated at runtime. Document numbers always carry the
// two-letter state prefix, so Length = 3 + digit count.
var rules = map[string]rule{
	"MS": newRule("MS", 7, true, true, 15),
	"MT": newRule("MT", 7, true, true, 15),
	"GO": newRule("GO", 8, true, true, 20),
	"SP": newRule("SP", 8, true, true, 10),
	"MG": newRule("MG", 8, true, true, 15),
	"RS": newRule("RS", 7, true, true, 20),
	"PR": newRule("PR", 7, true, true, 15),
	"SC": newRule("SC", 7, true, true, 15),
	"BA": newRule("BA", 8, true, true, 30),
	"TO": newRule("TO", 7, true, true, 20),
	"PA": newRule("PA", 8, true, true, 30),
	"RO": newRule("RO", 7, true, true, 30),
	"AC": newRule("AC", 7, true, true, 30),
}

func newRule(state string, digits int, onSale, onPurchase bool, expirationDays int) rule {
	pattern := "^" + state + `-\d{` + strconv.Itoa(digits) + `}$`
	example := state + "-" + "1234567890"[:digits]
	format := state + "-" + strings.Repeat("N", digits)
	return rule{
		TransportDocumentRule: models.TransportDocumentRule{
			State:              state,
			Length:             len(state) + 1 + digits,
			Pattern:            pattern,
			Format:             format,
			Example:            example,
			RequiredOnSale:     onSale,
			RequiredOnPurchase: onPurchase,
			ExpirationDays:     expirationDays,
		},
		re: regexp.MustCompile(pattern),
	}
}

// RuleFor exposes the static configuration for a state, if one exists.
func RuleFor(state string) (models.TransportDocumentRule, bool) {
	r, ok := rules[normalizeState(state)]
	if !ok {
		return models.TransportDocumentRule{}, false
	}
	return r.TransportDocumentRule, true
}

// SupportedStates lists every state with a configured rule.
func SupportedStates() []string {
	states := make([]string, 0, len(rules))
	for state := range rules {
		states = append(states, state)
	}
	return states
}

func normalizeState(state string) string {
	return strings.ToUpper(strings.TrimSpace(state))
}
