// Package gta validates Guia de Trânsito Animal documents against the static
// per-state rule table. Every function is pure; validation failures come back
// as structured results with user-facing Portuguese messages, never as errors.
package gta

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mbacelar/rebanho/internal/domain/models"
)

// ValidationResult carries the outcome of a document validation. Message is
// empty when the document is valid.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ParseResult is the outcome of extracting a state prefix from a raw number.
type ParseResult struct {
	State   string `json:"state,omitempty"`
	Number  string `json:"number"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

var statePrefixRe = regexp.MustCompile(`^([A-Z]{2})-`)

// Validate checks a GTA number against its state's rule. The input is trimmed
// and upper-cased before any check. Length is gated before the pattern so the
// user gets the most specific message available.
func Validate(number, state string) ValidationResult {
	st := normalizeState(state)
	r, ok := rules[st]
	if !ok {
		return ValidationResult{Valid: false, Message: fmt.Sprintf("nenhuma regra de GTA configurada para o estado %s", st)}
	}

	normalized := normalizeNumber(number)
	if len(normalized) != r.Length {
		return ValidationResult{Valid: false, Message: fmt.Sprintf("GTA de %s deve ter %d caracteres", st, r.Length)}
	}

	if !r.re.MatchString(normalized) {
		return ValidationResult{Valid: false, Message: fmt.Sprintf("formato de GTA inválido para %s. Formato esperado: %s (exemplo: %s)", st, r.Format, r.Example)}
	}

	return ValidationResult{Valid: true}
}

// Format normalizes a GTA number to carry the target state's prefix. A number
// already prefixed with the state comes back unchanged; any other two-letter
// prefix is stripped and replaced.
func Format(number, state string) string {
	st := normalizeState(state)
	normalized := normalizeNumber(number)

	if len(normalized) >= len(st)+1 && normalized[:len(st)+1] == st+"-" {
		return normalized
	}

	stripped := statePrefixRe.ReplaceAllString(normalized, "")
	return st + "-" + stripped
}

// IsRequired reports whether a GTA must accompany the given movement type in
// the given state. Only sales and purchases ever require one; the two flags
// are independent per state.
func IsRequired(movementType models.MovementType, state string) bool {
	r, ok := rules[normalizeState(state)]
	if !ok {
		return false
	}

	switch movementType {
	case models.MovementSale:
		return r.RequiredOnSale
	case models.MovementPurchase:
		return r.RequiredOnPurchase
	default:
		return false
	}
}

// ExpirationDate computes when a GTA issued on the given date stops being
// valid. The second return is false when the state has no configured rule.
func ExpirationDate(issueDate time.Time, state string) (time.Time, bool) {
	r, ok := rules[normalizeState(state)]
	if !ok {
		return time.Time{}, false
	}
	return issueDate.AddDate(0, 0, r.ExpirationDays), true
}

// IsValid reports whether a GTA issued on issueDate is still usable on
// checkDate. The expiration day itself still counts as valid; comparison is
// at calendar-day granularity.
func IsValid(issueDate time.Time, state string, checkDate time.Time) bool {
	expiration, ok := ExpirationDate(issueDate, state)
	if !ok {
		return false
	}
	return !truncateDay(checkDate).After(truncateDay(expiration))
}

// Parse extracts the leading two-letter state prefix from a raw number and
// re-runs validation against that state. Numbers without a prefix are invalid
// regardless of content.
func Parse(number string) ParseResult {
	normalized := normalizeNumber(number)

	match := statePrefixRe.FindStringSubmatch(normalized)
	if match == nil {
		return ParseResult{Number: normalized, Valid: false, Message: "GTA sem prefixo de estado"}
	}

	state := match[1]
	result := Validate(normalized, state)
	return ParseResult{State: state, Number: normalized, Valid: result.Valid, Message: result.Message}
}

func normalizeNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
