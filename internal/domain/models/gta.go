package models

import "time"

// TransportDocumentRule is the static per-state GTA configuration: exact
// document length, validation pattern, display format and validity window.
type TransportDocumentRule struct {
	State              string `json:"state"`
	Length             int    `json:"length"`
	Pattern            string `json:"pattern"`
	Format             string `json:"format"`
	Example            string `json:"example"`
	RequiredOnSale     bool   `json:"required_on_sale"`
	RequiredOnPurchase bool   `json:"required_on_purchase"`
	ExpirationDays     int    `json:"expiration_days"`
}

// TransportDocument is a GTA instance attached to a movement. Validity is
// always recomputed from IssueDate and the state rule, never stored.
type TransportDocument struct {
	State     string    `json:"state"`
	Number    string    `json:"number"`
	IssueDate time.Time `json:"issue_date"`
}
