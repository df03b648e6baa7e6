// Package models holds the server-side storage records.
package models

import "time"

// Account is a row of the accounts table. Name and Provider are empty when
// the identity provider left them unset.
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name,omitempty"`
	Provider     string     `json:"provider,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastSignInAt *time.Time `json:"lastSignInAt,omitempty"`
}

type BillingProfile struct {
	UserID     string `json:"userId"`
	CustomerID string `json:"customerId,omitempty"`
	PriceID    string `json:"priceId,omitempty"`
}

// DeletionRecord is written to the archive before an account row goes away.
type DeletionRecord struct {
	Account   Account         `json:"account"`
	Profile   *BillingProfile `json:"profile,omitempty"`
	DeletedBy string          `json:"deletedBy"`
	DeletedAt time.Time       `json:"deletedAt"`
}
