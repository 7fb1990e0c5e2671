package kunden

import "time"

// Kunde is a customer of the scaffolding company.
type Kunde struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Ansprechpartner *string   `json:"ansprechpartner,omitempty"`
	Email           *string   `json:"email,omitempty"`
	Telefon         *string   `json:"telefon,omitempty"`
	Adresse         *string   `json:"adresse,omitempty"`
	Notizen         *string   `json:"notizen,omitempty"`
	Aktiv           bool      `json:"aktiv"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
