package projekte

import (
	"time"

	"github.com/ruestwerk/ruestwerk-erp/internal/kalkulation"
)

// Status enumerates the project lifecycle.
type Status string

const (
	StatusGeplant       Status = "geplant"
	StatusAktiv         Status = "aktiv"
	StatusAbgeschlossen Status = "abgeschlossen"
)

// Projekt is a scaffolding job. Vorkalkulation and Nachkalkulation are
// embedded documents owned by the kalkulation package; this package only
// carries them through reads.
type Projekt struct {
	ID              int64                        `json:"id"`
	Name            string                       `json:"name"`
	KundeID         *int64                       `json:"kundeId,omitempty"`
	Adresse         *string                      `json:"adresse,omitempty"`
	Baubeginn       *time.Time                   `json:"baubeginn,omitempty"`
	Bauende         *time.Time                   `json:"bauende,omitempty"`
	Status          Status                       `json:"status"`
	MitarbeiterIDs  []int64                      `json:"mitarbeiterIds"`
	Notizen         *string                      `json:"notizen,omitempty"`
	Vorkalkulation  *kalkulation.Vorkalkulation  `json:"vorkalkulation,omitempty"`
	Nachkalkulation *kalkulation.Nachkalkulation `json:"nachkalkulation,omitempty"`
	CreatedAt       time.Time                    `json:"createdAt"`
	UpdatedAt       time.Time                    `json:"updatedAt"`
}

// StundenSummary aggregates a project's approved hours by phase.
type StundenSummary struct {
	StundenAufbau float64 `json:"stundenAufbau"`
	StundenAbbau  float64 `json:"stundenAbbau"`
	StundenGesamt float64 `json:"stundenGesamt"`
	Eintraege     int64   `json:"eintraege"`
}

// ProjektDetail bundles the project with its approved-hours summary.
type ProjektDetail struct {
	Projekt Projekt        `json:"projekt"`
	Stunden StundenSummary `json:"stunden"`
}
