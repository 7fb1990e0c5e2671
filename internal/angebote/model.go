package angebote

import "time"

// Status enumerates the quotation lifecycle.
type Status string

const (
	StatusEntwurf    Status = "entwurf"
	StatusVersendet  Status = "versendet"
	StatusAngenommen Status = "angenommen"
	StatusAbgelehnt  Status = "abgelehnt"
)

// Position is one quotation line item.
type Position struct {
	Bezeichnung string  `json:"bezeichnung"`
	Menge       float64 `json:"menge"`
	Einzelpreis float64 `json:"einzelpreis"`
}

// Summe returns the line total.
func (p Position) Summe() float64 {
	return p.Menge * p.Einzelpreis
}

// Angebot is a quotation for a scaffolding job.
type Angebot struct {
	ID         int64      `json:"id"`
	Nummer     string     `json:"nummer"`
	KundeID    int64      `json:"kundeId"`
	ProjektID  *int64     `json:"projektId,omitempty"`
	Titel      string     `json:"titel"`
	Positionen []Position `json:"positionen"`
	Summe      float64    `json:"summe"`
	Status     Status     `json:"status"`
	GueltigBis *time.Time `json:"gueltigBis,omitempty"`
	Notizen    *string    `json:"notizen,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
