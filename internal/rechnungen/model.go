package rechnungen

import "time"

// Status enumerates the invoice lifecycle.
type Status string

const (
	StatusEntwurf   Status = "entwurf"
	StatusOffen     Status = "offen"
	StatusBezahlt   Status = "bezahlt"
	StatusStorniert Status = "storniert"
)

// Rechnung is an outgoing invoice. Mahnstufe is carried for external
// dunning tooling only; no reminder workflow runs here.
type Rechnung struct {
	ID          int64      `json:"id"`
	Nummer      string     `json:"nummer"`
	KundeID     int64      `json:"kundeId"`
	ProjektID   *int64     `json:"projektId,omitempty"`
	AngebotID   *int64     `json:"angebotId,omitempty"`
	Betreff     string     `json:"betreff"`
	Betrag      float64    `json:"betrag"`
	Status      Status     `json:"status"`
	Faelligkeit *time.Time `json:"faelligkeit,omitempty"`
	GestelltAm  *time.Time `json:"gestelltAm,omitempty"`
	BezahltAm   *time.Time `json:"bezahltAm,omitempty"`
	Mahnstufe   int        `json:"mahnstufe"`
	Notizen     *string    `json:"notizen,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AgingBucket groups open posted invoice amounts by days overdue.
type AgingBucket struct {
	Current   float64 `json:"current"`
	Bucket30  float64 `json:"bucket30"`
	Bucket60  float64 `json:"bucket60"`
	Bucket90  float64 `json:"bucket90"`
	Bucket120 float64 `json:"bucket120"`
}
