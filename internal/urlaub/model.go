package urlaub

import "time"

// Status enumerates the vacation request lifecycle.
type Status string

const (
	StatusBeantragt Status = "beantragt"
	StatusGenehmigt Status = "genehmigt"
	StatusAbgelehnt Status = "abgelehnt"
)

// Antrag is a vacation request. Tage counts the working days Mon-Fri in
// the inclusive Von..Bis range.
type Antrag struct {
	ID            int64     `json:"id"`
	MitarbeiterID int64     `json:"mitarbeiterId"`
	Von           time.Time `json:"von"`
	Bis           time.Time `json:"bis"`
	Tage          float64   `json:"tage"`
	Status        Status    `json:"status"`
	Kommentar     *string   `json:"kommentar,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Bilanz is one employee's vacation balance for a year.
type Bilanz struct {
	MitarbeiterID int64   `json:"mitarbeiterId"`
	Jahr          int     `json:"jahr"`
	Anspruch      float64 `json:"anspruch"`
	Genommen      float64 `json:"genommen"`
	Verbleibend   float64 `json:"verbleibend"`
}
