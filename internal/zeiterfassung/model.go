package zeiterfassung

import "time"

// Status enumerates the time entry lifecycle. Only freigegeben entries
// participate in the Nachkalkulation actuals.
type Status string

const (
	// StatusOffen marks an entry awaiting approval.
	StatusOffen Status = "offen"
	// StatusFreigegeben marks an approved entry.
	StatusFreigegeben Status = "freigegeben"
)

// Taetigkeitstyp values.
const (
	TypAufbau = "aufbau"
	TypAbbau  = "abbau"
)

// Eintrag is one logged work session.
type Eintrag struct {
	ID             int64     `json:"id"`
	MitarbeiterID  int64     `json:"mitarbeiterId"`
	ProjektID      int64     `json:"projektId"`
	Datum          time.Time `json:"datum"`
	Stunden        float64   `json:"stunden"`
	Taetigkeitstyp string    `json:"taetigkeitstyp"`
	Bemerkung      *string   `json:"bemerkung,omitempty"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
