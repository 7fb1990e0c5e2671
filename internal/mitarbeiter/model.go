package mitarbeiter

import "time"

// Mitarbeiter is an employee. PasswordHash never leaves the backend;
// login itself is handled by the external auth gateway.
type Mitarbeiter struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Position       *string    `json:"position,omitempty"`
	Stundensatz    *float64   `json:"stundensatz,omitempty"`
	Urlaubstage    float64    `json:"urlaubstage"`
	Eintrittsdatum *time.Time `json:"eintrittsdatum,omitempty"`
	Aktiv          bool       `json:"aktiv"`
	PasswordHash   string     `json:"-"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
