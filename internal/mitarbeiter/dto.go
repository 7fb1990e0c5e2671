package mitarbeiter

type CreateMitarbeiterRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Email          string   `json:"email" validate:"required,email"`
	Position       *string  `json:"position,omitempty" validate:"omitempty,max=100"`
	Stundensatz    *float64 `json:"stundensatz,omitempty" validate:"omitempty,gt=0"`
	Urlaubstage    float64  `json:"urlaubstage" validate:"gte=0,lte=60"`
	Eintrittsdatum *string  `json:"eintrittsdatum,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Password       string   `json:"password" validate:"required,min=8,max=72"`
}

type UpdateMitarbeiterRequest struct {
	Name           *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Email          *string  `json:"email,omitempty" validate:"omitempty,email"`
	Position       *string  `json:"position,omitempty" validate:"omitempty,max=100"`
	Stundensatz    *float64 `json:"stundensatz,omitempty" validate:"omitempty,gt=0"`
	Urlaubstage    *float64 `json:"urlaubstage,omitempty" validate:"omitempty,gte=0,lte=60"`
	Eintrittsdatum *string  `json:"eintrittsdatum,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Aktiv          *bool    `json:"aktiv,omitempty"`
}

type ListMitarbeiterRequest struct {
	Aktiv  *bool   `json:"aktiv,omitempty"`
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}
