package kunden

type CreateKundeRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Ansprechpartner *string `json:"ansprechpartner,omitempty" validate:"omitempty,max=200"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Telefon         *string `json:"telefon,omitempty" validate:"omitempty,max=50"`
	Adresse         *string `json:"adresse,omitempty" validate:"omitempty,max=500"`
	Notizen         *string `json:"notizen,omitempty"`
}

type UpdateKundeRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Ansprechpartner *string `json:"ansprechpartner,omitempty" validate:"omitempty,max=200"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Telefon         *string `json:"telefon,omitempty" validate:"omitempty,max=50"`
	Adresse         *string `json:"adresse,omitempty" validate:"omitempty,max=500"`
	Notizen         *string `json:"notizen,omitempty"`
	Aktiv           *bool   `json:"aktiv,omitempty"`
}

type ListKundenRequest struct {
	Aktiv  *bool   `json:"aktiv,omitempty"`
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}
