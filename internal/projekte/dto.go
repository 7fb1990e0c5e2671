package projekte

type CreateProjektRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	KundeID        *int64  `json:"kundeId,omitempty" validate:"omitempty,gt=0"`
	Adresse        *string `json:"adresse,omitempty" validate:"omitempty,max=500"`
	Baubeginn      *string `json:"baubeginn,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Bauende        *string `json:"bauende,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MitarbeiterIDs []int64 `json:"mitarbeiterIds,omitempty" validate:"omitempty,dive,gt=0"`
	Notizen        *string `json:"notizen,omitempty"`
}

type UpdateProjektRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,max=200"`
	KundeID        *int64  `json:"kundeId,omitempty" validate:"omitempty,gt=0"`
	Adresse        *string `json:"adresse,omitempty" validate:"omitempty,max=500"`
	Baubeginn      *string `json:"baubeginn,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Bauende        *string `json:"bauende,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status         *Status `json:"status,omitempty" validate:"omitempty,oneof=geplant aktiv abgeschlossen"`
	MitarbeiterIDs []int64 `json:"mitarbeiterIds,omitempty" validate:"omitempty,dive,gt=0"`
	Notizen        *string `json:"notizen,omitempty"`
}

type ListProjekteRequest struct {
	Status  *Status `json:"status,omitempty" validate:"omitempty,oneof=geplant aktiv abgeschlossen"`
	KundeID *int64  `json:"kundeId,omitempty" validate:"omitempty,gt=0"`
	Search  *string `json:"search,omitempty"`
	Limit   int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset  int     `json:"offset" validate:"gte=0"`
}
