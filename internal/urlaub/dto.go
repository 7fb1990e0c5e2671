package urlaub

type CreateAntragRequest struct {
	MitarbeiterID int64   `json:"mitarbeiterId" validate:"required,gt=0"`
	Von           string  `json:"von" validate:"required,datetime=2006-01-02"`
	Bis           string  `json:"bis" validate:"required,datetime=2006-01-02"`
	Kommentar     *string `json:"kommentar,omitempty" validate:"omitempty,max=500"`
}

type ListAntraegeRequest struct {
	MitarbeiterID *int64  `json:"mitarbeiterId,omitempty" validate:"omitempty,gt=0"`
	Status        *Status `json:"status,omitempty" validate:"omitempty,oneof=beantragt genehmigt abgelehnt"`
	Jahr          *int    `json:"jahr,omitempty" validate:"omitempty,gte=2000,lte=2100"`
	Limit         int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset        int     `json:"offset" validate:"gte=0"`
}
