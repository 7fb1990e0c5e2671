package zeiterfassung

type CreateEintragRequest struct {
	MitarbeiterID  int64   `json:"mitarbeiterId" validate:"required,gt=0"`
	ProjektID      int64   `json:"projektId" validate:"required,gt=0"`
	Datum          string  `json:"datum" validate:"required,datetime=2006-01-02"`
	Stunden        float64 `json:"stunden" validate:"required,gt=0,lte=24"`
	Taetigkeitstyp string  `json:"taetigkeitstyp" validate:"required,oneof=aufbau abbau"`
	Bemerkung      *string `json:"bemerkung,omitempty" validate:"omitempty,max=500"`
	Status         string  `json:"status,omitempty" validate:"omitempty,oneof=offen freigegeben"`
}

type UpdateEintragRequest struct {
	ProjektID      *int64   `json:"projektId,omitempty" validate:"omitempty,gt=0"`
	Datum          *string  `json:"datum,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Stunden        *float64 `json:"stunden,omitempty" validate:"omitempty,gt=0,lte=24"`
	Taetigkeitstyp *string  `json:"taetigkeitstyp,omitempty" validate:"omitempty,oneof=aufbau abbau"`
	Bemerkung      *string  `json:"bemerkung,omitempty" validate:"omitempty,max=500"`
	Status         *string  `json:"status,omitempty" validate:"omitempty,oneof=offen freigegeben"`
}

type ListEintraegeRequest struct {
	ProjektID     int64  `json:"projektId" validate:"gte=0"`
	MitarbeiterID int64  `json:"mitarbeiterId" validate:"gte=0"`
	Status        string `json:"status" validate:"omitempty,oneof=offen freigegeben"`
	Limit         int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset        int    `json:"offset" validate:"gte=0"`
}
