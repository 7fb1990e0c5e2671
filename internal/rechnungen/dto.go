package rechnungen

type CreateRechnungRequest struct {
	KundeID     int64   `json:"kundeId" validate:"required,gt=0"`
	ProjektID   *int64  `json:"projektId,omitempty" validate:"omitempty,gt=0"`
	AngebotID   *int64  `json:"angebotId,omitempty" validate:"omitempty,gt=0"`
	Betreff     string  `json:"betreff" validate:"required,max=300"`
	Betrag      float64 `json:"betrag" validate:"omitempty,gt=0"`
	Faelligkeit *string `json:"faelligkeit,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notizen     *string `json:"notizen,omitempty"`
}

type UpdateRechnungRequest struct {
	Betreff     *string  `json:"betreff,omitempty" validate:"omitempty,max=300"`
	Betrag      *float64 `json:"betrag,omitempty" validate:"omitempty,gt=0"`
	Faelligkeit *string  `json:"faelligkeit,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Mahnstufe   *int     `json:"mahnstufe,omitempty" validate:"omitempty,gte=0,lte=3"`
	Notizen     *string  `json:"notizen,omitempty"`
}

type ListRechnungenRequest struct {
	KundeID   *int64  `json:"kundeId,omitempty" validate:"omitempty,gt=0"`
	ProjektID *int64  `json:"projektId,omitempty" validate:"omitempty,gt=0"`
	Status    *Status `json:"status,omitempty" validate:"omitempty,oneof=entwurf offen bezahlt storniert"`
	Limit     int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset    int     `json:"offset" validate:"gte=0"`
}
