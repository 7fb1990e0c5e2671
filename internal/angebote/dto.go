package angebote

type PositionRequest struct {
	Bezeichnung string  `json:"bezeichnung" validate:"required,max=300"`
	Menge       float64 `json:"menge" validate:"gt=0"`
	Einzelpreis float64 `json:"einzelpreis" validate:"gte=0"`
}

type CreateAngebotRequest struct {
	KundeID    int64             `json:"kundeId" validate:"required,gt=0"`
	ProjektID  *int64            `json:"projektId,omitempty" validate:"omitempty,gt=0"`
	Titel      string            `json:"titel" validate:"required,max=300"`
	Positionen []PositionRequest `json:"positionen" validate:"required,min=1,dive"`
	GueltigBis *string           `json:"gueltigBis,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notizen    *string           `json:"notizen,omitempty"`
}

type UpdateAngebotRequest struct {
	Titel      *string           `json:"titel,omitempty" validate:"omitempty,max=300"`
	Positionen []PositionRequest `json:"positionen,omitempty" validate:"omitempty,min=1,dive"`
	GueltigBis *string           `json:"gueltigBis,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notizen    *string           `json:"notizen,omitempty"`
}

// AcceptAngebotRequest optionally seeds the linked project's budget from
// the accepted quotation.
type AcceptAngebotRequest struct {
	SollStundenAufbau *float64 `json:"sollStundenAufbau,omitempty" validate:"omitempty,gte=0"`
	SollStundenAbbau  *float64 `json:"sollStundenAbbau,omitempty" validate:"omitempty,gte=0"`
	Stundensatz       *float64 `json:"stundensatz,omitempty" validate:"omitempty,gt=0"`
	ErstelltVon       string   `json:"erstelltVon,omitempty" validate:"omitempty,max=200"`
}

type ListAngeboteRequest struct {
	KundeID *int64  `json:"kundeId,omitempty" validate:"omitempty,gt=0"`
	Status  *Status `json:"status,omitempty" validate:"omitempty,oneof=entwurf versendet angenommen abgelehnt"`
	Limit   int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset  int     `json:"offset" validate:"gte=0"`
}
