// Package kalkulation implements the project cost-variance engine:
// budgeted assembly/disassembly hours (Vorkalkulation) are compared
// against approved time entries to produce a Nachkalkulation snapshot.
package kalkulation

import (
	"errors"
	"fmt"
	"time"
)

// Rundungsregel enumerates supported rounding modes.
type Rundungsregel string

const (
	// RundungKaufmaennisch rounds half-up.
	RundungKaufmaennisch Rundungsregel = "kaufmaennisch"
	// RundungAuf always rounds up.
	RundungAuf Rundungsregel = "auf"
	// RundungAb always rounds down.
	RundungAb Rundungsregel = "ab"
)

// Taetigkeitstyp enumerates the two labor phases of a scaffolding project.
type Taetigkeitstyp string

const (
	// TaetigkeitAufbau is the assembly phase.
	TaetigkeitAufbau Taetigkeitstyp = "aufbau"
	// TaetigkeitAbbau is the disassembly phase.
	TaetigkeitAbbau Taetigkeitstyp = "abbau"
)

// KalkulationsStatus enumerates traffic-light classifications.
type KalkulationsStatus string

const (
	// StatusImPlan indicates deviation within the green band.
	StatusImPlan KalkulationsStatus = "im_plan"
	// StatusWarnung indicates deviation within the yellow band.
	StatusWarnung KalkulationsStatus = "warnung"
	// StatusKritisch indicates deviation outside both bands.
	StatusKritisch KalkulationsStatus = "kritisch"
)

// VorkalkulationsQuelle enumerates budget origins.
type VorkalkulationsQuelle string

const (
	// QuelleManuell marks a manually entered budget.
	QuelleManuell VorkalkulationsQuelle = "manuell"
	// QuelleAngebot marks a budget derived from an accepted quotation.
	QuelleAngebot VorkalkulationsQuelle = "angebot"
)

// Verteilungsfaktor weights the two phase deviations into one aggregate.
type Verteilungsfaktor struct {
	Aufbau float64 `json:"aufbau"`
	Abbau  float64 `json:"abbau"`
}

// Farbschwelle is an inclusive percentage band.
type Farbschwelle struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the band, bounds inclusive.
func (f Farbschwelle) Contains(v float64) bool {
	return v >= f.Min && v <= f.Max
}

// Farbschwellen holds the three ordered classification bands.
type Farbschwellen struct {
	Gruen Farbschwelle `json:"gruen"`
	Gelb  Farbschwelle `json:"gelb"`
	Rot   Farbschwelle `json:"rot"`
}

// KalkulationsParameter is the process-wide calculation configuration.
// Exactly one active set exists; updates replace it wholesale.
type KalkulationsParameter struct {
	StandardStundensatz float64           `json:"standardStundensatz"`
	Verteilungsfaktor   Verteilungsfaktor `json:"verteilungsfaktor"`
	Rundungsregel       Rundungsregel     `json:"rundungsregel"`
	Farbschwellen       Farbschwellen     `json:"farbschwellen"`
	ZuletztGeaendert    time.Time         `json:"zuletztGeaendert"`
}

// DefaultParameter returns the documented default parameter set.
func DefaultParameter() KalkulationsParameter {
	return KalkulationsParameter{
		StandardStundensatz: 72,
		Verteilungsfaktor:   Verteilungsfaktor{Aufbau: 60, Abbau: 40},
		Rundungsregel:       RundungKaufmaennisch,
		Farbschwellen: Farbschwellen{
			Gruen: Farbschwelle{Min: 95, Max: 105},
			Gelb:  Farbschwelle{Min: 90, Max: 110},
			Rot:   Farbschwelle{Min: 0, Max: 200},
		},
	}
}

// Validate ensures the parameter set is internally consistent.
func (p KalkulationsParameter) Validate() error {
	if p.StandardStundensatz <= 0 {
		return fmt.Errorf("%w: standardStundensatz muss positiv sein", ErrParameterUngueltig)
	}
	if p.Verteilungsfaktor.Aufbau+p.Verteilungsfaktor.Abbau != 100 {
		return fmt.Errorf("%w: verteilungsfaktor aufbau+abbau muss 100 ergeben", ErrParameterUngueltig)
	}
	if p.Verteilungsfaktor.Aufbau < 0 || p.Verteilungsfaktor.Abbau < 0 {
		return fmt.Errorf("%w: verteilungsfaktor darf nicht negativ sein", ErrParameterUngueltig)
	}
	switch p.Rundungsregel {
	case RundungKaufmaennisch, RundungAuf, RundungAb:
	default:
		return fmt.Errorf("%w: unbekannte rundungsregel %q", ErrParameterUngueltig, p.Rundungsregel)
	}
	for _, band := range []Farbschwelle{p.Farbschwellen.Gruen, p.Farbschwellen.Gelb, p.Farbschwellen.Rot} {
		if band.Min > band.Max {
			return fmt.Errorf("%w: farbschwelle min > max", ErrParameterUngueltig)
		}
	}
	return nil
}

// Vorkalkulation is the budget for a project, stored embedded in the
// project record. Derived fields are computed once on save so later
// parameter changes cannot retroactively shift the stored plan.
type Vorkalkulation struct {
	SollStundenAufbau float64               `json:"sollStundenAufbau"`
	SollStundenAbbau  float64               `json:"sollStundenAbbau"`
	Stundensatz       float64               `json:"stundensatz"`
	SollUmsatzAufbau  float64               `json:"sollUmsatzAufbau"`
	SollUmsatzAbbau   float64               `json:"sollUmsatzAbbau"`
	GesamtSollStunden float64               `json:"gesamtSollStunden"`
	GesamtSollUmsatz  float64               `json:"gesamtSollUmsatz"`
	Materialkosten    *float64              `json:"materialkosten,omitempty"`
	Gemeinkosten      *float64              `json:"gemeinkosten,omitempty"`
	Gewinn            *float64              `json:"gewinn,omitempty"`
	Quelle            VorkalkulationsQuelle `json:"quelle"`
	AngebotID         *int64                `json:"angebotId,omitempty"`
	ErstelltAm        time.Time             `json:"erstelltAm"`
	ErstelltVon       string                `json:"erstelltVon,omitempty"`
}

// VorkalkulationInput captures the user-entered budget fields.
type VorkalkulationInput struct {
	SollStundenAufbau float64
	SollStundenAbbau  float64
	Stundensatz       float64
	Materialkosten    *float64
	Gemeinkosten      *float64
	Gewinn            *float64
	Quelle            VorkalkulationsQuelle
	AngebotID         *int64
	ErstelltVon       string
}

// Validate ensures correctness of the budget input.
func (in VorkalkulationInput) Validate() error {
	if in.SollStundenAufbau < 0 || in.SollStundenAbbau < 0 {
		return fmt.Errorf("%w: sollStunden duerfen nicht negativ sein", ErrVorkalkulationUngueltig)
	}
	if in.Stundensatz <= 0 {
		return fmt.Errorf("%w: stundensatz muss positiv sein", ErrVorkalkulationUngueltig)
	}
	switch in.Quelle {
	case QuelleManuell, QuelleAngebot, "":
	default:
		return fmt.Errorf("%w: unbekannte quelle %q", ErrVorkalkulationUngueltig, in.Quelle)
	}
	return nil
}

// MitarbeiterKalkulation is one per-employee row of the variance report.
type MitarbeiterKalkulation struct {
	MitarbeiterID     int64   `json:"mitarbeiterId"`
	MitarbeiterName   string  `json:"mitarbeiterName"`
	ZeitSoll          float64 `json:"zeitSoll"`
	ZeitIst           float64 `json:"zeitIst"`
	DifferenzZeit     float64 `json:"differenzZeit"`
	SummeSoll         float64 `json:"summeSoll"`
	SummeIst          float64 `json:"summeIst"`
	DifferenzSumme    float64 `json:"differenzSumme"`
	AbweichungProzent float64 `json:"abweichungProzent"`
}

// Nachkalkulation is the computed variance snapshot. It is fully
// regenerated on every recompute and never user-edited.
type Nachkalkulation struct {
	IstStundenAufbau        float64                  `json:"istStundenAufbau"`
	IstStundenAbbau         float64                  `json:"istStundenAbbau"`
	IstUmsatzAufbau         float64                  `json:"istUmsatzAufbau"`
	IstUmsatzAbbau          float64                  `json:"istUmsatzAbbau"`
	GesamtSollStunden       float64                  `json:"gesamtSollStunden"`
	GesamtIstStunden        float64                  `json:"gesamtIstStunden"`
	DifferenzStunden        float64                  `json:"differenzStunden"`
	GesamtSollUmsatz        float64                  `json:"gesamtSollUmsatz"`
	GesamtIstUmsatz         float64                  `json:"gesamtIstUmsatz"`
	DifferenzUmsatz         float64                  `json:"differenzUmsatz"`
	AbweichungUmsatzProzent float64                  `json:"abweichungUmsatzProzent"`
	Erfuellungsgrad         float64                  `json:"erfuellungsgrad"`
	Status                  KalkulationsStatus       `json:"status"`
	MitarbeiterAuswertung   []MitarbeiterKalkulation `json:"mitarbeiterAuswertung"`
	LetzteBerechnung        time.Time                `json:"letzteBerechnung"`
}

// VerlaufEintrag is one bounded-history data point kept for trend charts.
type VerlaufEintrag struct {
	Datum            time.Time `json:"datum"`
	IstStundenAufbau float64   `json:"istStundenAufbau"`
	IstStundenAbbau  float64   `json:"istStundenAbbau"`
	IstUmsatzGesamt  float64   `json:"istUmsatzGesamt"`
	Erfuellungsgrad  float64   `json:"erfuellungsgrad"`
}

// ZeitEintrag is the slice of a time entry the aggregator needs.
type ZeitEintrag struct {
	MitarbeiterID   int64
	MitarbeiterName string
	Stunden         float64
	Taetigkeitstyp  Taetigkeitstyp
}

// AggregatedActuals holds approved hours grouped by phase and employee.
type AggregatedActuals struct {
	StundenAufbau float64
	StundenAbbau  float64
	Mitarbeiter   []MitarbeiterStunden
}

// MitarbeiterStunden is one employee's approved hour total across phases.
type MitarbeiterStunden struct {
	MitarbeiterID int64
	Name          string
	Stunden       float64
}

// GesamtStunden returns the total approved hours across both phases.
func (a AggregatedActuals) GesamtStunden() float64 {
	return a.StundenAufbau + a.StundenAbbau
}

var (
	// ErrProjektNichtGefunden occurs when the project row is missing.
	ErrProjektNichtGefunden = errors.New("kalkulation: projekt nicht gefunden")
	// ErrVorkalkulationFehlt occurs when a project has no budget; the
	// recompute is skipped, not retried and not surfaced to end users.
	ErrVorkalkulationFehlt = errors.New("kalkulation: vorkalkulation fehlt")
	// ErrNochNichtBerechnet occurs when no Nachkalkulation snapshot exists yet.
	ErrNochNichtBerechnet = errors.New("kalkulation: noch nicht berechnet")
	// ErrParameterUngueltig occurs on invalid parameter updates.
	ErrParameterUngueltig = errors.New("kalkulation: parameter ungueltig")
	// ErrVorkalkulationUngueltig occurs on invalid budget input.
	ErrVorkalkulationUngueltig = errors.New("kalkulation: vorkalkulation ungueltig")
)
