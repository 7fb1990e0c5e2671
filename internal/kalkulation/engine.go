package kalkulation

import (
	"math"
	"sort"
	"time"
)

// ComputeNachkalkulation derives the variance snapshot from a budget,
// aggregated actuals and the active parameter set. Pure function, no I/O.
//
// Phase deviation is istUmsatz/sollUmsatz*100, defined as 0 when the
// planned value is zero so an unbudgeted phase reads as on-plan rather
// than infinite. Rounding is applied once, on the final output figures,
// never on intermediate sums.
func ComputeNachkalkulation(vor Vorkalkulation, ist AggregatedActuals, params KalkulationsParameter, now time.Time) Nachkalkulation {
	istUmsatzAufbau := ist.StundenAufbau * vor.Stundensatz
	istUmsatzAbbau := ist.StundenAbbau * vor.Stundensatz

	gesamtSollStunden := vor.SollStundenAufbau + vor.SollStundenAbbau
	gesamtIstStunden := ist.StundenAufbau + ist.StundenAbbau
	gesamtSollUmsatz := vor.SollUmsatzAufbau + vor.SollUmsatzAbbau
	gesamtIstUmsatz := istUmsatzAufbau + istUmsatzAbbau

	abweichungAufbau := phasenAbweichung(istUmsatzAufbau, vor.SollUmsatzAufbau)
	abweichungAbbau := phasenAbweichung(istUmsatzAbbau, vor.SollUmsatzAbbau)
	gewichtet := (abweichungAufbau*params.Verteilungsfaktor.Aufbau + abweichungAbbau*params.Verteilungsfaktor.Abbau) / 100

	erfuellungsgrad := 100.0
	if gesamtSollStunden > 0 {
		erfuellungsgrad = gesamtIstStunden / gesamtSollStunden * 100
	}

	// A project nobody has worked on yet is not behind plan.
	status := StatusImPlan
	if gesamtIstStunden > 0 {
		status = KlassifiziereStatus(gewichtet, params.Farbschwellen)
	}

	regel := params.Rundungsregel
	return Nachkalkulation{
		IstStundenAufbau:        RundeStunden(ist.StundenAufbau, regel),
		IstStundenAbbau:         RundeStunden(ist.StundenAbbau, regel),
		IstUmsatzAufbau:         RundeBetrag(istUmsatzAufbau, regel),
		IstUmsatzAbbau:          RundeBetrag(istUmsatzAbbau, regel),
		GesamtSollStunden:       RundeStunden(gesamtSollStunden, regel),
		GesamtIstStunden:        RundeStunden(gesamtIstStunden, regel),
		DifferenzStunden:        RundeStunden(gesamtSollStunden-gesamtIstStunden, regel),
		GesamtSollUmsatz:        RundeBetrag(gesamtSollUmsatz, regel),
		GesamtIstUmsatz:         RundeBetrag(gesamtIstUmsatz, regel),
		DifferenzUmsatz:         RundeBetrag(gesamtSollUmsatz-gesamtIstUmsatz, regel),
		AbweichungUmsatzProzent: RundeBetrag(gewichtet, regel),
		Erfuellungsgrad:         RundeBetrag(erfuellungsgrad, regel),
		Status:                  status,
		MitarbeiterAuswertung:   mitarbeiterAuswertung(vor, ist, regel),
		LetzteBerechnung:        now,
	}
}

func phasenAbweichung(istUmsatz, sollUmsatz float64) float64 {
	if sollUmsatz <= 0 {
		return 0
	}
	return istUmsatz / sollUmsatz * 100
}

// KlassifiziereStatus maps a weighted deviation onto the traffic-light
// bands. Bounds are inclusive; overlapping bands resolve tightest first.
func KlassifiziereStatus(wert float64, schwellen Farbschwellen) KalkulationsStatus {
	switch {
	case schwellen.Gruen.Contains(wert):
		return StatusImPlan
	case schwellen.Gelb.Contains(wert):
		return StatusWarnung
	default:
		return StatusKritisch
	}
}

// mitarbeiterAuswertung builds per-employee rows. The soll share is
// back-allocated pro-rata from each employee's share of actual hours;
// there is no independently stored per-employee plan.
func mitarbeiterAuswertung(vor Vorkalkulation, ist AggregatedActuals, regel Rundungsregel) []MitarbeiterKalkulation {
	gesamtIst := ist.GesamtStunden()
	gesamtSoll := vor.SollStundenAufbau + vor.SollStundenAbbau

	rows := make([]MitarbeiterKalkulation, 0, len(ist.Mitarbeiter))
	for _, m := range ist.Mitarbeiter {
		zeitSoll := backAllocateSoll(gesamtSoll, gesamtIst, m.Stunden)
		zeitIst := m.Stunden
		summeSoll := zeitSoll * vor.Stundensatz
		summeIst := zeitIst * vor.Stundensatz
		abweichung := 0.0
		if summeSoll > 0 {
			abweichung = summeIst / summeSoll * 100
		}
		rows = append(rows, MitarbeiterKalkulation{
			MitarbeiterID:     m.MitarbeiterID,
			MitarbeiterName:   m.Name,
			ZeitSoll:          RundeStunden(zeitSoll, regel),
			ZeitIst:           RundeStunden(zeitIst, regel),
			DifferenzZeit:     RundeStunden(zeitSoll-zeitIst, regel),
			SummeSoll:         RundeBetrag(summeSoll, regel),
			SummeIst:          RundeBetrag(summeIst, regel),
			DifferenzSumme:    RundeBetrag(summeSoll-summeIst, regel),
			AbweichungProzent: RundeBetrag(abweichung, regel),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].MitarbeiterID < rows[j].MitarbeiterID
	})
	return rows
}

// backAllocateSoll distributes the project plan over employees by their
// share of logged hours. There is no stored per-employee plan.
func backAllocateSoll(gesamtSoll, gesamtIst, mitarbeiterIst float64) float64 {
	if gesamtIst <= 0 {
		return 0
	}
	return gesamtSoll * (mitarbeiterIst / gesamtIst)
}

// RundeBetrag rounds a monetary or percentage figure to 2 decimal places.
func RundeBetrag(v float64, regel Rundungsregel) float64 {
	return runde(v, regel, 2)
}

// RundeStunden rounds an hour figure to 1 decimal place.
func RundeStunden(v float64, regel Rundungsregel) float64 {
	return runde(v, regel, 1)
}

func runde(v float64, regel Rundungsregel, stellen int) float64 {
	faktor := math.Pow(10, float64(stellen))
	switch regel {
	case RundungAuf:
		return math.Ceil(v*faktor) / faktor
	case RundungAb:
		return math.Floor(v*faktor) / faktor
	default:
		return math.Round(v*faktor) / faktor
	}
}
