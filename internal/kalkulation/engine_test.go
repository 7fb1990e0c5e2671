package kalkulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testVorkalkulation(aufbau, abbau, satz float64) Vorkalkulation {
	return Vorkalkulation{
		SollStundenAufbau: aufbau,
		SollStundenAbbau:  abbau,
		Stundensatz:       satz,
		SollUmsatzAufbau:  aufbau * satz,
		SollUmsatzAbbau:   abbau * satz,
		GesamtSollStunden: aufbau + abbau,
		GesamtSollUmsatz:  (aufbau + abbau) * satz,
	}
}

func TestComputeNachkalkulationGewichteteAbweichung(t *testing.T) {
	vor := testVorkalkulation(100, 50, 40)
	ist := AggregatedActuals{
		StundenAufbau: 110,
		StundenAbbau:  45,
		Mitarbeiter: []MitarbeiterStunden{
			{MitarbeiterID: 1, Name: "Anna", Stunden: 80},
			{MitarbeiterID: 2, Name: "Bernd", Stunden: 75},
		},
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	nach := ComputeNachkalkulation(vor, ist, DefaultParameter(), now)

	require.InDelta(t, 4400, nach.IstUmsatzAufbau, 0.001)
	require.InDelta(t, 1800, nach.IstUmsatzAbbau, 0.001)
	// (110*60 + 90*40) / 100
	require.InDelta(t, 102, nach.AbweichungUmsatzProzent, 0.001)
	require.Equal(t, StatusImPlan, nach.Status)
	require.InDelta(t, 150, nach.GesamtSollStunden, 0.001)
	require.InDelta(t, 155, nach.GesamtIstStunden, 0.001)
	require.InDelta(t, -5, nach.DifferenzStunden, 0.001)
	require.InDelta(t, 6000, nach.GesamtSollUmsatz, 0.001)
	require.InDelta(t, 6200, nach.GesamtIstUmsatz, 0.001)
	require.InDelta(t, -200, nach.DifferenzUmsatz, 0.001)
	require.InDelta(t, 103.33, nach.Erfuellungsgrad, 0.001)
	require.Equal(t, now, nach.LetzteBerechnung)
}

func TestComputeNachkalkulationOhneIstStunden(t *testing.T) {
	vor := testVorkalkulation(100, 50, 40)

	nach := ComputeNachkalkulation(vor, AggregatedActuals{}, DefaultParameter(), time.Now())

	require.Equal(t, StatusImPlan, nach.Status)
	require.Zero(t, nach.GesamtIstStunden)
	require.Zero(t, nach.AbweichungUmsatzProzent)
	require.Empty(t, nach.MitarbeiterAuswertung)
	require.InDelta(t, 0, nach.Erfuellungsgrad, 0.001)
}

func TestComputeNachkalkulationSollNull(t *testing.T) {
	vor := testVorkalkulation(0, 0, 40)
	ist := AggregatedActuals{
		StundenAufbau: 10,
		Mitarbeiter:   []MitarbeiterStunden{{MitarbeiterID: 1, Name: "Anna", Stunden: 10}},
	}

	nach := ComputeNachkalkulation(vor, ist, DefaultParameter(), time.Now())

	// Unbudgeted phases read as deviation 0, which the green band contains.
	require.Zero(t, nach.AbweichungUmsatzProzent)
	require.Equal(t, StatusKritisch, nach.Status)
	// Fulfilment defaults to 100 when nothing was planned.
	require.InDelta(t, 100, nach.Erfuellungsgrad, 0.001)
}

func TestComputeNachkalkulationEinseitigesBudget(t *testing.T) {
	// Only assembly budgeted; disassembly actuals deviate 0 by definition.
	vor := testVorkalkulation(100, 0, 50)
	ist := AggregatedActuals{
		StundenAufbau: 100,
		StundenAbbau:  20,
		Mitarbeiter:   []MitarbeiterStunden{{MitarbeiterID: 1, Name: "Anna", Stunden: 120}},
	}

	nach := ComputeNachkalkulation(vor, ist, DefaultParameter(), time.Now())

	// (100*60 + 0*40) / 100
	require.InDelta(t, 60, nach.AbweichungUmsatzProzent, 0.001)
	require.Equal(t, StatusKritisch, nach.Status)
}

func TestKlassifiziereStatusGrenzen(t *testing.T) {
	schwellen := DefaultParameter().Farbschwellen

	cases := []struct {
		wert float64
		want KalkulationsStatus
	}{
		{95, StatusImPlan},
		{105, StatusImPlan},
		{100, StatusImPlan},
		{94.99, StatusWarnung},
		{90, StatusWarnung},
		{110, StatusWarnung},
		{89.99, StatusKritisch},
		{110.01, StatusKritisch},
		{0, StatusKritisch},
		{250, StatusKritisch},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, KlassifiziereStatus(tc.wert, schwellen), "wert %v", tc.wert)
	}
}

func TestMitarbeiterAuswertungProRata(t *testing.T) {
	vor := testVorkalkulation(100, 50, 40)
	ist := AggregatedActuals{
		StundenAufbau: 110,
		StundenAbbau:  45,
		Mitarbeiter: []MitarbeiterStunden{
			{MitarbeiterID: 2, Name: "Bernd", Stunden: 62},
			{MitarbeiterID: 1, Name: "Anna", Stunden: 93},
		},
	}

	nach := ComputeNachkalkulation(vor, ist, DefaultParameter(), time.Now())

	require.Len(t, nach.MitarbeiterAuswertung, 2)
	// Sorted by employee id regardless of input order.
	require.Equal(t, int64(1), nach.MitarbeiterAuswertung[0].MitarbeiterID)
	require.Equal(t, int64(2), nach.MitarbeiterAuswertung[1].MitarbeiterID)

	anna := nach.MitarbeiterAuswertung[0]
	// 150 * (93/155) = 90
	require.InDelta(t, 90, anna.ZeitSoll, 0.05)
	require.InDelta(t, 93, anna.ZeitIst, 0.001)
	require.InDelta(t, 3720, anna.SummeIst, 0.001)

	var summeIst float64
	for _, m := range nach.MitarbeiterAuswertung {
		summeIst += m.SummeIst
	}
	require.InDelta(t, nach.GesamtIstUmsatz, summeIst, 0.01)
}

func TestRundungsregeln(t *testing.T) {
	require.InDelta(t, 1.38, RundeBetrag(1.375, RundungKaufmaennisch), 0.0001)
	require.InDelta(t, 1.38, RundeBetrag(1.371, RundungAuf), 0.0001)
	require.InDelta(t, 1.37, RundeBetrag(1.379, RundungAb), 0.0001)
	require.InDelta(t, 1.3, RundeStunden(1.25, RundungKaufmaennisch), 0.0001)
	require.InDelta(t, 1.4, RundeStunden(1.31, RundungAuf), 0.0001)
	require.InDelta(t, 1.3, RundeStunden(1.39, RundungAb), 0.0001)
}

func TestParameterValidate(t *testing.T) {
	p := DefaultParameter()
	require.NoError(t, p.Validate())

	bad := p
	bad.Verteilungsfaktor = Verteilungsfaktor{Aufbau: 70, Abbau: 40}
	require.ErrorIs(t, bad.Validate(), ErrParameterUngueltig)

	bad = p
	bad.StandardStundensatz = 0
	require.ErrorIs(t, bad.Validate(), ErrParameterUngueltig)

	bad = p
	bad.Rundungsregel = "bankers"
	require.ErrorIs(t, bad.Validate(), ErrParameterUngueltig)

	bad = p
	bad.Farbschwellen.Gruen = Farbschwelle{Min: 105, Max: 95}
	require.ErrorIs(t, bad.Validate(), ErrParameterUngueltig)
}
