package kalkulation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExportRowsOhneDaten(t *testing.T) {
	vor := testVorkalkulation(10, 5, 40)

	_, err := ExportRows("Geruest Nord", nil, nil)
	require.ErrorIs(t, err, ErrDatenFehlen)

	_, err = ExportRows("Geruest Nord", &vor, nil)
	require.ErrorIs(t, err, ErrDatenFehlen)
}

func TestExportRowsAufbau(t *testing.T) {
	vor := testVorkalkulation(100, 50, 40)
	nach := ComputeNachkalkulation(vor, AggregatedActuals{
		StundenAufbau: 110,
		StundenAbbau:  45,
		Mitarbeiter:   []MitarbeiterStunden{{MitarbeiterID: 1, Name: "Anna", Stunden: 155}},
	}, DefaultParameter(), time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC))

	rows, err := ExportRows("Geruest Nord", &vor, &nach)
	require.NoError(t, err)

	require.Equal(t, []string{"Projekt", "Geruest Nord", "", ""}, rows[0])
	require.Equal(t, []string{"Position", "Soll", "Ist", "Differenz"}, rows[1])
	// German number formatting uses the decimal comma.
	require.Equal(t, "100,00", rows[2][1])
	require.Contains(t, rows, []string{"Mitarbeiter", "Zeit Soll", "Zeit Ist", "Abweichung %"})
	require.Equal(t, []string{"Status", "im_plan", "", ""}, rows[len(rows)-2])
	require.Equal(t, []string{"Letzte Berechnung", "01.03.2026 09:30", "", ""}, rows[len(rows)-1])
}

func TestWriteCSVSemikolon(t *testing.T) {
	var sb strings.Builder
	err := WriteCSV(&sb, [][]string{
		{"Position", "Soll"},
		{"Stunden Aufbau", "100,00"},
	})
	require.NoError(t, err)
	require.Equal(t, "Position;Soll\nStunden Aufbau;100,00\n", sb.String())
}
