package kalkulation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrDatenFehlen occurs when an export is requested before both
// kalkulation objects exist. Callers check existence first.
var ErrDatenFehlen = errors.New("kalkulation: daten fuer export fehlen")

// ExportRows renders a computed Nachkalkulation plus its source budget
// as a flat table: phase rows, a weighted total row, one row per
// employee and the summary fields. Pure formatting, no recomputation.
func ExportRows(projektName string, vor *Vorkalkulation, nach *Nachkalkulation) ([][]string, error) {
	if vor == nil || nach == nil {
		return nil, ErrDatenFehlen
	}

	p := message.NewPrinter(language.German)
	zahl := func(v float64) string { return p.Sprintf("%.2f", v) }

	rows := [][]string{
		{"Projekt", projektName, "", ""},
		{"Position", "Soll", "Ist", "Differenz"},
		{"Stunden Aufbau", zahl(vor.SollStundenAufbau), zahl(nach.IstStundenAufbau), zahl(vor.SollStundenAufbau - nach.IstStundenAufbau)},
		{"Stunden Abbau", zahl(vor.SollStundenAbbau), zahl(nach.IstStundenAbbau), zahl(vor.SollStundenAbbau - nach.IstStundenAbbau)},
		{"Umsatz Aufbau", zahl(vor.SollUmsatzAufbau), zahl(nach.IstUmsatzAufbau), zahl(vor.SollUmsatzAufbau - nach.IstUmsatzAufbau)},
		{"Umsatz Abbau", zahl(vor.SollUmsatzAbbau), zahl(nach.IstUmsatzAbbau), zahl(vor.SollUmsatzAbbau - nach.IstUmsatzAbbau)},
		{"Gesamt Stunden", zahl(nach.GesamtSollStunden), zahl(nach.GesamtIstStunden), zahl(nach.DifferenzStunden)},
		{"Gesamt Umsatz", zahl(nach.GesamtSollUmsatz), zahl(nach.GesamtIstUmsatz), zahl(nach.DifferenzUmsatz)},
		{"Gewichtete Abweichung %", zahl(nach.AbweichungUmsatzProzent), "", ""},
	}

	if len(nach.MitarbeiterAuswertung) > 0 {
		rows = append(rows, []string{"Mitarbeiter", "Zeit Soll", "Zeit Ist", "Abweichung %"})
		for _, m := range nach.MitarbeiterAuswertung {
			rows = append(rows, []string{
				m.MitarbeiterName,
				zahl(m.ZeitSoll),
				zahl(m.ZeitIst),
				zahl(m.AbweichungProzent),
			})
		}
	}

	rows = append(rows,
		[]string{"Erfuellungsgrad %", zahl(nach.Erfuellungsgrad), "", ""},
		[]string{"Status", string(nach.Status), "", ""},
		[]string{"Letzte Berechnung", nach.LetzteBerechnung.Format("02.01.2006 15:04"), "", ""},
	)
	return rows, nil
}

// WriteCSV streams rows as semicolon separated values, the delimiter
// German spreadsheet imports expect.
func WriteCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("kalkulation: csv schreiben: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
