package kalkulation

import (
	"context"
	"fmt"
	"sort"
)

// ZeitQuelle supplies the approved time entries of a project.
type ZeitQuelle interface {
	FreigegebeneEintraege(ctx context.Context, projektID int64) ([]ZeitEintrag, error)
}

// Aggregator groups approved time entries by phase and employee.
// Read-only; entries with status offen never reach it.
type Aggregator struct {
	quelle ZeitQuelle
}

// NewAggregator constructs an Aggregator.
func NewAggregator(quelle ZeitQuelle) *Aggregator {
	return &Aggregator{quelle: quelle}
}

// Aggregate sums approved hours for the project. Entries without a
// Taetigkeitstyp count as aufbau, matching historical data.
func (a *Aggregator) Aggregate(ctx context.Context, projektID int64) (AggregatedActuals, error) {
	eintraege, err := a.quelle.FreigegebeneEintraege(ctx, projektID)
	if err != nil {
		return AggregatedActuals{}, fmt.Errorf("kalkulation: eintraege laden: %w", err)
	}

	var actuals AggregatedActuals
	byEmployee := make(map[int64]*MitarbeiterStunden)
	for _, e := range eintraege {
		if e.Taetigkeitstyp == TaetigkeitAbbau {
			actuals.StundenAbbau += e.Stunden
		} else {
			actuals.StundenAufbau += e.Stunden
		}
		m, ok := byEmployee[e.MitarbeiterID]
		if !ok {
			m = &MitarbeiterStunden{MitarbeiterID: e.MitarbeiterID, Name: e.MitarbeiterName}
			byEmployee[e.MitarbeiterID] = m
		}
		m.Stunden += e.Stunden
	}

	actuals.Mitarbeiter = make([]MitarbeiterStunden, 0, len(byEmployee))
	for _, m := range byEmployee {
		actuals.Mitarbeiter = append(actuals.Mitarbeiter, *m)
	}
	sort.Slice(actuals.Mitarbeiter, func(i, j int) bool {
		return actuals.Mitarbeiter[i].MitarbeiterID < actuals.Mitarbeiter[j].MitarbeiterID
	})
	return actuals, nil
}
