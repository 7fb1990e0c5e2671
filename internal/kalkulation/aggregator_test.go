package kalkulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticZeitQuelle struct {
	eintraege []ZeitEintrag
}

func (q staticZeitQuelle) FreigegebeneEintraege(ctx context.Context, projektID int64) ([]ZeitEintrag, error) {
	return q.eintraege, nil
}

func TestAggregateGruppiertNachPhaseUndMitarbeiter(t *testing.T) {
	agg := NewAggregator(staticZeitQuelle{eintraege: []ZeitEintrag{
		{MitarbeiterID: 2, MitarbeiterName: "Bernd", Stunden: 8, Taetigkeitstyp: TaetigkeitAufbau},
		{MitarbeiterID: 1, MitarbeiterName: "Anna", Stunden: 6, Taetigkeitstyp: TaetigkeitAbbau},
		{MitarbeiterID: 2, MitarbeiterName: "Bernd", Stunden: 4, Taetigkeitstyp: TaetigkeitAbbau},
		// Missing type counts as aufbau, matching historical entries.
		{MitarbeiterID: 1, MitarbeiterName: "Anna", Stunden: 2},
	}})

	actuals, err := agg.Aggregate(context.Background(), 1)
	require.NoError(t, err)
	require.InDelta(t, 10, actuals.StundenAufbau, 0.001)
	require.InDelta(t, 10, actuals.StundenAbbau, 0.001)
	require.InDelta(t, 20, actuals.GesamtStunden(), 0.001)

	require.Len(t, actuals.Mitarbeiter, 2)
	require.Equal(t, int64(1), actuals.Mitarbeiter[0].MitarbeiterID)
	require.InDelta(t, 8, actuals.Mitarbeiter[0].Stunden, 0.001)
	require.Equal(t, int64(2), actuals.Mitarbeiter[1].MitarbeiterID)
	require.InDelta(t, 12, actuals.Mitarbeiter[1].Stunden, 0.001)
}

func TestAggregateLeer(t *testing.T) {
	agg := NewAggregator(staticZeitQuelle{})

	actuals, err := agg.Aggregate(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, actuals.GesamtStunden())
	require.Empty(t, actuals.Mitarbeiter)
}
