package history

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfcastro/riskdash/internal/domain"
)

// newTestService wires a service around a preloaded store; the upstream
// client and tracking database are never touched when every cache is warm.
func newTestService(t *testing.T) (*Service, *Store) {
	t.Helper()
	store := newTestStore(t)
	svc := NewService(store, nil, nil, "6mo", zerolog.Nop())
	return svc, store
}

func TestService_ReturnSeries(t *testing.T) {
	svc, store := newTestService(t)

	require.NoError(t, store.SavePrices("AAA", []PricePoint{
		{Date: "2024-01-01", Close: 100.0},
		{Date: "2024-01-02", Close: 110.0},
		{Date: "2024-01-03", Close: 99.0},
		{Date: "2024-01-04", Close: 101.0},
	}))
	// BBB has no 2024-01-01 close; that date drops out of the join
	require.NoError(t, store.SavePrices("BBB", []PricePoint{
		{Date: "2024-01-02", Close: 50.0},
		{Date: "2024-01-03", Close: 55.0},
		{Date: "2024-01-04", Close: 55.0},
	}))

	rs, err := svc.ReturnSeries([]string{"AAA", "BBB"})
	require.NoError(t, err)

	assert.Equal(t, []string{"AAA", "BBB"}, rs.Symbols)
	assert.Equal(t, []string{"2024-01-03", "2024-01-04"}, rs.Dates)
	require.Len(t, rs.Rows, 2)

	// First shared interval: AAA 110 -> 99, BBB 50 -> 55
	assert.InDelta(t, -0.10, rs.Rows[0][0], 1e-12)
	assert.InDelta(t, 0.10, rs.Rows[0][1], 1e-12)

	// Second interval: AAA 99 -> 101, BBB flat
	assert.InDelta(t, 2.0/99.0, rs.Rows[1][0], 1e-12)
	assert.InDelta(t, 0.0, rs.Rows[1][1], 1e-12)
}

func TestService_ReturnSeries_EmptyUniverse(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ReturnSeries(nil)

	var invalidInput *domain.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput)
}

func TestService_ReturnSeries_TooFewSharedDates(t *testing.T) {
	svc, store := newTestService(t)

	require.NoError(t, store.SavePrices("AAA", []PricePoint{
		{Date: "2024-01-01", Close: 100.0},
		{Date: "2024-01-02", Close: 101.0},
	}))
	require.NoError(t, store.SavePrices("BBB", []PricePoint{
		{Date: "2024-01-02", Close: 50.0},
		{Date: "2024-01-03", Close: 51.0},
	}))

	// Only one shared date: no return can be computed
	_, err := svc.ReturnSeries([]string{"AAA", "BBB"})

	var insufficient *domain.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Observations)
}
