package history

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestStore_SaveAndGetCloses(t *testing.T) {
	store := newTestStore(t)

	prices := []PricePoint{
		{Date: "2024-01-03", Close: 99.0},
		{Date: "2024-01-01", Close: 100.0},
		{Date: "2024-01-02", Close: 110.0},
	}
	require.NoError(t, store.SavePrices("AAA", prices))

	got, err := store.GetCloses("AAA", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ascending date order regardless of insert order
	assert.Equal(t, "2024-01-01", got[0].Date)
	assert.Equal(t, "2024-01-02", got[1].Date)
	assert.Equal(t, "2024-01-03", got[2].Date)
	assert.Equal(t, 110.0, got[1].Close)
}

func TestStore_SavePrices_UpsertsByDate(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SavePrices("AAA", []PricePoint{{Date: "2024-01-01", Close: 100.0}}))
	require.NoError(t, store.SavePrices("AAA", []PricePoint{{Date: "2024-01-01", Close: 105.0}}))

	got, err := store.GetCloses("AAA", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 105.0, got[0].Close)
}

func TestStore_GetCloses_LimitReturnsMostRecentWindow(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SavePrices("AAA", []PricePoint{
		{Date: "2024-01-01", Close: 100.0},
		{Date: "2024-01-02", Close: 101.0},
		{Date: "2024-01-03", Close: 102.0},
		{Date: "2024-01-04", Close: 103.0},
	}))

	got, err := store.GetCloses("AAA", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// The most recent two days, still oldest-first
	assert.Equal(t, "2024-01-03", got[0].Date)
	assert.Equal(t, "2024-01-04", got[1].Date)
}

func TestStore_GetCloses_UnknownSymbolIsEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetCloses("NOPE", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_SymbolsAreIsolated(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SavePrices("AAA", []PricePoint{{Date: "2024-01-01", Close: 1.0}}))
	require.NoError(t, store.SavePrices("BRK/B", []PricePoint{{Date: "2024-01-01", Close: 2.0}}))

	aaa, err := store.GetCloses("AAA", 0)
	require.NoError(t, err)
	brk, err := store.GetCloses("BRK/B", 0)
	require.NoError(t, err)

	assert.Equal(t, 1.0, aaa[0].Close)
	assert.Equal(t, 2.0, brk[0].Close)
}
