package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"parcel-track-api-server/internal/apperr"
	"parcel-track-api-server/internal/models"
)

func TestDefaultPolicy_allowsEverything(t *testing.T) {
	p := DefaultPolicy()
	for _, from := range models.AllStatuses() {
		for _, to := range models.AllStatuses() {
			noop, err := p.Check(from, to)
			require.NoError(t, err)
			require.Equal(t, from == to, noop)
		}
	}
}

func TestStrictPolicy(t *testing.T) {
	p := StrictPolicy()

	noop, err := p.Check(models.StatusPending, models.StatusInTransit)
	require.NoError(t, err)
	require.False(t, noop)

	noop, err = p.Check(models.StatusInTransit, models.StatusDelivered)
	require.NoError(t, err)
	require.False(t, noop)

	_, err = p.Check(models.StatusDelivered, models.StatusPending)
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = p.Check(models.StatusCancelled, models.StatusInTransit)
	require.Error(t, err)

	// Same status stays a no-op even on terminal states.
	noop, err = p.Check(models.StatusDelivered, models.StatusDelivered)
	require.NoError(t, err)
	require.True(t, noop)
}

func TestCheck_rejectsUnknownStatus(t *testing.T) {
	_, err := DefaultPolicy().Check(models.StatusPending, "lost")
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Equal(t, []string{"status"}, apperr.FieldsOf(err))
}

func TestFilterByStatus(t *testing.T) {
	parcels := []models.Parcel{
		{TrackingNumber: "TRKAAAAAAAA", Status: models.StatusPending},
		{TrackingNumber: "TRKBBBBBBBB", Status: models.StatusDelivered},
		{TrackingNumber: "TRKCCCCCCCC", Status: models.StatusPending},
	}

	require.Len(t, FilterByStatus(parcels, models.StatusPending), 2)
	require.Len(t, FilterByStatus(parcels, models.StatusDelivered), 1)
	require.Empty(t, FilterByStatus(parcels, models.StatusCancelled))
	require.Len(t, FilterByStatus(parcels, FilterAll), 3)
	require.Len(t, FilterByStatus(parcels, ""), 3)
}

func TestCounts(t *testing.T) {
	parcels := []models.Parcel{
		{Status: models.StatusPending},
		{Status: models.StatusPending},
		{Status: models.StatusInTransit},
	}

	counts := Counts(parcels)
	require.Equal(t, 3, counts[FilterAll])
	require.Equal(t, 2, counts[models.StatusPending])
	require.Equal(t, 1, counts[models.StatusInTransit])
	require.Equal(t, 0, counts[models.StatusDelivered])
	require.Equal(t, 0, counts[models.StatusCancelled])
}

func TestSearch(t *testing.T) {
	parcels := []models.Parcel{
		{TrackingNumber: "TRKABC123", Title: "Phone"},
		{TrackingNumber: "TRKXYZ987", Title: "Laptop"},
	}

	got := Search(parcels, "abc")
	require.Len(t, got, 1)
	require.Equal(t, "TRKABC123", got[0].TrackingNumber)

	require.Len(t, Search(parcels, ""), 2)

	// case-insensitive, matches titles too
	got = Search(parcels, "LAPTOP")
	require.Len(t, got, 1)
	require.Equal(t, "TRKXYZ987", got[0].TrackingNumber)

	require.Empty(t, Search(parcels, "missing"))
}
