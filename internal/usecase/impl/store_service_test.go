package impl

import (
	"context"
	"math"
	"testing"

	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreService_NearestStores(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	srv := NewStoreService(StoreServiceParams{StoreRepo: repos.stores, Logger: discardLogger()})

	for _, store := range []*entity.Store{
		{Name: "Ferremas Concepción", City: "Concepción", Latitude: -36.8270, Longitude: -73.0503},
		{Name: "Ferremas Santiago Centro", City: "Santiago", Latitude: -33.4489, Longitude: -70.6693},
		{Name: "Ferremas Viña del Mar", City: "Viña del Mar", Latitude: -33.0245, Longitude: -71.5518},
	} {
		require.NoError(t, repos.stores.Create(ctx, store))
	}

	// Plaza Italia, Santiago.
	nearest, err := srv.NearestStores(ctx, -33.4372, -70.6342, 2)
	require.NoError(t, err)
	require.Len(t, nearest, 2)
	assert.Equal(t, "Ferremas Santiago Centro", nearest[0].Store.Name)
	assert.InDelta(t, 3.5, nearest[0].DistanceKm, 0.5)
	assert.Equal(t, "Ferremas Viña del Mar", nearest[1].Store.Name)
	assert.InDelta(t, 95, nearest[1].DistanceKm, 10)

	all, err := srv.NearestStores(ctx, -36.8, -73.0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ferremas Concepción", all[0].Store.Name)
}

func TestStoreService_NearestStoresRejectsCoordinates(t *testing.T) {
	repos := newTestRepos(t)
	srv := NewStoreService(StoreServiceParams{StoreRepo: repos.stores, Logger: discardLogger()})

	for _, c := range [][2]float64{{91, 0}, {0, -181}, {math.NaN(), 0}} {
		_, err := srv.NearestStores(context.Background(), c[0], c[1], 1)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCoordinates))
	}
}
