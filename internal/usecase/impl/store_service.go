package impl

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/repository"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"go.uber.org/fx"
)

type storeService struct {
	storeRepo repository.StoreRepository
	logger    *slog.Logger
}

// StoreServiceParams holds dependencies for StoreService, injected by Fx.
type StoreServiceParams struct {
	fx.In

	StoreRepo repository.StoreRepository
	Logger    *slog.Logger
}

func NewStoreService(params StoreServiceParams) usecase.StoreUsecase {
	return &storeService{storeRepo: params.StoreRepo, logger: params.Logger}
}

func (srv *storeService) ListStores(ctx context.Context) ([]*entity.Store, error) {
	stores, err := srv.storeRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}

	return stores, nil
}

// NearestStores returns at most limit stores, closest first. A limit of zero returns all.
func (srv *storeService) NearestStores(ctx context.Context, lat, lng float64, limit int) ([]*entity.StoreDistance, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, domainerrors.ErrInvalidCoordinates
	}

	stores, err := srv.ListStores(ctx)
	if err != nil {
		return nil, err
	}

	origin := orb.Point{lng, lat}
	result := make([]*entity.StoreDistance, 0, len(stores))
	for _, store := range stores {
		meters := geo.Distance(origin, orb.Point{store.Longitude, store.Latitude})
		result = append(result, &entity.StoreDistance{
			Store:      store,
			DistanceKm: math.Round(meters/10) / 100,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DistanceKm < result[j].DistanceKm
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
