package usecase

import (
	"context"

	"ferremas/internal/domain/entity"
)

// StoreUsecase lists pickup branches.
type StoreUsecase interface {
	ListStores(ctx context.Context) ([]*entity.Store, error)
	// NearestStores sorts branches by great-circle distance from (lat, lng).
	NearestStores(ctx context.Context, lat, lng float64, limit int) ([]*entity.StoreDistance, error)
}
