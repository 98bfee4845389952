package repository

import (
	"context"

	"ferremas/internal/domain/entity"
)

// StoreRepository lists physical branches.
type StoreRepository interface {
	List(ctx context.Context) ([]*entity.Store, error)
	Create(ctx context.Context, store *entity.Store) error
}
