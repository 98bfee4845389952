package postgres

import (
	"context"

	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/repository"
	"ferremas/internal/errors"
	"ferremas/internal/infra/persistence/model"

	"gorm.io/gorm"
)

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a new store repository.
func NewStoreRepository(db *gorm.DB) repository.StoreRepository {
	return &storeRepository{db: db}
}

func (repo *storeRepository) List(ctx context.Context) ([]*entity.Store, error) {
	var storesM []*model.StoreModel
	if err := repo.db.WithContext(ctx).Order("id").Find(&storesM).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}

	stores := make([]*entity.Store, 0, len(storesM))
	for _, s := range storesM {
		stores = append(stores, &entity.Store{
			ID:        s.ID,
			Name:      s.Name,
			Address:   s.Address,
			City:      s.City,
			Phone:     s.Phone,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
		})
	}

	return stores, nil
}

func (repo *storeRepository) Create(ctx context.Context, store *entity.Store) error {
	storeM := &model.StoreModel{
		Name:      store.Name,
		Address:   store.Address,
		City:      store.City,
		Phone:     store.Phone,
		Latitude:  store.Latitude,
		Longitude: store.Longitude,
	}
	if err := repo.db.WithContext(ctx).Create(storeM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create store")
	}

	store.ID = storeM.ID

	return nil
}
