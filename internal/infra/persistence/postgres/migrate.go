package postgres

import (
	"context"

	"ferremas/internal/errors"
	"ferremas/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// Migrate creates or updates every table owned by the service.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "failed to auto-migrate schema")
	}

	return nil
}
