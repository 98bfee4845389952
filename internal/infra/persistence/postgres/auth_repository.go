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

type authRepository struct {
	db *gorm.DB
}

// NewAuthRepository creates a new auth repository.
func NewAuthRepository(db *gorm.DB) repository.AuthRepository {
	return &authRepository{db: db}
}

func (repo *authRepository) CreateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	authM := &model.AuthenticationModel{
		UserID:         auth.UserID,
		Provider:       string(auth.Provider),
		ProviderUserID: auth.ProviderUserID,
		PasswordHash:   auth.PasswordHash,
	}

	if err := repo.db.WithContext(ctx).Create(authM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("authentication already linked")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("authentication references unknown user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create authentication")
	}

	auth.ID = authM.ID
	auth.CreatedAt = authM.CreatedAt

	return nil
}

func (repo *authRepository) FindAuthentication(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error) {
	var authM model.AuthenticationModel
	err := repo.db.WithContext(ctx).
		Where("provider = ? AND provider_user_id = ?", string(provider), providerUserID).
		First(&authM).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrAuthNotFound
		}

		return nil, errors.Wrap(err, "failed to find authentication")
	}

	return &entity.Authentication{
		ID:             authM.ID,
		UserID:         authM.UserID,
		Provider:       entity.ProviderType(authM.Provider),
		ProviderUserID: authM.ProviderUserID,
		PasswordHash:   authM.PasswordHash,
		CreatedAt:      authM.CreatedAt,
	}, nil
}
