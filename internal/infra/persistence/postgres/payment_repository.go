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

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new Webpay transaction repository.
func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) Create(ctx context.Context, tx *entity.WebpayTransaction) error {
	txM := fromWebpayTransactionDomain(tx)
	if err := repo.db.WithContext(ctx).Omit("Order").Create(txM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrOrderNotFound
		}
		if isUniqueConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "duplicate webpay token")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create webpay transaction")
	}

	tx.ID = txM.ID
	tx.CreatedAt = txM.CreatedAt
	tx.UpdatedAt = txM.UpdatedAt

	return nil
}

// Update overwrites every mutable column of the transaction.
func (repo *paymentRepository) Update(ctx context.Context, tx *entity.WebpayTransaction) error {
	txM := fromWebpayTransactionDomain(tx)
	result := repo.db.WithContext(ctx).
		Model(&model.WebpayTransactionModel{ID: tx.ID}).
		Select("token", "status", "amount", "response_code", "authorization_code",
			"card_last_digits", "payment_type_code", "transaction_date", "updated_at").
		Updates(txM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update webpay transaction")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTransactionNotFound
	}

	return nil
}

func (repo *paymentRepository) FindByToken(ctx context.Context, token string) (*entity.WebpayTransaction, error) {
	if token == "" {
		return nil, repository.ErrTransactionNotFound
	}

	return repo.findOne(ctx, repo.db.WithContext(ctx).Where("token = ?", token))
}

func (repo *paymentRepository) FindByBuyOrder(ctx context.Context, buyOrder string) (*entity.WebpayTransaction, error) {
	return repo.findOne(ctx, repo.db.WithContext(ctx).Where("buy_order = ?", buyOrder).Order("id DESC"))
}

func (repo *paymentRepository) FindLatestByOrder(ctx context.Context, orderID uint) (*entity.WebpayTransaction, error) {
	return repo.findOne(ctx, repo.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id DESC"))
}

func (repo *paymentRepository) findOne(_ context.Context, query *gorm.DB) (*entity.WebpayTransaction, error) {
	var txM model.WebpayTransactionModel
	if err := query.First(&txM).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrTransactionNotFound
		}

		return nil, errors.Wrap(err, "failed to find webpay transaction")
	}

	return toWebpayTransactionDomain(&txM), nil
}

func toWebpayTransactionDomain(data *model.WebpayTransactionModel) *entity.WebpayTransaction {
	tx := &entity.WebpayTransaction{
		ID:                data.ID,
		OrderID:           data.OrderID,
		BuyOrder:          data.BuyOrder,
		SessionID:         data.SessionID,
		Amount:            data.Amount,
		Status:            entity.TransactionStatus(data.Status),
		ResponseCode:      data.ResponseCode,
		AuthorizationCode: data.AuthorizationCode,
		CardLastDigits:    data.CardLastDigits,
		PaymentTypeCode:   data.PaymentTypeCode,
		TransactionDate:   data.TransactionDate,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
	if data.Token != nil {
		tx.Token = *data.Token
	}

	return tx
}

func fromWebpayTransactionDomain(data *entity.WebpayTransaction) *model.WebpayTransactionModel {
	txM := &model.WebpayTransactionModel{
		ID:                data.ID,
		OrderID:           data.OrderID,
		BuyOrder:          data.BuyOrder,
		SessionID:         data.SessionID,
		Amount:            data.Amount,
		Status:            string(data.Status),
		ResponseCode:      data.ResponseCode,
		AuthorizationCode: data.AuthorizationCode,
		CardLastDigits:    data.CardLastDigits,
		PaymentTypeCode:   data.PaymentTypeCode,
		TransactionDate:   data.TransactionDate,
	}
	if data.Token != "" {
		token := data.Token
		txM.Token = &token
	}

	return txM
}
