package repository

import "context"

// TransactionManager lets the use case layer run several repository calls atomically
// without depending on a specific DB driver.
type TransactionManager interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back. Otherwise, it's committed.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to a single transaction.
type RepositoryFactory interface {
	UserRepo() UserRepository
	AuthRepo() AuthRepository
	RefreshTokenRepo() RefreshTokenRepository
	CategoryRepo() CategoryRepository
	ProductRepo() ProductRepository
	CartRepo() CartRepository
	OrderRepo() OrderRepository
	PaymentRepo() PaymentRepository
}
