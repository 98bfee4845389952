// Package model holds the GORM persistence models.
package model

// All returns every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&AuthenticationModel{},
		&RefreshTokenModel{},
		&CategoryModel{},
		&SubCategoryModel{},
		&ProductModel{},
		&PriceHistoryModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&WebpayTransactionModel{},
		&StoreModel{},
	}
}
