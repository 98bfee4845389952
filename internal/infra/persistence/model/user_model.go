package model

import (
	"time"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"type:varchar(80);uniqueIndex;not null"`
	Email     string `gorm:"type:varchar(120);uniqueIndex;not null"`
	IsActive  bool   `gorm:"not null"`
	IsAdmin   bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Authentications []AuthenticationModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RefreshTokens   []RefreshTokenModel   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CartItems       []CartItemModel       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
