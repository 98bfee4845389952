package model

// StoreModel mirrors the 'stores' table.
type StoreModel struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"type:varchar(100);not null;uniqueIndex"`
	Address   string  `gorm:"type:varchar(255);not null"`
	City      string  `gorm:"type:varchar(100)"`
	Phone     string  `gorm:"type:varchar(30)"`
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (StoreModel) TableName() string {
	return "stores"
}
