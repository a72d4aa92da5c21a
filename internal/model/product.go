package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement"`
	Name       string          `gorm:"size:120;not null"`
	SKU        string          `gorm:"column:sku;size:64;uniqueIndex;not null"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock      int64           `gorm:"not null;default:0"`
	MinStock   int64           `gorm:"column:min_stock;not null;default:0"`
	SupplierID uint64          `gorm:"column:supplier_id;index;not null"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
