package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	OrderNumber string          `gorm:"column:order_number;size:64;uniqueIndex;not null"`
	CustomerID  uint64          `gorm:"column:customer_id;index;not null"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2);not null"`
	Status      OrderStatus     `gorm:"size:32;not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}
