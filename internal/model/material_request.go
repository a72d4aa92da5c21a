package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MaterialRequestStatus string

const (
	MaterialRequestStatusPending   MaterialRequestStatus = "pending"
	MaterialRequestStatusApproved  MaterialRequestStatus = "approved"
	MaterialRequestStatusRejected  MaterialRequestStatus = "rejected"
	MaterialRequestStatusDelivered MaterialRequestStatus = "delivered"
)

// MaterialRequest is an admin-initiated restock request addressed to a
// supplier. Status transitions are driven by the supplier.
type MaterialRequest struct {
	ID          uint64                `gorm:"primaryKey;autoIncrement"`
	ProductID   uint64                `gorm:"column:product_id;index;not null"`
	SupplierID  uint64                `gorm:"column:supplier_id;index;not null"`
	RequestedBy uint64                `gorm:"column:requested_by;index;not null"`
	Quantity    decimal.Decimal       `gorm:"type:decimal(12,3);not null"`
	Status      MaterialRequestStatus `gorm:"size:32;not null"`
	Note        string                `gorm:"type:text"`
	CreatedAt   time.Time             `gorm:"autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"autoUpdateTime"`
}

func (MaterialRequest) TableName() string {
	return "material_requests"
}
