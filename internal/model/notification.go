package model

import "time"

const (
	NotificationTypeMaterialRequest = "material_request"
	NotificationTypeMaterialUpdate  = "material_update"
	NotificationTypeOrderUpdate     = "order_update"
	NotificationTypeStockAlert      = "stock_alert"
)

const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification is an addressed, read/unread message. RelatedType/RelatedID
// weakly reference the domain entity that triggered it; the reference is for
// lookup only and carries no integrity constraint.
type Notification struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UserID      uint64    `gorm:"column:user_id;index;not null"`
	Type        string    `gorm:"column:type;size:64;not null"`
	Title       string    `gorm:"column:title;size:255"`
	Message     string    `gorm:"column:message;type:text"`
	RelatedType string    `gorm:"column:related_type;size:64"`
	RelatedID   *uint64   `gorm:"column:related_id;index"`
	Priority    string    `gorm:"column:priority;size:16;default:normal"`
	IsRead      bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
