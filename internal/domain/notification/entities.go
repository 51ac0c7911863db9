package notification

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

type Kind string

const (
	KindRequest  Kind = "REQUEST"
	KindApproved Kind = "APPROVED"
	KindRejected Kind = "REJECTED"
	KindDueSoon  Kind = "DUE_SOON"
	KindOverdue  Kind = "OVERDUE"
	KindExtended Kind = "EXTENDED"
)

// Table: notifications
type Notification struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	NotificationID string    `gorm:"column:notification_id;size:32;uniqueIndex;not null" json:"notification_id"`
	RecipientID    uint64    `gorm:"column:recipient_id;not null;index:idx_notifications_recipient" json:"-"`
	Kind           Kind      `gorm:"column:kind;size:16;not null" json:"kind"`
	Message        string    `gorm:"column:message;type:text;not null" json:"message"`
	URL            string    `gorm:"column:url;size:255" json:"url"`
	LoanID         *uint64   `gorm:"column:loan_id;index" json:"-"`
	Read           bool      `gorm:"column:is_read;not null;index:idx_notifications_recipient" json:"read"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
