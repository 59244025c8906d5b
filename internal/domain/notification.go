package domain

import (
	"context"
	"time"
)

// 通知类型标签
const (
	NotifyContactRequest     = "contact_request"
	NotifyContactAccepted    = "contact_accepted"
	NotifyRideAccepted       = "ride_accepted"
	NotifyRideOfferCancelled = "ride_offer_cancelled"
	NotifyRideCancelled      = "ride_cancelled"
	NotifyRideCompleted      = "ride_completed"
	NotifyBroadcast          = "broadcast"
)

// Notification 追加写；只有 IsRead 会被翻转。
type Notification struct {
	ID        string  `gorm:"primaryKey;size:32" json:"id"`
	UserID    string  `gorm:"size:32;not null;index:idx_notif_user_created,priority:1" json:"userId"`
	Message   string  `gorm:"size:500;not null" json:"message"`
	Type      string  `gorm:"size:32;not null" json:"type"`
	RelatedID *string `gorm:"size:32" json:"relatedId,omitempty"`
	IsRead    bool    `gorm:"not null;default:false" json:"isRead"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_notif_user_created,priority:2,sort:desc" json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

type NotificationRepository interface {
	Append(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Notification, int64, error)
	// MarkRead 只有收件人本人能翻转；目标不存在或不属于该用户返回 ErrNotFound。
	MarkRead(ctx context.Context, id, userID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
	// PruneOlderThan 按时间清理历史通知。
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteAllOf(ctx context.Context, userID string) error
}
