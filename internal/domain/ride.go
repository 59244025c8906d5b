package domain

import (
	"context"
	"time"
)

// 行程状态，字面量跨端保持一致，不要改
const (
	RideStatusPending   = "pending"
	RideStatusAccepted  = "accepted"
	RideStatusCancelled = "cancelled"
	RideStatusCompleted = "completed"
)

// Ride 不变式：AccepterID 非空 ⇔ Status ∈ {accepted, completed}。
// 所有状态迁移都要维持这一点（取消时同时清掉 AccepterID）。
type Ride struct {
	ID          string  `gorm:"primaryKey;size:32" json:"id"`
	RequesterID string  `gorm:"size:32;not null;index" json:"requesterId"`
	AccepterID  *string `gorm:"size:32;index" json:"accepterId"`

	FromText string  `gorm:"size:255;not null" json:"fromText"`
	FromLat  float64 `json:"fromLat"`
	FromLon  float64 `json:"fromLon"`
	ToText   string  `gorm:"size:255;not null" json:"toText"`
	ToLat    float64 `json:"toLat"`
	ToLon    float64 `json:"toLon"`

	ScheduledAt time.Time `gorm:"not null;index" json:"scheduledAt"`
	Status      string    `gorm:"size:16;not null;default:pending;index" json:"status"`

	RiderName  string  `gorm:"size:64" json:"riderName"`
	RiderPhone *string `gorm:"size:20" json:"riderPhone,omitempty"`
	Note       *string `gorm:"size:500" json:"note,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Ride) TableName() string { return "rides" }

// Terminal cancelled/completed 之后不再迁移。
func (r *Ride) Terminal() bool {
	return r.Status == RideStatusCancelled || r.Status == RideStatusCompleted
}

// Participant 用户是否是发起方或当前接单方。
func (r *Ride) Participant(uid string) bool {
	if r.RequesterID == uid {
		return true
	}
	return r.AccepterID != nil && *r.AccepterID == uid
}

type RideRepository interface {
	Insert(ctx context.Context, r *Ride) error
	Get(ctx context.Context, id string) (*Ride, error)
	// UpdateStatus 按 expected 状态做条件更新（CAS）。没有命中任何行时
	// 返回 ErrConflict，由调用方判定是竞争失败还是状态已变。
	UpdateStatus(ctx context.Context, id, expected, next string, extra map[string]any) error
	ListByParticipant(ctx context.Context, userID string) ([]Ride, error)
	// ListPendingByRequesters 可见性过滤的存储侧：pending 且发起方 ∈ ids，
	// 按出发时间升序。
	ListPendingByRequesters(ctx context.Context, ids []string) ([]Ride, error)
	// ListTouching 任一参与方 ∈ ids 的行程（共同行程信号用）。
	ListTouching(ctx context.Context, ids []string) ([]Ride, error)
	// CloseAllOf 用户删除时的级联：其发起的未终态行程置 cancelled，
	// 其接下的行程退回 pending 并清空接单方。
	CloseAllOf(ctx context.Context, userID string) error
}
