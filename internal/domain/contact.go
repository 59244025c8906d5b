package domain

import (
	"context"
	"time"
)

// 联系人关系状态
const (
	ContactStatusPending  = "pending"
	ContactStatusAccepted = "accepted"
)

// Contact 双向关系按有序对存储：UserA < UserB（字典序），
// 这样无序对唯一性就是一条复合唯一索引，不需要 (a,b)/(b,a) 的 OR 去重。
// RequestedBy 记录发起方向。
type Contact struct {
	ID          string `gorm:"primaryKey;size:32" json:"id"`
	UserA       string `gorm:"column:user_a;size:32;not null;uniqueIndex:idx_contact_pair,priority:1;index" json:"-"`
	UserB       string `gorm:"column:user_b;size:32;not null;uniqueIndex:idx_contact_pair,priority:2;index" json:"-"`
	RequestedBy string `gorm:"size:32;not null" json:"requestedBy"`
	Status      string `gorm:"size:16;not null;default:pending" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Contact) TableName() string { return "contacts" }

// NewContact 规范化无序对后构造一条 pending 边。
func NewContact(id, initiator, target string) *Contact {
	a, b := initiator, target
	if b < a {
		a, b = b, a
	}
	return &Contact{
		ID:          id,
		UserA:       a,
		UserB:       b,
		RequestedBy: initiator,
		Status:      ContactStatusPending,
	}
}

// Involves 用户是否是这条边的一端。
func (c *Contact) Involves(uid string) bool {
	return c.UserA == uid || c.UserB == uid
}

// OtherParty 返回对端；uid 不在边上时返回空串。
func (c *Contact) OtherParty(uid string) string {
	switch uid {
	case c.UserA:
		return c.UserB
	case c.UserB:
		return c.UserA
	}
	return ""
}

// AddressedTo 返回被请求方，即唯一有权 accept 的一方。
func (c *Contact) AddressedTo() string {
	return c.OtherParty(c.RequestedBy)
}

type ContactRepository interface {
	// Create 无序对已存在任意状态的边时返回 ErrDuplicateEdge。
	Create(ctx context.Context, c *Contact) error
	FindByID(ctx context.Context, id string) (*Contact, error)
	// Accept 条件更新 pending→accepted；已处理过返回 ErrInvalidState。
	Accept(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	// EdgesOf 返回用户作为任一端的全部边，不按状态过滤。
	EdgesOf(ctx context.Context, userID string) ([]Contact, error)
	// EdgesTouching 返回任一端落在 ids 里且状态匹配的边（二跳遍历用）。
	EdgesTouching(ctx context.Context, ids []string, status string) ([]Contact, error)
	DeleteAllOf(ctx context.Context, userID string) error
}
