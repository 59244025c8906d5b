package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ridelink/internal/core/cache"
	"ridelink/internal/domain"
	"ridelink/pkg/utils"
)

// Notifier 状态迁移成功后的旁路通知，fire-and-forget：
// 投递失败只打日志，绝不回滚触发它的迁移。
type Notifier interface {
	Notify(ctx context.Context, userID, message, typ, relatedID string)
}

// DBNotifier 落库 + 未读计数缓存，可选抄送运营名单。
type DBNotifier struct {
	Repo      domain.NotificationRepository
	Cache     *cache.Cache // 可为 nil（测试或未接 redis）
	Log       *zap.Logger
	AdminIDs  []string
	UnreadTTL time.Duration
}

func (n *DBNotifier) Notify(ctx context.Context, userID, message, typ, relatedID string) {
	n.deliver(ctx, userID, message, typ, relatedID)
	// 广播本来就是全员投递，不再抄送
	if typ == domain.NotifyBroadcast {
		return
	}
	for _, admin := range n.AdminIDs {
		if admin == userID {
			continue
		}
		n.deliver(ctx, admin, message, typ, relatedID)
	}
}

func (n *DBNotifier) deliver(ctx context.Context, userID, message, typ, relatedID string) {
	rec := &domain.Notification{
		ID:      utils.NewID(),
		UserID:  userID,
		Message: message,
		Type:    typ,
	}
	if relatedID != "" {
		rec.RelatedID = &relatedID
	}
	if err := n.Repo.Append(ctx, rec); err != nil {
		n.Log.Warn("notification dropped",
			zap.String("user", userID), zap.String("type", typ), zap.Error(err))
		return
	}
	if n.Cache != nil {
		n.Cache.IncrUnread(ctx, userID, n.UnreadTTL)
	}
}

// NopNotifier 测试用
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, string, string, string) {}
