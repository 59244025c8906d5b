package router

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ridelink/internal/core/auth"
	"ridelink/internal/core/cache"
	"ridelink/internal/core/config"
	"ridelink/internal/domain"
	"ridelink/internal/repo"
	"ridelink/internal/service"
)

// Deps 两个 engine 共用的装配物。Cache 可为 nil（本地起不带 redis 也能跑，
// 只是仪表盘接口退化成每次回源）。
type Deps struct {
	Log   *zap.Logger
	DB    *gorm.DB
	JWT   *auth.JWTer
	Cache *cache.Cache
	Cfg   *config.Config

	Users    *service.UserService
	Contacts *service.ContactService
	Rides    *service.RideService
	Suggest  *service.SuggestService

	// 管理端直接走仓储（List/SetVerified 不在领域接口上）
	UserRepo *repo.UserRepo
	Notifs   domain.NotificationRepository
	Notifier service.Notifier
}

func (d *Deps) dashboardTTL() time.Duration {
	return time.Duration(d.Cfg.Notify.DashboardTTLSec) * time.Second
}

func (d *Deps) unreadTTL() time.Duration {
	return time.Duration(d.Cfg.Notify.UnreadTTLMin) * time.Minute
}
