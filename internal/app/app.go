package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ridelink/internal/core/auth"
	"ridelink/internal/core/cache"
	"ridelink/internal/core/config"
	"ridelink/internal/core/database"
	"ridelink/internal/domain"
	"ridelink/internal/repo"
	"ridelink/internal/service"
	"ridelink/internal/transport/http/router"
)

// MustOpenDB 数据库（失败会直接 Fatal）
func MustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{}, &domain.Contact{}, &domain.Ride{},
			&domain.Notification{}, &domain.Place{},
		); err != nil {
			l.Fatal("automigrate failed", zap.Error(err))
		}
		l.Info("automigrate done")
	}
	return db
}

// BuildDeps 两个进程共用的装配。redis 连不上不是致命错误，
// 降级成无缓存模式继续跑。
func BuildDeps(cfg *config.Config, l *zap.Logger, db *gorm.DB) *router.Deps {
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	var cc *cache.Cache
	if cfg.Redis.Addr != "" {
		cc = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cc.Ping(ctx); err != nil {
			l.Warn("redis unreachable, running without cache", zap.Error(err))
			cc = nil
		}
	}

	users := repo.NewUserRepo(db)
	contacts := repo.NewContactRepo(db)
	rides := repo.NewRideRepo(db)
	notifs := repo.NewNotificationRepo(db)

	notifier := &service.DBNotifier{
		Repo:      notifs,
		Cache:     cc,
		Log:       l,
		AdminIDs:  cfg.Notify.AdminIDs,
		UnreadTTL: time.Duration(cfg.Notify.UnreadTTLMin) * time.Minute,
	}

	return &router.Deps{
		Log:   l,
		DB:    db,
		JWT:   jwter,
		Cache: cc,
		Cfg:   cfg,
		Users: &service.UserService{
			Users: users, Contacts: contacts, Rides: rides, Notifs: notifs, Log: l,
		},
		Contacts: &service.ContactService{
			Contacts: contacts, Users: users, Notifier: notifier, Log: l,
		},
		Rides: &service.RideService{
			Rides: rides, Contacts: contacts, Users: users, Notifier: notifier, Log: l,
		},
		Suggest: &service.SuggestService{
			Contacts: contacts, Rides: rides, Users: users, Limit: cfg.Suggest.Limit, Log: l,
		},
		UserRepo: users,
		Notifs:   notifs,
		Notifier: notifier,
	}
}
