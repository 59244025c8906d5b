package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ridelink/internal/core/cache"
	"ridelink/internal/domain"
	"ridelink/internal/service"
	httpez "ridelink/internal/transport/http/ez"
)

func mountRideActions(authed *gin.RouterGroup, d *Deps) {
	ezA := httpez.New(authed)

	// 发单
	type createIn struct {
		FromText    string    `json:"fromText"    binding:"required,max=255"`
		FromLat     float64   `json:"fromLat"`
		FromLon     float64   `json:"fromLon"`
		ToText      string    `json:"toText"      binding:"required,max=255"`
		ToLat       float64   `json:"toLat"`
		ToLon       float64   `json:"toLon"`
		ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
		RiderName   string    `json:"riderName"   binding:"omitempty,max=64"`
		RiderPhone  *string   `json:"riderPhone"`
		Note        *string   `json:"note"`
	}
	httpez.RegisterAction[createIn, domain.Ride](ezA, d.DB, httpez.Action[createIn, domain.Ride]{
		Method: http.MethodPost,
		Path:   "/rides",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *createIn) (domain.Ride, error) {
			ride, err := d.Rides.Create(c, c.GetString("userId"), service.CreateRideInput{
				FromText:    strings.TrimSpace(in.FromText),
				FromLat:     in.FromLat,
				FromLon:     in.FromLon,
				ToText:      strings.TrimSpace(in.ToText),
				ToLat:       in.ToLat,
				ToLon:       in.ToLon,
				ScheduledAt: in.ScheduledAt,
				RiderName:   strings.TrimSpace(in.RiderName),
				RiderPhone:  in.RiderPhone,
				Note:        in.Note,
			})
			if errors.Is(err, service.ErrBadRideInput) {
				return domain.Ride{}, httpez.BadRequest(err.Error())
			}
			if err != nil {
				return domain.Ride{}, httpez.FromDomain(err)
			}
			return *ride, nil
		},
	})

	// 我的行程（发起的 + 接下的）
	httpez.RegisterAction[struct{}, []domain.Ride](ezA, d.DB, httpez.Action[struct{}, []domain.Ride]{
		Method: http.MethodGet,
		Path:   "/rides",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]domain.Ride, error) {
			out, err := d.Rides.MyRides(c, c.GetString("userId"))
			return out, httpez.FromDomain(err)
		},
	})

	// 可接行程：accepted 联系人发起的 pending 单。
	// 短 TTL 缓存，接受窗口内的陈旧由 accept 时的条件写兜底。
	httpez.RegisterAction[struct{}, []domain.Ride](ezA, d.DB, httpez.Action[struct{}, []domain.Ride]{
		Method: http.MethodGet,
		Path:   "/rides/available",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]domain.Ride, error) {
			uid := c.GetString("userId")
			if d.Cache == nil {
				out, err := d.Rides.AvailableRides(c, uid)
				return out, httpez.FromDomain(err)
			}
			out, err := cache.GetOrLoadJSON[[]domain.Ride](d.Cache, c,
				cache.KeyAvailableRides(uid), d.dashboardTTL(),
				func(ctx context.Context) (*[]domain.Ride, error) {
					rides, e := d.Rides.AvailableRides(ctx, uid)
					if e != nil {
						return nil, e
					}
					return &rides, nil
				})
			if err != nil {
				return nil, httpez.FromDomain(err)
			}
			if out == nil {
				return []domain.Ride{}, nil
			}
			return *out, nil
		},
	})

	// 详情（仅参与方）
	httpez.RegisterAction[struct{}, domain.Ride](ezA, d.DB, httpez.Action[struct{}, domain.Ride]{
		Method: http.MethodGet,
		Path:   "/rides/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (domain.Ride, error) {
			ride, err := d.Rides.Get(c, c.Param("id"), c.GetString("userId"))
			if err != nil {
				return domain.Ride{}, httpez.FromDomain(err)
			}
			return *ride, nil
		},
	})

	// 状态迁移动作，四个同构，handler 换一个方法
	transition := func(path string, fn func(ctx context.Context, rideID, actorID string) (*domain.Ride, error)) {
		httpez.RegisterAction[struct{}, domain.Ride](ezA, d.DB, httpez.Action[struct{}, domain.Ride]{
			Method: http.MethodPost,
			Path:   path,
			Binder: httpez.BindNone,
			Auth:   true,
			Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (domain.Ride, error) {
				ride, err := fn(c, c.Param("id"), c.GetString("userId"))
				if err != nil {
					return domain.Ride{}, httpez.FromDomain(err)
				}
				return *ride, nil
			},
		})
	}
	transition("/rides/:id/accept", d.Rides.Accept)
	transition("/rides/:id/cancel-offer", d.Rides.CancelOffer)
	transition("/rides/:id/cancel", d.Rides.Cancel)
	transition("/rides/:id/complete", d.Rides.Complete)
}
