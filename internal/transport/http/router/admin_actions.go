package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ridelink/internal/domain"
	httpez "ridelink/internal/transport/http/ez"
)

func mountAdminActions(admin *gin.RouterGroup, d *Deps) {
	ezAdmin := httpez.New(admin)

	// 用户列表/搜索
	type listIn struct {
		Q           string `form:"q"    binding:"omitempty,max=191"`
		Page        int    `form:"page" binding:"omitempty,min=1"`
		Size        int    `form:"size" binding:"omitempty,min=1,max=100"`
		WithDeleted bool   `form:"withDeleted"`
	}
	type listOut struct {
		List  []domain.User `json:"list"`
		Total int64         `json:"total"`
		Page  int           `json:"page"`
		Size  int           `json:"size"`
	}
	httpez.RegisterAction[listIn, listOut](ezAdmin, d.DB, httpez.Action[listIn, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, _ *gorm.DB, in *listIn) (listOut, error) {
			page, size := in.Page, in.Size
			if page <= 0 {
				page = 1
			}
			if size <= 0 {
				size = 20
			}
			users, total, err := d.UserRepo.List(c, strings.TrimSpace(in.Q), (page-1)*size, size, in.WithDeleted)
			if err != nil {
				return listOut{}, httpez.FromDomain(err)
			}
			return listOut{List: users, Total: total, Page: page, Size: size}, nil
		},
	})

	// 封禁：复用注销级联（软删 + 收口该用户的边和行程）
	httpez.RegisterAction[struct{}, gin.H](ezAdmin, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := d.Users.Delete(c, id); err != nil {
				return nil, httpez.FromDomain(err)
			}
			return gin.H{"id": id}, nil
		},
	})

	// 人工核验标记
	httpez.RegisterAction[struct{}, gin.H](ezAdmin, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/verify",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := d.UserRepo.SetVerified(c, id); err != nil {
				return nil, httpez.FromDomain(err)
			}
			return gin.H{"id": id}, nil
		},
	})

	// 全员广播
	type broadcastIn struct {
		Message string `json:"message" binding:"required,max=500"`
	}
	httpez.RegisterAction[broadcastIn, gin.H](ezAdmin, d.DB, httpez.Action[broadcastIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/broadcast",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, _ *gorm.DB, in *broadcastIn) (gin.H, error) {
			ids, err := d.UserRepo.ListIDs(c)
			if err != nil {
				return nil, httpez.FromDomain(err)
			}
			for _, id := range ids {
				d.Notifier.Notify(c, id, in.Message, domain.NotifyBroadcast, "")
			}
			return gin.H{"sent": len(ids)}, nil
		},
	})

	// 清理历史通知（保留期之前的）
	httpez.RegisterAction[struct{}, gin.H](ezAdmin, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/notifications/prune",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			cutoff := time.Now().AddDate(0, 0, -d.Cfg.Notify.RetentionDays)
			n, err := d.Notifs.PruneOlderThan(c, cutoff)
			if err != nil {
				return nil, httpez.FromDomain(err)
			}
			return gin.H{"pruned": n}, nil
		},
	})
}
