package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ridelink/internal/core/cache"
	"ridelink/internal/domain"
	httpez "ridelink/internal/transport/http/ez"
)

func mountNotificationActions(authed *gin.RouterGroup, d *Deps) {
	ezA := httpez.New(authed)

	// 我的通知（新的在前）
	type listIn struct {
		Page int `form:"page" binding:"omitempty,min=1"`
		Size int `form:"size" binding:"omitempty,min=1,max=100"`
	}
	type listOut struct {
		List  []domain.Notification `json:"list"`
		Total int64                 `json:"total"`
		Page  int                   `json:"page"`
		Size  int                   `json:"size"`
	}
	httpez.RegisterAction[listIn, listOut](ezA, d.DB, httpez.Action[listIn, listOut]{
		Method: http.MethodGet,
		Path:   "/notifications",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *listIn) (listOut, error) {
			page, size := in.Page, in.Size
			if page <= 0 {
				page = 1
			}
			if size <= 0 {
				size = 20
			}
			list, total, err := d.Notifs.ListByUser(c, c.GetString("userId"), size, (page-1)*size)
			if err != nil {
				return listOut{}, httpez.FromDomain(err)
			}
			return listOut{List: list, Total: total, Page: page, Size: size}, nil
		},
	})

	// 标记已读（只有收件人本人）
	httpez.RegisterAction[struct{}, gin.H](ezA, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/notifications/:id/read",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			uid := c.GetString("userId")
			if err := d.Notifs.MarkRead(c, c.Param("id"), uid); err != nil {
				return nil, httpez.FromDomain(err)
			}
			// 已读后计数变了，直接清缓存，下次读回源
			if d.Cache != nil {
				_ = d.Cache.Del(c, cache.KeyUnread(uid))
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})

	// 未读数：redis 快路径，miss 回源 DB 并回填
	type countOut struct {
		Count int64 `json:"count"`
	}
	httpez.RegisterAction[struct{}, countOut](ezA, d.DB, httpez.Action[struct{}, countOut]{
		Method: http.MethodGet,
		Path:   "/notifications/unread-count",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (countOut, error) {
			uid := c.GetString("userId")
			if d.Cache != nil {
				if n, ok := d.Cache.GetUnread(c, uid); ok {
					return countOut{Count: n}, nil
				}
			}
			n, err := d.Notifs.CountUnread(c, uid)
			if err != nil {
				return countOut{}, httpez.FromDomain(err)
			}
			if d.Cache != nil {
				d.Cache.SetUnread(c, uid, n, d.unreadTTL())
			}
			return countOut{Count: n}, nil
		},
	})
}
