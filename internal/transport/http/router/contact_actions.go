package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ridelink/internal/core/cache"
	"ridelink/internal/domain"
	"ridelink/internal/service"
	httpez "ridelink/internal/transport/http/ez"
)

// contactOut 边在接口上的形态：对端 + 方向 + 状态。
// 存储里的有序对 (user_a, user_b) 不外漏。
type contactOut struct {
	ID          string `json:"id"`
	OtherUserID string `json:"otherUserId"`
	RequestedBy string `json:"requestedBy"`
	Status      string `json:"status"`
}

func toContactOut(e *domain.Contact, viewerID string) contactOut {
	return contactOut{
		ID:          e.ID,
		OtherUserID: e.OtherParty(viewerID),
		RequestedBy: e.RequestedBy,
		Status:      e.Status,
	}
}

func mountContactActions(authed *gin.RouterGroup, d *Deps) {
	ezA := httpez.New(authed)

	// 发起联系人请求（按手机号）
	type requestIn struct {
		Phone string `json:"phone" binding:"required"`
	}
	httpez.RegisterAction[requestIn, contactOut](ezA, d.DB, httpez.Action[requestIn, contactOut]{
		Method: http.MethodPost,
		Path:   "/contacts",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *requestIn) (contactOut, error) {
			uid := c.GetString("userId")
			edge, err := d.Contacts.Request(c, uid, strings.TrimSpace(in.Phone))
			if err != nil {
				return contactOut{}, httpez.FromDomain(err)
			}
			return toContactOut(edge, uid), nil
		},
	})

	// 我的联系人（?status=pending|accepted，不传则全部）
	type listIn struct {
		Status string `form:"status" binding:"omitempty,oneof=pending accepted"`
	}
	httpez.RegisterAction[listIn, []contactOut](ezA, d.DB, httpez.Action[listIn, []contactOut]{
		Method: http.MethodGet,
		Path:   "/contacts",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *listIn) ([]contactOut, error) {
			uid := c.GetString("userId")
			edges, err := d.Contacts.List(c, uid, in.Status)
			if err != nil {
				return nil, httpez.FromDomain(err)
			}
			out := make([]contactOut, 0, len(edges))
			for i := range edges {
				out = append(out, toContactOut(&edges[i], uid))
			}
			return out, nil
		},
	})

	// 接受请求（只有被请求方可以）
	httpez.RegisterAction[struct{}, contactOut](ezA, d.DB, httpez.Action[struct{}, contactOut]{
		Method: http.MethodPost,
		Path:   "/contacts/:id/accept",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (contactOut, error) {
			uid := c.GetString("userId")
			edge, err := d.Contacts.Accept(c, c.Param("id"), uid)
			if err != nil {
				return contactOut{}, httpez.FromDomain(err)
			}
			return toContactOut(edge, uid), nil
		},
	})

	// 删除边（任一方）
	httpez.RegisterAction[struct{}, gin.H](ezA, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/contacts/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			if err := d.Contacts.Remove(c, c.Param("id"), c.GetString("userId")); err != nil {
				return nil, httpez.FromDomain(err)
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})

	// 推荐列表。纯读且较贵，短 TTL 缓存 + singleflight 合并回源。
	httpez.RegisterAction[struct{}, []service.Suggestion](ezA, d.DB, httpez.Action[struct{}, []service.Suggestion]{
		Method: http.MethodGet,
		Path:   "/contacts/suggestions",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]service.Suggestion, error) {
			uid := c.GetString("userId")
			if d.Cache == nil {
				out, err := d.Suggest.Suggest(c, uid)
				return out, httpez.FromDomain(err)
			}
			out, err := cache.GetOrLoadJSON[[]service.Suggestion](d.Cache, c,
				cache.KeySuggestions(uid), d.dashboardTTL(),
				func(ctx context.Context) (*[]service.Suggestion, error) {
					sugs, e := d.Suggest.Suggest(ctx, uid)
					if e != nil {
						return nil, e
					}
					return &sugs, nil
				})
			if err != nil {
				return nil, httpez.FromDomain(err)
			}
			if out == nil {
				return []service.Suggestion{}, nil
			}
			return *out, nil
		},
	})
}
