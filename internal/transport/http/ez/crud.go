package ez

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	resp "ridelink/internal/transport/http/response"
	"ridelink/pkg/utils"
)

// CrudHooks 挂在通用 CRUD 上的业务钩子
type CrudHooks[T any] struct {
	BeforeCreate func(c *gin.Context, m *T) error
	BeforeUpdate func(c *gin.Context, m *T) error
	ScopeList    func(c *gin.Context, q *gorm.DB) *gorm.DB // 自定义筛选/排序
}

// CrudConfig 归属单一用户的资源的一揽子增删改查。
// 模型需要 string 类型的 ID 字段和 Owner 字段（默认找 UserID）。
type CrudConfig[T any] struct {
	DB    *gorm.DB
	Group *gin.RouterGroup // 已鉴权分组（能拿 userId）
	Path  string
	New   func() *T

	Hooks CrudHooks[T]

	OwnerField string // 默认 "UserID"
	OrderBy    string // 为空则 created_at DESC
}

func (c *CrudConfig[T]) ownerCandidates() []string {
	if c.OwnerField != "" {
		return []string{c.OwnerField, "UserID", "OwnerID"}
	}
	return []string{"UserID", "OwnerID"}
}

func strField(obj any, candidates []string) (*string, bool) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr {
		return nil, false
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		for _, cand := range candidates {
			if f.Name == cand {
				fv := v.Field(i)
				if fv.Kind() == reflect.String && fv.CanSet() {
					return fv.Addr().Interface().(*string), true
				}
			}
		}
	}
	return nil, false
}

func setStr(obj any, candidates []string, val string) bool {
	p, ok := strField(obj, candidates)
	if !ok {
		return false
	}
	*p = val
	return true
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// Crud 注册（模型无需实现任何接口）
func Crud[T any](cfg CrudConfig[T]) {
	idNames := []string{"ID", "Id"}
	ownerNames := cfg.ownerCandidates()

	ownerOf := func(c *gin.Context) (string, bool) {
		uid := c.GetString("userId")
		if uid == "" {
			c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
			return "", false
		}
		return uid, true
	}

	// Create
	cfg.Group.POST(cfg.Path, func(c *gin.Context) {
		uid, ok := ownerOf(c)
		if !ok {
			return
		}
		m := cfg.New()
		if err := c.ShouldBindJSON(m); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		if id, found := strField(m, idNames); !found {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "id field not found"))
			return
		} else if strings.TrimSpace(*id) == "" {
			*id = utils.NewID()
		}
		if !setStr(m, ownerNames, uid) {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "owner field not found"))
			return
		}
		if cfg.Hooks.BeforeCreate != nil {
			if err := cfg.Hooks.BeforeCreate(c, m); err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
		}
		if err := cfg.DB.WithContext(c).Create(m).Error; err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.OK(m))
	})

	// List（我的）
	cfg.Group.GET(cfg.Path, func(c *gin.Context) {
		uid, ok := ownerOf(c)
		if !ok {
			return
		}
		page := atoiDefault(c.Query("page"), 1)
		size := atoiDefault(c.Query("size"), 20)
		if size > 100 {
			size = 20
		}

		ownerFilter := cfg.New()
		if !setStr(ownerFilter, ownerNames, uid) {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "owner field not found"))
			return
		}
		q := cfg.DB.WithContext(c).Model(cfg.New()).Where(ownerFilter)
		if cfg.Hooks.ScopeList != nil {
			q = cfg.Hooks.ScopeList(c, q)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
			return
		}
		order := cfg.OrderBy
		if order == "" {
			order = "created_at DESC"
		}
		var items []T
		if err := q.Order(order).Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{
			"list": items, "total": total, "page": page, "size": size,
		}))
	})

	// Get
	cfg.Group.GET(cfg.Path+"/:id", func(c *gin.Context) {
		uid, ok := ownerOf(c)
		if !ok {
			return
		}
		filter := cfg.New()
		_ = setStr(filter, idNames, c.Param("id"))
		_ = setStr(filter, ownerNames, uid)

		m := cfg.New()
		if err := cfg.DB.WithContext(c).Where(filter).First(m).Error; err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
			return
		}
		c.JSON(http.StatusOK, resp.OK(m))
	})

	// Update
	cfg.Group.PUT(cfg.Path+"/:id", func(c *gin.Context) {
		uid, ok := ownerOf(c)
		if !ok {
			return
		}
		id := c.Param("id")

		check := cfg.New()
		_ = setStr(check, idNames, id)
		_ = setStr(check, ownerNames, uid)
		if err := cfg.DB.WithContext(c).Where(check).First(check).Error; err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
			return
		}

		in := cfg.New()
		if err := c.ShouldBindJSON(in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		_ = setStr(in, idNames, id)
		_ = setStr(in, ownerNames, uid)

		if cfg.Hooks.BeforeUpdate != nil {
			if err := cfg.Hooks.BeforeUpdate(c, in); err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
		}
		if err := cfg.DB.WithContext(c).Model(cfg.New()).Where(check).Updates(in).Error; err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"id": id}))
	})

	// Delete
	cfg.Group.DELETE(cfg.Path+"/:id", func(c *gin.Context) {
		uid, ok := ownerOf(c)
		if !ok {
			return
		}
		filter := cfg.New()
		_ = setStr(filter, idNames, c.Param("id"))
		_ = setStr(filter, ownerNames, uid)

		res := cfg.DB.WithContext(c).Where(filter).Delete(cfg.New())
		if res.Error != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, res.Error.Error()))
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"id": c.Param("id")}))
	})
}
