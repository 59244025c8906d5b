package router

import (
	"github.com/gin-gonic/gin"

	"ridelink/internal/domain"
	httpez "ridelink/internal/transport/http/ez"
)

// currentDeps 供 init 注册的模块在挂载时取装配物。
// MountAllAPI 只在 NewAPIEngine 里调用，前面一定已赋值。
var currentDeps *Deps

// placesModule 常用地点，纯 owner-scoped CRUD，直接走通用挂载。
type placesModule struct{}

func init() { Register(placesModule{}) }

func (placesModule) MountAPI(g *gin.RouterGroup) {
	httpez.Crud(httpez.CrudConfig[domain.Place]{
		DB:    currentDeps.DB,
		Group: g,
		Path:  "/places",
		New:   func() *domain.Place { return &domain.Place{} },
	})
}
