package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mdw "ridelink/internal/transport/http/middleware"
)

func NewAPIEngine(d *Deps) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 前缀
	api := r.Group("/api/v1")

	// 鉴权分组（⚠️ 除 /auth/* 外全部挂这里，才能拿到 userId）
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, ""))

	mountAuthActions(api, authed, d)
	mountContactActions(authed, d)
	mountRideActions(authed, d)
	mountNotificationActions(authed, d)

	// 统一注册器（places 等按模块注册，见各模块文件的 init）
	currentDeps = d
	MountAllAPI(authed)

	return r
}
