package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"

	mdw "ridelink/internal/transport/http/middleware"
)

// NewAdminEngine 管理端。流量小，直接用 ginzap 全量记日志，
// 不走 API 端那套限流/并发闸。
func NewAdminEngine(d *Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		ginzap.Ginzap(d.Log, time.RFC3339, true),
		ginzap.RecoveryWithZap(d.Log, true),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT, "admin"))

	MountAllAdmin(admin)
	mountAdminActions(admin, d)

	return r
}
