package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"memory-gallery/internal/core/auth"
	"memory-gallery/internal/transport/http/handler"
	mdw "memory-gallery/internal/transport/http/middleware"
)

type Deps struct {
	Log       *zap.Logger
	JWTer     *auth.JWTer
	RoleOf    mdw.RoleFunc
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Photos    *handler.PhotoHandler
	CSRFCheck bool
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// Auth routes, throttled per client to slow credential stuffing.
	authGrp := api.Group("/auth")
	authGrp.Use(mdw.RateLimitPerIP(5, 10))
	authGrp.POST("/register", d.Auth.Register)
	authGrp.POST("/login", d.Auth.Login)
	authGrp.POST("/refresh", d.Auth.Refresh)
	authGrp.POST("/logout", d.Auth.Logout)
	authGrp.GET("/csrf-token", d.Auth.CSRFToken)

	// User administration, admin role only.
	users := api.Group("/users")
	users.Use(mdw.AuthJWT(d.JWTer, d.RoleOf, "admin"))
	users.GET("", d.Users.List)
	users.GET("/:id", d.Users.Get)
	users.PUT("/:id", d.Users.Update)
	users.DELETE("/:id", d.Users.Delete)

	// Photo reads are public; mutations need a session.
	photos := api.Group("/photos")
	photos.GET("", d.Photos.List)
	photos.GET("/:id", d.Photos.Get)
	photos.GET("/:id/file", d.Photos.File)
	photos.GET("/grade/:grade", d.Photos.ByGrade)
	photos.GET("/parallel/:parallel", d.Photos.ByParallel)

	photoWrites := api.Group("/photos")
	photoWrites.Use(mdw.AuthJWT(d.JWTer, d.RoleOf, ""))
	if d.CSRFCheck {
		photoWrites.Use(mdw.CSRFPresence())
	}
	photoWrites.POST("", d.Photos.Upload)
	photoWrites.PUT("/:id", d.Photos.Update)
	photoWrites.DELETE("/:id", d.Photos.Delete)

	return r
}
