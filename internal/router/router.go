package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/user/cinedash/internal/handler"
	"github.com/user/cinedash/internal/middleware"
)

// NewEngine 创建带 gzip 与请求日志的 gin 实例并注册路由
func NewEngine(h *handler.Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", h.Health)

	api := r.Group("/api")

	// ==================== 公开接口 ====================
	api.POST("/auth/login", h.Login)
	api.POST("/agregarUsuario", middleware.OptionalAuth(h.Config.AppSecret), h.Register)

	// ==================== 需要登录 ====================
	authed := api.Group("")
	authed.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		authed.GET("/mostrarPelicula", h.ListMovies)
		authed.GET("/peliculas/:id", h.GetMovie)

		// 用户本人或管理员
		self := authed.Group("")
		self.Use(middleware.RequireSelfOrAdmin("id"))
		{
			self.GET("/usuario/:id", h.GetUser)
			self.PUT("/modificarUsuario/:id", h.UpdateUser)

			self.GET("/usuario/:id/perfiles", h.ListProfiles)
			self.POST("/usuario/:id/perfiles", h.CreateProfile)
			self.PUT("/usuario/:id/perfiles/:profileId", h.UpdateProfile)
			self.DELETE("/usuario/:id/perfiles/:profileId", h.DeleteProfile)
		}
	}

	// ==================== 管理后台 ====================
	admin := api.Group("")
	admin.Use(middleware.RequireAuth(h.Config.AppSecret))
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/mostrarUsuarios", h.ListUsers)
		admin.GET("/roles", h.ListRoles)
		admin.POST("/agregarPelicula", h.CreateMovie)
		admin.PUT("/modificarPelicula/:id", h.UpdateMovie)
	}
}
