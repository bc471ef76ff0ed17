package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// multipartOverhead 表单其他字段预留的内存
const multipartOverhead = 1 << 20

// New 创建Gin引擎并注册全部路由
//
// 路由一览：
//
//	GET    /ping
//	GET    /metrics
//	GET    /swagger/*any
//	POST   /api/v1/auth/register | login | refresh
//	POST   /api/v1/auth/logout            (登录)
//	GET    /api/v1/auth/me                (登录)
//	GET    /api/v1/books/sorted/:sortBy | search/:keyword | isbn/:isbn | count | random/:count | location
//	POST   /api/v1/books                  (登录)
//	PUT    /api/v1/books/:isbn            (登录)
//	DELETE /api/v1/books/:isbn            (登录)
//	GET    /api/v1/covers/:filename
func New(
	cfg *config.Config,
	log *zap.Logger,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	coverHandler *handler.CoverHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Storage.MaxCoverSize + multipartOverhead
	r.Use(
		middleware.Logger(log),
		middleware.Metrics(),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
			response.ErrorWithCode(c, 50000, "系统内部错误")
		}),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 生产环境建议关闭或加访问控制
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
			auth.POST("/refresh", userHandler.Refresh)
			auth.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
			auth.GET("/me", authMiddleware.RequireAuth(), userHandler.Me)
		}

		books := v1.Group("/books")
		{
			// 公开接口
			books.GET("/sorted/:sortBy", bookHandler.ListBooks)
			books.GET("/search/:keyword", bookHandler.SearchBooks)
			books.GET("/isbn/:isbn", bookHandler.GetBook)
			books.GET("/count", bookHandler.CountBooks)
			books.GET("/random/:count", bookHandler.RandomBooks)
			books.GET("/location", bookHandler.LocationTree)

			// 需要登录
			books.POST("", authMiddleware.RequireAuth(), bookHandler.CreateBook)
			books.PUT("/:isbn", authMiddleware.RequireAuth(), bookHandler.UpdateBook)
			books.DELETE("/:isbn", authMiddleware.RequireAuth(), bookHandler.DeleteBook)
		}

		v1.GET("/covers/:filename", coverHandler.GetCover)
	}

	return r
}
