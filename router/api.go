package router

import (
	"net/http"

	"github.com/TaisyaFreelanse/twelvesteps/controller"
	"github.com/TaisyaFreelanse/twelvesteps/middleware"
	"github.com/gin-gonic/gin"
)

func addBasicRouter(engine *gin.Engine) {
	engine.Use(gin.Recovery())
	engine.Use(middleware.Logger)

	engine.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func addApiRouter(engine *gin.Engine) {

	api := engine.Group("/api/v1")
	{
		// 消息处理管线
		api.POST("/message", controller.ProcessMessage)

		// 只读查询
		api.GET("/context", controller.GetContext)
		api.GET("/tracking", controller.GetTracking)
		api.GET("/session", controller.GetSession)
		api.GET("/profile", controller.GetProfile)

		// 管理接口
		api.POST("/admin/reset", controller.ResetUser)
	}
}
