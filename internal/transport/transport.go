package transport

import (
	"net/http"
	"time"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/transport/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitRoutes(configHandler *ConfigHandler, fieldHandler *FieldHandler, dialogHandler *DialogHandler, requestTimeout int) *gin.Engine {

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(requestTimeout))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		// App configuration screen
		cfg := api.Group("/config")
		{
			cfg.GET("", configHandler.Activate)
			cfg.POST("/tabs/:tab/toggle", configHandler.Toggle)
			cfg.POST("/configure", configHandler.Configure)
			cfg.PUT("/state", configHandler.SetAppState)
		}

		// Field widgets
		fields := api.Group("/fields")
		{
			fields.POST("", fieldHandler.Mount)
			fields.GET("/:id", fieldHandler.View)
			fields.DELETE("/:id", fieldHandler.Unmount)
			fields.PUT("/:id/value", fieldHandler.SetValue)
			fields.DELETE("/:id/value", fieldHandler.Remove)
			fields.POST("/:id/editor", fieldHandler.OpenEditor)
			fields.POST("/:id/copy", fieldHandler.CopyURL)
			fields.GET("/:id/download", fieldHandler.Download)
			fields.GET("/:id/preview", fieldHandler.Preview)
		}

		// Edit dialogs
		dialogs := api.Group("/dialogs")
		{
			dialogs.POST("", dialogHandler.Open)
			dialogs.GET("/:id", dialogHandler.Get)
			dialogs.POST("/:id/before-save", dialogHandler.BeforeSave)
			dialogs.POST("/:id/save", dialogHandler.Save)
		}

		api.GET("/assets/:id/journal", dialogHandler.Journal)
	}

	return router
}
