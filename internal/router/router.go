package router

import (
	"metawards-uq/internal/handler"
	"metawards-uq/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRouter(svc *service.ServiceContext) *gin.Engine {
	r := gin.Default()

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	designHandler := handler.NewDesignHandler(svc.DesignService)
	transformHandler := handler.NewTransformHandler()

	api := r.Group("/api")
	{
		designs := api.Group("/designs")
		{
			designs.POST("", designHandler.CreateDesign)
			designs.GET("", designHandler.ListDesigns)
			designs.GET("/:id", designHandler.GetDesign)
			designs.GET("/:id/csv", designHandler.GetDesignCSV)
			designs.DELETE("/:id", designHandler.DeleteDesign)
		}

		api.POST("/transform", transformHandler.Transform)
		api.POST("/fingerprint", transformHandler.Fingerprint)
	}

	return r
}
