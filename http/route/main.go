package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-upload-service/http/controller"
	middlewares "github.com/tnqbao/gau-upload-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	apiRoutes := r.Group("/api/v1/upload")
	{
		// Session-bound routes.
		sessionRoutes := apiRoutes.Group("")
		{
			sessionRoutes.Use(middles.AuthMiddleware)

			sessionRoutes.GET("/token", ctrl.GetUploadToken)
			sessionRoutes.POST("/video", ctrl.UploadVideo)
			sessionRoutes.POST("/chunk", ctrl.UploadChunk)
			sessionRoutes.POST("/merge", ctrl.MergeChunks)
			sessionRoutes.GET("/mine", ctrl.MyUploads)
		}

		// Token-bound routes for cross-origin clients. Same handlers, the
		// middleware is the only difference between the two front doors.
		crossRoutes := apiRoutes.Group("/cross")
		{
			crossRoutes.Use(middles.CORSMiddleware)
			crossRoutes.Use(middles.UploadTokenMiddleware)

			crossRoutes.POST("/chunk", ctrl.UploadChunk)
			crossRoutes.POST("/merge", ctrl.MergeChunks)
		}
	}
	return r
}
