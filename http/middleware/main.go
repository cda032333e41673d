package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-upload-service/http/controller"
)

type Middlewares struct {
	CORSMiddleware        gin.HandlerFunc
	AuthMiddleware        gin.HandlerFunc
	UploadTokenMiddleware gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	cors := CORSMiddleware(ctrl.Config.EnvConfig)
	auth := AuthMiddleware(ctrl.Repository.UserRepo, ctrl.Infra.Redis, ctrl.Config.EnvConfig)
	uploadToken := UploadTokenMiddleware(ctrl.Repository.UserRepo, ctrl.Config.EnvConfig)

	return &Middlewares{
		CORSMiddleware:        cors,
		AuthMiddleware:        auth,
		UploadTokenMiddleware: uploadToken,
	}, nil
}
