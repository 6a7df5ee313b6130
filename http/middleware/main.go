package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-wiki-gateway/http/controller"
)

type Middlewares struct {
	CORSMiddleware         gin.HandlerFunc
	AuthMiddleware         gin.HandlerFunc
	OptionalAuthMiddleware gin.HandlerFunc
	RequestLogger          gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	cors := CORSMiddleware(ctrl.Config.EnvConfig)
	auth := AuthMiddleware(ctrl.Infra.AuthorizationService, ctrl.Config.EnvConfig)
	optionalAuth := OptionalAuthMiddleware(ctrl.Infra.AuthorizationService, ctrl.Config.EnvConfig)
	requestLogger := RequestLogger(ctrl.Infra.Logger)

	return &Middlewares{
		CORSMiddleware:         cors,
		AuthMiddleware:         auth,
		OptionalAuthMiddleware: optionalAuth,
		RequestLogger:          requestLogger,
	}, nil
}
