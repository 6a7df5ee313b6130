package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-wiki-gateway/utils"
)

func (ctrl *Controller) Health(c *gin.Context) {
	utils.JSON200(c, gin.H{
		"status":  "ok",
		"service": ctrl.Config.EnvConfig.Grafana.ServiceName,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (ctrl *Controller) StorageHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	health, err := ctrl.Storage.Health(ctx)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Health] Object storage probe failed: %v", err)
		utils.JSON(c, http.StatusServiceUnavailable, utils.CodeBackendError, "Object storage unreachable", health)
		return
	}
	utils.JSON200(c, health)
}
