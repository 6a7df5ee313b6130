package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-wiki-gateway/http/controller/dto"
	"github.com/tnqbao/gau-wiki-gateway/utils"
)

// SearchUsers never fails on directory errors; callers get an empty page instead.
func (ctrl *Controller) SearchUsers(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.SearchUsersQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.JSON400(c, "Invalid query parameters: "+err.Error())
		return
	}

	result := ctrl.Enricher.SearchUsers(ctx, query.Keyword, utils.GetUserID(c), query.Page, query.PageSize)
	ctrl.Infra.Logger.DebugWithContextf(ctx, "[User] Search %q returned %d of %d users", query.Keyword, len(result.Users), result.Total)
	utils.JSON200(c, result)
}

func (ctrl *Controller) GetUserByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.JSON400(c, "Invalid user id")
		return
	}

	profile, ok := ctrl.Enricher.Profile(c.Request.Context(), id)
	if !ok {
		utils.JSON404(c, "User not found")
		return
	}
	utils.JSON200(c, profile)
}
