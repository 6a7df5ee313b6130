package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-wiki-gateway/entity"
	"github.com/tnqbao/gau-wiki-gateway/http/controller/dto"
	"github.com/tnqbao/gau-wiki-gateway/infra"
	"github.com/tnqbao/gau-wiki-gateway/utils"
)

func (ctrl *Controller) GetModuleTree(c *gin.Context) {
	resp, ok := ctrl.callWiki(c, "Module", infra.ModuleService, "GetModuleTree", gin.H{"user_id": utils.GetUserID(c)})
	if !ok {
		return
	}
	utils.JSON200(c, ctrl.Enricher.EnrichNested(c.Request.Context(), listOf(resp, "tree"), moduleTreeEnrichment))
}

func (ctrl *Controller) GetModule(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid module id")
	if !ok {
		return
	}

	resp, ok := ctrl.callWiki(c, "Module", infra.ModuleService, "GetModule", gin.H{"id": id})
	if !ok {
		return
	}
	module, _ := resp["module"].(map[string]any)
	if module == nil {
		utils.JSON404(c, "Module not found")
		return
	}
	utils.JSON200(c, ctrl.Enricher.EnrichObject(c.Request.Context(), module, moduleEnrichment))
}

func (ctrl *Controller) GetModerators(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := pathID(c, "id", "Invalid module id")
	if !ok {
		return
	}

	resp, ok := ctrl.callWiki(c, "Module", infra.ModuleService, "GetModerators", gin.H{
		"module_id": id,
		"user_id":   utils.GetUserID(c),
		"user_role": utils.GetUserRole(c),
	})
	if !ok {
		return
	}

	var records []entity.CollaboratorRecord
	if err := decodeInto(listOf(resp, "moderators"), &records); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Module] Malformed moderators for module %d: %v", id, err)
		utils.JSON502(c, "Malformed backend response")
		return
	}
	utils.JSON200(c, ctrl.Enricher.EnrichCollaborators(ctx, records))
}

func (ctrl *Controller) GetModuleArticles(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid module id")
	if !ok {
		return
	}

	var query dto.PageQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.JSON400(c, "Invalid query parameters: "+err.Error())
		return
	}
	if query.Page == 0 {
		query.Page = 1
	}
	if query.PageSize == 0 {
		query.PageSize = 20
	}

	resp, ok := ctrl.callWiki(c, "Article", infra.ArticleService, "GetArticlesByModule", gin.H{
		"module_id": id,
		"page":      query.Page,
		"page_size": query.PageSize,
	})
	if !ok {
		return
	}

	resp["articles"] = ctrl.Enricher.EnrichNested(c.Request.Context(), listOf(resp, "articles"), articleListEnrichment)
	utils.JSON200(c, resp)
}
