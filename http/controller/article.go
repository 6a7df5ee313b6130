package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-wiki-gateway/entity"
	"github.com/tnqbao/gau-wiki-gateway/infra"
	"github.com/tnqbao/gau-wiki-gateway/utils"
)

// GetArticle resolves the creator and every history author and reviewer in one lookup.
func (ctrl *Controller) GetArticle(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid article id")
	if !ok {
		return
	}

	resp, ok := ctrl.callWiki(c, "Article", infra.ArticleService, "GetArticle", gin.H{
		"id":        id,
		"user_id":   utils.GetUserID(c),
		"user_role": utils.GetUserRole(c),
	})
	if !ok {
		return
	}
	article, _ := resp["article"].(map[string]any)
	if article == nil {
		utils.JSON404(c, "Article not found")
		return
	}
	utils.JSON200(c, ctrl.Enricher.EnrichNested(c.Request.Context(), article, articleEnrichment))
}

func (ctrl *Controller) GetArticleCollaborators(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := pathID(c, "id", "Invalid article id")
	if !ok {
		return
	}

	resp, ok := ctrl.callWiki(c, "Article", infra.ArticleService, "GetCollaborators", gin.H{"article_id": id})
	if !ok {
		return
	}

	var records []entity.CollaboratorRecord
	if err := decodeInto(listOf(resp, "collaborators"), &records); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Article] Malformed collaborators for article %d: %v", id, err)
		utils.JSON502(c, "Malformed backend response")
		return
	}
	utils.JSON200(c, ctrl.Enricher.EnrichCollaborators(ctx, records))
}
