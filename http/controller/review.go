package controller

import (
	"maps"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-wiki-gateway/http/controller/dto"
	"github.com/tnqbao/gau-wiki-gateway/infra"
	"github.com/tnqbao/gau-wiki-gateway/utils"
)

func (ctrl *Controller) GetReviews(c *gin.Context) {
	var query dto.ReviewsQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.JSON400(c, "Invalid query parameters: "+err.Error())
		return
	}

	resp, ok := ctrl.callWiki(c, "Review", infra.ReviewService, "GetReviews", gin.H{
		"status":     query.Status,
		"article_id": query.ArticleID,
	})
	if !ok {
		return
	}
	utils.JSON200(c, ctrl.Enricher.EnrichNested(c.Request.Context(), listOf(resp, "submissions"), submissionEnrichment))
}

// GetReviewDetail enriches the submission, both versions and the article together.
func (ctrl *Controller) GetReviewDetail(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid submission id")
	if !ok {
		return
	}

	resp, ok := ctrl.callWiki(c, "Review", infra.ReviewService, "GetReviewDetail", gin.H{
		"submission_id": id,
		"user_id":       utils.GetUserID(c),
		"user_role":     utils.GetUserRole(c),
	})
	if !ok {
		return
	}
	detail, _ := resp["detail"].(map[string]any)
	if detail == nil {
		utils.JSON404(c, "Submission not found")
		return
	}

	parts := []any{detail["submission"], detail["proposed_version"], detail["base_version"], detail["article"]}
	enriched, _ := ctrl.Enricher.EnrichNested(c.Request.Context(), parts, reviewDetailEnrichment).([]any)

	out := maps.Clone(detail)
	for i, key := range []string{"submission", "proposed_version", "base_version", "article"} {
		if detail[key] != nil {
			out[key] = enriched[i]
		}
	}
	utils.JSON200(c, out)
}

func (ctrl *Controller) ReviewAction(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid submission id")
	if !ok {
		return
	}

	var body dto.ReviewActionRequestDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSON400(c, "Invalid request payload: "+err.Error())
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	resp, ok := ctrl.callWiki(c, "Review", infra.ReviewService, "ReviewAction", gin.H{
		"submission_id":  id,
		"action":         body.Action,
		"notes":          body.Notes,
		"merged_content": body.MergedContent,
		"reviewer_id":    userID,
		"user_role":      utils.GetUserRole(c),
	})
	if !ok {
		return
	}

	if conflict, _ := resp["conflict_data"].(map[string]any); conflict != nil {
		if has, _ := conflict["has_conflict"].(bool); has {
			utils.JSON409(c, "Merge conflict", conflict)
			return
		}
	}

	published, _ := resp["published_version"].(map[string]any)
	utils.JSON200(c, gin.H{
		"message":           resp["message"],
		"published_version": ctrl.Enricher.EnrichObject(c.Request.Context(), published, versionEnrichment),
	})
}
