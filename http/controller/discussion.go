package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-wiki-gateway/http/controller/dto"
	"github.com/tnqbao/gau-wiki-gateway/infra"
	"github.com/tnqbao/gau-wiki-gateway/utils"
)

// GetArticleComments enriches the whole reply tree, however deep, with a single lookup.
func (ctrl *Controller) GetArticleComments(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid article id")
	if !ok {
		return
	}

	resp, ok := ctrl.callWiki(c, "Discussion", infra.DiscussionService, "GetArticleComments", gin.H{"article_id": id})
	if !ok {
		return
	}

	utils.JSON200(c, gin.H{
		"comments": ctrl.Enricher.EnrichNested(c.Request.Context(), listOf(resp, "comments"), commentEnrichment),
		"total":    resp["total"],
	})
}

func (ctrl *Controller) CreateComment(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid article id")
	if !ok {
		return
	}
	ctrl.writeComment(c, "CreateComment", gin.H{"article_id": id})
}

func (ctrl *Controller) ReplyComment(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid comment id")
	if !ok {
		return
	}
	ctrl.writeComment(c, "ReplyComment", gin.H{"comment_id": id})
}

func (ctrl *Controller) UpdateComment(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid comment id")
	if !ok {
		return
	}
	ctrl.writeComment(c, "UpdateComment", gin.H{"comment_id": id})
}

func (ctrl *Controller) writeComment(c *gin.Context, method string, req gin.H) {
	var body dto.CommentRequestDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSON400(c, "Comment content is required")
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	req["content"] = body.Content
	req["user_id"] = userID
	resp, ok := ctrl.callWiki(c, "Discussion", infra.DiscussionService, method, req)
	if !ok {
		return
	}

	comment, _ := resp["comment"].(map[string]any)
	utils.JSON200(c, ctrl.Enricher.EnrichNested(c.Request.Context(), comment, commentEnrichment))
}

func (ctrl *Controller) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "id", "Invalid comment id")
	if !ok {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if _, ok := ctrl.callWiki(c, "Discussion", infra.DiscussionService, "DeleteComment", gin.H{"comment_id": id, "user_id": userID}); !ok {
		return
	}
	ctrl.Infra.Logger.InfoWithContextf(c.Request.Context(), "[Discussion] User %d deleted comment %d", userID, id)
	utils.JSON200(c, gin.H{"message": "Deleted"})
}
