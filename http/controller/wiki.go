package controller

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-wiki-gateway/service/aggregator"
	"github.com/tnqbao/gau-wiki-gateway/utils"
)

// Enrichment shapes of the wiki backend documents.
var (
	moduleTreeEnrichment = &aggregator.Config{
		Fields:           aggregator.FieldMapping{"owner_id": "owner"},
		NestedArrayField: "children",
	}
	moduleEnrichment = &aggregator.Config{
		Fields: aggregator.FieldMapping{"owner_id": "owner"},
	}
	articleListEnrichment = &aggregator.Config{
		Fields: aggregator.FieldMapping{"created_by": "creator"},
	}
	articleEnrichment = &aggregator.Config{
		Fields:           aggregator.FieldMapping{"created_by": "creator"},
		NestedArrayField: "history",
		Nested: &aggregator.Config{
			Fields: aggregator.FieldMapping{"author_id": "author", "reviewed_by": "reviewer"},
		},
	}
	commentEnrichment = &aggregator.Config{
		Fields:           aggregator.FieldMapping{"created_by": "creator"},
		NestedArrayField: "replies",
	}
	submissionEnrichment = &aggregator.Config{
		Fields: aggregator.FieldMapping{"submitted_by": "submitter", "reviewed_by": "reviewer"},
	}
	versionEnrichment = &aggregator.Config{
		Fields: aggregator.FieldMapping{"author_id": "author"},
	}
	reviewDetailEnrichment = &aggregator.Config{
		Fields: aggregator.FieldMapping{
			"submitted_by": "submitter",
			"reviewed_by":  "reviewer",
			"created_by":   "creator",
			"author_id":    "author",
		},
	}
)

// callWiki forwards one request to the wiki backend. On failure the error response has
// already been written and ok is false.
func (ctrl *Controller) callWiki(c *gin.Context, component, service, method string, req any) (map[string]any, bool) {
	resp, err := ctrl.Wiki.Call(c.Request.Context(), service, method, req)
	if err != nil {
		ctrl.respondBackendError(c, component, err)
		return nil, false
	}
	return resp, true
}

// pathID parses a positive numeric path parameter, answering 400 otherwise.
func pathID(c *gin.Context, name, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.JSON400(c, message)
		return 0, false
	}
	return id, true
}

func requireUser(c *gin.Context) (int64, bool) {
	userID := utils.GetUserID(c)
	if userID <= 0 {
		utils.JSON401(c, "Unauthorized: login required")
		return 0, false
	}
	return userID, true
}

// listOf returns resp[field] as a list, treating an absent or null field as empty.
func listOf(resp map[string]any, field string) []any {
	if list, ok := resp[field].([]any); ok {
		return list
	}
	return []any{}
}

func decodeInto(src any, dst any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
