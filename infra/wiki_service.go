package infra

import (
	"context"
)

// Backend service names as registered on the wiki gRPC server.
const (
	ModuleService     = "module_service.ModuleService"
	ArticleService    = "article_service.ArticleService"
	ReviewService     = "review_service.ReviewService"
	DiscussionService = "discussion_service.DiscussionService"
)

// WikiService forwards gateway requests to the wiki backend. Responses are kept as generic
// JSON documents so they can flow through profile enrichment untouched.
type WikiService struct {
	rpc *RPCClient
}

func NewWikiService(rpc *RPCClient) *WikiService {
	return &WikiService{rpc: rpc}
}

func (w *WikiService) Call(ctx context.Context, service, method string, req any) (map[string]any, error) {
	resp := map[string]any{}
	if err := w.rpc.Invoke(ctx, "/"+service+"/"+method, req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
