package infra

import (
	"context"
	"fmt"

	"github.com/tnqbao/gau-wiki-gateway/entity"
)

const (
	getUsersByIDsMethod = "/auth_service.AuthService/GetUsersByIds"
	searchUsersMethod   = "/auth_service.AuthService/SearchUsers"
)

type GetUsersByIDsRequest struct {
	UserIDs []int64 `json:"user_ids"`
}

type GetUsersByIDsResponse struct {
	Users []entity.PublicProfile `json:"users"`
}

type SearchUsersRequest struct {
	Keyword       string `json:"keyword"`
	ExcludeUserID int64  `json:"exclude_user_id"`
	Page          int    `json:"page"`
	PageSize      int    `json:"page_size"`
}

type SearchUsersResponse struct {
	Users    []entity.PublicProfile `json:"users"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

// UserDirectory is the auth service's user lookup API.
type UserDirectory struct {
	rpc *RPCClient
}

func NewUserDirectory(rpc *RPCClient) *UserDirectory {
	return &UserDirectory{rpc: rpc}
}

// LookupByIDs resolves profiles in a single round trip. IDs unknown to the auth service
// are simply absent from the result.
func (d *UserDirectory) LookupByIDs(ctx context.Context, ids []int64) (map[int64]entity.PublicProfile, error) {
	var resp GetUsersByIDsResponse
	if err := d.rpc.Invoke(ctx, getUsersByIDsMethod, &GetUsersByIDsRequest{UserIDs: ids}, &resp); err != nil {
		return nil, fmt.Errorf("GetUsersByIds: %w", err)
	}

	profiles := make(map[int64]entity.PublicProfile, len(resp.Users))
	for _, user := range resp.Users {
		profiles[user.ID] = user
	}
	return profiles, nil
}

func (d *UserDirectory) SearchUsers(ctx context.Context, keyword string, excludeID int64, page, pageSize int) (entity.UserSearchResult, error) {
	req := &SearchUsersRequest{
		Keyword:       keyword,
		ExcludeUserID: excludeID,
		Page:          page,
		PageSize:      pageSize,
	}

	var resp SearchUsersResponse
	if err := d.rpc.Invoke(ctx, searchUsersMethod, req, &resp); err != nil {
		return entity.UserSearchResult{}, fmt.Errorf("SearchUsers: %w", err)
	}

	return entity.UserSearchResult{
		Users:    resp.Users,
		Total:    resp.Total,
		Page:     resp.Page,
		PageSize: resp.PageSize,
	}, nil
}
