package aggregator

import (
	"context"

	"github.com/tnqbao/gau-wiki-gateway/entity"
)

// Directory resolves user IDs to public profiles in one round trip. IDs it does not know
// are left out of the result rather than reported as errors.
type Directory interface {
	LookupByIDs(ctx context.Context, ids []int64) (map[int64]entity.PublicProfile, error)
}

// Searcher is implemented by directories that support keyword search.
type Searcher interface {
	SearchUsers(ctx context.Context, keyword string, excludeID int64, page, pageSize int) (entity.UserSearchResult, error)
}

type Logger interface {
	WarningWithContextf(ctx context.Context, format string, args ...any)
	ErrorWithContextf(ctx context.Context, err error, format string, args ...any)
}
