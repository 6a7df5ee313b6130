package aggregator

import (
	"context"

	"github.com/tnqbao/gau-wiki-gateway/entity"
)

// EnrichCollaborators attaches profiles to membership records in input order. The display
// name falls back to the record's own username, then to an empty string.
func (e *Enricher) EnrichCollaborators(ctx context.Context, records []entity.CollaboratorRecord) []entity.EnrichedCollaborator {
	out := make([]entity.EnrichedCollaborator, 0, len(records))
	if len(records) == 0 {
		return out
	}

	ids := make([]int64, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	for _, record := range records {
		if record.UserID <= 0 {
			continue
		}
		if _, dup := seen[record.UserID]; !dup {
			seen[record.UserID] = struct{}{}
			ids = append(ids, record.UserID)
		}
	}
	profiles := e.resolve(ctx, ids)

	for _, record := range records {
		profile := profiles[record.UserID]

		username := profile.DisplayName
		if username == "" {
			username = record.Username
		}

		out = append(out, entity.EnrichedCollaborator{
			UserID:    record.UserID,
			Username:  username,
			Avatar:    profile.AvatarURL,
			Role:      record.Role,
			CreatedAt: record.CreatedAt,
		})
	}
	return out
}
