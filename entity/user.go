package entity

// PublicProfile is the display subset of a user. An empty DisplayName marks a placeholder
// for a user that could not be resolved.
type PublicProfile struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"username"`
	AvatarURL   string `json:"avatar"`
}

func PlaceholderProfile(id int64) PublicProfile {
	return PublicProfile{ID: id}
}

func (p PublicProfile) IsPlaceholder() bool {
	return p.DisplayName == ""
}

type CollaboratorRole string

const (
	RoleOwner     CollaboratorRole = "owner"
	RoleAdmin     CollaboratorRole = "admin"
	RoleModerator CollaboratorRole = "moderator"
	RoleEditor    CollaboratorRole = "editor"
)

// CollaboratorRecord is a membership row as returned by the wiki backend.
// Username is a denormalized copy that may be stale or absent.
type CollaboratorRecord struct {
	UserID    int64            `json:"user_id"`
	Username  string           `json:"username,omitempty"`
	Role      CollaboratorRole `json:"role"`
	CreatedAt string           `json:"created_at"`
}

type EnrichedCollaborator struct {
	UserID    int64            `json:"user_id"`
	Username  string           `json:"username"`
	Avatar    string           `json:"avatar"`
	Role      CollaboratorRole `json:"role"`
	CreatedAt string           `json:"created_at"`
}

type UserSearchResult struct {
	Users    []PublicProfile `json:"users"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}
