package models

// Tag is a named label owned by one user.
type Tag struct {
	LocalID   string  `db:"local_id" json:"local_id"`
	ServerID  *int64  `db:"server_id" json:"server_id,omitempty"`
	UserID    int64   `db:"user_id" json:"user_id"`
	Name      string  `db:"name" json:"name"`
	NeedsSync bool    `db:"needs_sync" json:"needs_sync"`
	DeletedAt *string `db:"deleted_at" json:"deleted_at,omitempty"`
	UpdatedAt *string `db:"updated_at" json:"updated_at,omitempty"`
}
