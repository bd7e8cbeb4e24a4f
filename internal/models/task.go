package models

import "github.com/julianstephens/nazmara/internal/constants"

type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// Valid reports whether p is one of the three stored priority values.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	if !p.Valid() {
		return "Unknown"
	}
	return constants.PriorityLabels[p]
}

// ParsePriority maps a display label ("Low", "Medium", "High") to its value.
func ParsePriority(label string) (Priority, bool) {
	for i, l := range constants.PriorityLabels {
		if l == label {
			return Priority(i), true
		}
	}
	return 0, false
}

type Task struct {
	LocalID     string   `db:"local_id" json:"local_id"`
	ServerID    *int64   `db:"server_id" json:"server_id,omitempty"`
	UserID      int64    `db:"user_id" json:"user_id"`
	Title       string   `db:"title" json:"title"`
	Description *string  `db:"description" json:"description,omitempty"`
	Priority    Priority `db:"priority" json:"priority"`
	DateTime    *string  `db:"date_time" json:"date_time,omitempty"` // YYYY-MM-DD format
	IsComplete  bool     `db:"is_complete" json:"is_complete"`
	TagID       *string  `db:"tag_id" json:"tag_id,omitempty"`
	NeedsSync   bool     `db:"needs_sync" json:"needs_sync"`
	DeletedAt   *string  `db:"deleted_at" json:"deleted_at,omitempty"` // RFC3339 timestamp
	CreatedAt   *string  `db:"created_at" json:"created_at,omitempty"` // RFC3339 timestamp
	UpdatedAt   *string  `db:"updated_at" json:"updated_at,omitempty"` // RFC3339 timestamp
}
