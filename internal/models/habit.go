package models

// Habit represents a recurring behaviour to track. Only the schema exists;
// the store exposes no habit operations yet.
type Habit struct {
	LocalID     string   `db:"local_id" json:"local_id"`
	ServerID    *int64   `db:"server_id" json:"server_id,omitempty"`
	UserID      int64    `db:"user_id" json:"user_id"`
	Title       string   `db:"title" json:"title"`
	Question    string   `db:"question" json:"question"`
	Unit        int      `db:"unit" json:"unit"`
	TagID       *string  `db:"tag_id" json:"tag_id,omitempty"`
	Description *string  `db:"description" json:"description,omitempty"`
	Priority    Priority `db:"priority" json:"priority"`
	Archive     bool     `db:"archive" json:"archive"`
	Color       string   `db:"color" json:"color"`
	NeedsSync   bool     `db:"needs_sync" json:"needs_sync"`
	DeletedAt   *string  `db:"deleted_at" json:"deleted_at,omitempty"`
	UpdatedAt   *string  `db:"updated_at" json:"updated_at,omitempty"`
}

// DailyHabit is one day's recorded value for a habit, unique per
// (user, habit, date).
type DailyHabit struct {
	LocalID   int64   `db:"local_id" json:"local_id"`
	HabitID   string  `db:"habit_id" json:"habit_id"`
	UserID    int64   `db:"user_id" json:"user_id"`
	ServerID  *int64  `db:"server_id" json:"server_id,omitempty"`
	Date      string  `db:"date" json:"date"` // YYYY-MM-DD format
	Value     int     `db:"value" json:"value"`
	NeedsSync bool    `db:"needs_sync" json:"needs_sync"`
	DeletedAt *string `db:"deleted_at" json:"deleted_at,omitempty"`
	UpdatedAt *string `db:"updated_at" json:"updated_at,omitempty"`
}
