package models

// User is either a purely local profile (UserID, Token and Email nil) or a
// profile linked to a remote account.
type User struct {
	ID        int64   `db:"id" json:"id"`
	UserID    *int64  `db:"user_id" json:"user_id,omitempty"`
	Nickname  *string `db:"nickname" json:"nickname,omitempty"`
	Token     *string `db:"token" json:"-"`
	FirstName *string `db:"f_name" json:"f_name,omitempty"`
	LastName  *string `db:"l_name" json:"l_name,omitempty"`
	Email     *string `db:"email" json:"email,omitempty"`
	CreatedAt *string `db:"created_at" json:"created_at,omitempty"` // RFC3339 timestamp
}

// IsOffline reports whether the profile has no remote account attached.
func (u User) IsOffline() bool {
	return u.UserID == nil
}

// DisplayName returns the nickname, falling back to the first name.
func (u User) DisplayName() string {
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	if u.FirstName != nil {
		return *u.FirstName
	}
	return ""
}
