package model

// UserRecord is one enumerated user profile.
type UserRecord struct {
	// UserID is the enumeration index the profile was fetched with.
	UserID int `json:"user_id"`

	// Username is the display name taken from the page title.
	Username string `json:"username"`

	// ImgURL is the avatar URL. Empty means the profile had no avatar.
	ImgURL string `json:"img_url,omitempty"`
}

// HasAvatar reports whether the record carries an avatar URL.
// Only records with an avatar are eligible for persistence.
func (u UserRecord) HasAvatar() bool {
	return u.ImgURL != ""
}

// StoredUser is a persisted user with the row id the store assigned.
type StoredUser struct {
	ID int64
	UserRecord
}
