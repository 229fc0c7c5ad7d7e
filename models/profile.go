package models

// Profile is the per-user account profile. Exactly one profile exists per
// user; it is created at registration time and only the owning session may
// mutate it. Profiles are never implicitly deleted.
type Profile struct {
	// UserID ties the profile to its owning user account. Immutable.
	UserID int64 `json:"-"`

	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Bio         string `json:"bio"`
	SocialMedia string `json:"social_media"`

	// AvatarURL is the retrieval URL of the uploaded avatar image,
	// empty until an upload has completed successfully.
	AvatarURL string `json:"avatar_url"`
}

// TableName returns the name of the database table
// associated with the Profile model.
func (p Profile) TableName() string {
	return "profiles"
}
