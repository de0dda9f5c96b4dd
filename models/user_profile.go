package models

// UserProfile is read from the UserProfiles table, owned by the profile service.
type UserProfile struct {
	UserID    string `dynamodbav:"userId" json:"id"`
	Name      string `dynamodbav:"name" json:"name"`
	AvatarURL string `dynamodbav:"avatarUrl" json:"avatarUrl,omitempty"`
}
