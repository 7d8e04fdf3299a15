package dto

// Actor identifies the chat-platform member performing a request. The
// command surface resolves the member before calling the API; Roles is the
// member's full role set, used for leader checks. JSON bodies carry it under
// "actor"; the export download passes it as actor_* query parameters.
type Actor struct {
	UserID    string   `json:"user_id" form:"actor_user_id" binding:"required"`
	Name      string   `json:"name" form:"actor_name" binding:"required"`
	AvatarURL string   `json:"avatar_url" form:"actor_avatar_url"`
	Roles     []string `json:"roles" form:"actor_roles"`
}

// Validate validates the Actor
func (a *Actor) Validate() (bool, string) {
	if a.UserID == "" {
		return false, "Actor user ID is required"
	}
	if a.Name == "" {
		return false, "Actor name is required"
	}
	return true, ""
}
