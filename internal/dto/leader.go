package dto

// GrantLeaderRoleRequest marks a role as a leader role for the guild
type GrantLeaderRoleRequest struct {
	RoleID string `json:"role_id" binding:"required"`
}

// Validate validates the GrantLeaderRoleRequest
func (r *GrantLeaderRoleRequest) Validate() (bool, string) {
	if r.RoleID == "" {
		return false, "Role ID is required"
	}
	return true, ""
}

// LeaderRoleListResponse lists the guild's leader role IDs
type LeaderRoleListResponse struct {
	RoleIDs []string `json:"role_ids"`
}
