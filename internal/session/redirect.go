package session

import "github.com/youthlink/youthlink/internal/models"

// RedirectPath computes the post-login landing route for a role. Unknown
// roles fall back to the generic dashboard.
func RedirectPath(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin"
	case models.RoleEmployer:
		return "/employer/dashboard"
	case models.RoleYouth:
		return "/youth/dashboard"
	case models.RoleVerifier:
		return "/verifier/dashboard"
	}
	return "/dashboard"
}
