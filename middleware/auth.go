package middleware

import (
	"net/http"
	"strings"

	"cleancut-backend/config"
	"cleancut-backend/models"
	"cleancut-backend/utils"

	"github.com/gin-gonic/gin"
)

// LandingPath maps a role to its dashboard route, admin > owner > customer.
func LandingPath(role string) string {
	switch role {
	case models.RoleAdmin:
		return "/admin"
	case models.RoleOwner:
		return "/owner-dashboard"
	default:
		return "/dashboard"
	}
}

// CurrentUser returns the user resolved by AuthRequired, if any.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get("currentUser")
	if !exists {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func tokenFromRequest(c *gin.Context) string {
	tokenString := c.GetHeader("Authorization")
	if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
		return tokenString[7:]
	}
	if tokenString != "" {
		return tokenString
	}
	// cookie fallback for browser clients
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

// AuthRequired validates the JWT and loads the account fresh from the
// store, so role changes and deactivation take effect without re-login.
// Unauthenticated requests get a login redirect hint with the return path.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Authorization required",
				"redirect":  "/login",
				"returnUrl": c.Request.URL.Path,
			})
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid token",
				"redirect":  "/login",
				"returnUrl": c.Request.URL.Path,
			})
			return
		}

		userID, _ := claims["sub"].(string)

		var user models.User
		if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "User not found",
				"redirect": "/login",
			})
			return
		}

		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
			return
		}

		c.Set("currentUser", &user)
		c.Set("userId", user.ID.String())
		c.Set("role", user.Role)
		c.Next()
	}
}

// RequireOwner passes owners and admins; everyone else is sent to
// their role-appropriate landing page.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsOwner() {
			role := ""
			if user != nil {
				role = user.Role
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Owner access required",
				"redirect": LandingPath(role),
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin passes admins only.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			role := ""
			if user != nil {
				role = user.Role
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Admin access required",
				"redirect": LandingPath(role),
			})
			return
		}
		c.Next()
	}
}
