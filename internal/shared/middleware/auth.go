package middleware

import (
	"net/http"
	"strings"

	"activitiesui/internal/shared/config"
	"activitiesui/internal/shared/session"
	"activitiesui/internal/shared/utils/response"
	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	userKey         = "user"
	sessionTokenKey = "userToken"
)

// User is the signed in member of staff
type User struct {
	Username         string   `json:"username"`
	DisplayName      string   `json:"displayName"`
	ActiveCaseLoadID string   `json:"activeCaseLoadId"`
	Roles            []string `json:"roles"`
	Token            string   `json:"-"`
}

// HasRole reports whether the user holds role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// UserClaims are the claims the sign in service puts in the user token
type UserClaims struct {
	Username         string   `json:"user_name"`
	Name             string   `json:"name"`
	ActiveCaseLoadID string   `json:"active_caseload_id"`
	Authorities      []string `json:"authorities"`
	jwt.RegisteredClaims
}

// Authenticate verifies the user token and puts the User on the context.
// The token comes from the session (set at sign in) or a bearer header.
// Pages redirect to sign in when it is missing or invalid, /ui calls get 401.
func Authenticate(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Auth.Enabled {
			c.Set(userKey, &User{
				Username:         "DEV_USER",
				DisplayName:      "Local Developer",
				ActiveCaseLoadID: cfg.Auth.DefaultPrison,
				Roles:            []string{RoleActivityHub, RoleReportingViewer},
			})
			c.Next()
			return
		}

		tokenString := tokenFromRequest(c, cfg.Auth.TokenHeader)
		if tokenString == "" {
			unauthenticated(c, cfg, "missing token")
			return
		}

		claims := &UserClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Auth.TokenSecret), nil
		})
		if err != nil || !token.Valid {
			unauthenticated(c, cfg, "invalid or expired token")
			return
		}

		caseLoad := claims.ActiveCaseLoadID
		if caseLoad == "" {
			caseLoad = cfg.Auth.DefaultPrison
		}
		c.Set(userKey, &User{
			Username:         claims.Username,
			DisplayName:      claims.Name,
			ActiveCaseLoadID: caseLoad,
			Roles:            claims.Authorities,
			Token:            tokenString,
		})

		c.Next()
	}
}

func tokenFromRequest(c *gin.Context, header string) string {
	if sess := session.FromContext(c); sess != nil {
		var token string
		if found, err := sess.Get(sessionTokenKey, &token); err == nil && found && token != "" {
			return token
		}
	}

	parts := strings.SplitN(c.GetHeader(header), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

func unauthenticated(c *gin.Context, cfg *config.Config, reason string) {
	logger.GetDefault().LogAuthFailure(c.Request.Context(), reason, c.ClientIP())
	if wantsJSON(c) {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		c.Abort()
		return
	}
	c.Redirect(http.StatusFound, cfg.Auth.SignInURL)
	c.Abort()
}

// CurrentUser returns the signed in user, or nil before Authenticate has run
func CurrentUser(c *gin.Context) *User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*User)
	return user
}

// Role names issued by the sign in service
const (
	RoleActivityHub     = "ROLE_ACTIVITY_HUB"
	RoleActivityAdmin   = "ROLE_ACTIVITY_ADMIN"
	RolePrisonManager   = "ROLE_PRISON"
	RoleReportingViewer = "ROLE_ACTIVITIES_REPORTING"
)

// RequireRoles lets the request through when the user holds any of roles
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			_ = c.Error(ErrForbidden)
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.HasRole(role) {
				c.Next()
				return
			}
		}
		_ = c.Error(ErrForbidden)
		c.Abort()
	}
}

func wantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/ui/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}

// SignInCallback verifies the token handed back by the sign in service,
// stores it in a fresh session and returns the user to the home page
func SignInCallback(cfg *config.Config, store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		_, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.Auth.TokenSecret), nil
		}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
		if err != nil {
			unauthenticated(c, cfg, "sign in callback with bad token")
			return
		}

		if err := session.Regenerate(c, store); err != nil {
			_ = c.Error(err)
			return
		}
		if err := session.FromContext(c).Set(sessionTokenKey, tokenString); err != nil {
			_ = c.Error(err)
			return
		}
		c.Redirect(http.StatusFound, "/")
	}
}

// SignOut drops the session and hands over to the sign in service
func SignOut(cfg *config.Config, store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess := session.FromContext(c); sess != nil && !sess.IsNew() {
			if err := store.Destroy(c.Request.Context(), sess.ID); err != nil {
				_ = c.Error(err)
				return
			}
		}
		c.Redirect(http.StatusFound, cfg.Auth.SignInURL)
	}
}
