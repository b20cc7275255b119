package activities

import (
	"context"

	"activitiesui/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

type tokenKey struct{}

// WithToken attaches the user token forwarded to the APIs
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// ForwardUserToken copies the signed in user's token onto the request context
// so every API call made while serving the request is made as that user
func ForwardUserToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := middleware.CurrentUser(c); user != nil && user.Token != "" {
			c.Request = c.Request.WithContext(WithToken(c.Request.Context(), user.Token))
		}
		c.Next()
	}
}
