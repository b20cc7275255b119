package middleware

import (
	"context"
	"net/http"

	"activitiesui/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// RolloutChecker reports whether a prison uses this service
type RolloutChecker interface {
	IsRolledOut(ctx context.Context, prisonCode string) (bool, error)
}

// RequireRollout stops users whose active caseload has not been rolled out
func RequireRollout(checker RolloutChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Next()
			return
		}

		live, err := checker.IsRolledOut(c.Request.Context(), user.ActiveCaseLoadID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if !live {
			response.RenderStatus(c, http.StatusForbidden, "pages/not-rolled-out", gin.H{
				"prisonCode": user.ActiveCaseLoadID,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
