package middleware

import (
	"errors"
	"net/http"

	"activitiesui/internal/shared/session"
	"activitiesui/internal/shared/utils/response"
	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
)

var (
	ErrForbidden       = errors.New("user does not hold a required role")
	ErrInvalidEntityID = errors.New("invalid entity id")
	ErrNotFound        = errors.New("page not found")
)

// statusCoder is implemented by errors that carry an upstream HTTP status,
// such as the activities API client errors
type statusCoder interface {
	StatusCode() int
}

// ErrorHandler renders the last error a handler recorded with c.Error.
// Nothing is written when the handler already produced a response.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		if errors.Is(err, session.ErrJourneyNotFound) {
			// the flow was finished or never started, e.g. back button after confirmation
			l.Debug("Journey not in session", "path", c.Request.URL.Path)
			c.Redirect(http.StatusFound, "/")
			return
		}

		status := StatusFor(err)
		l.LogHTTPError(c, err, status)

		if wantsJSON(c) {
			response.RespondJSON(c, "error", status, http.StatusText(status), nil, nil)
			return
		}
		response.RenderStatus(c, status, "pages/error", gin.H{
			"status":  status,
			"message": http.StatusText(status),
		})
	}
}

// StatusFor maps an error to the status of the error page
func StatusFor(err error) int {
	var upstream statusCoder
	switch {
	case errors.Is(err, ErrInvalidEntityID), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &upstream) && upstream.StatusCode() == http.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
