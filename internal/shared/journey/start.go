package journey

import (
	"net/http"
	"strings"

	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IDGenerator returns a new journey id
type IDGenerator func() string

// StartNewJourney redirects to the current URL with a fresh journey id
// inserted straight after pathSegment, e.g. /appointments/create/start-group
// becomes /appointments/create/<id>/start-group. Without a usable segment
// the request is redirected to itself unchanged.
func StartNewJourney(pathSegment string) gin.HandlerFunc {
	return StartNewJourneyWith(pathSegment, uuid.NewString)
}

// StartNewJourneyWith is StartNewJourney with a custom id generator
func StartNewJourneyWith(pathSegment string, newID IDGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		original := c.Request.URL.RequestURI()
		if pathSegment == "" {
			c.Redirect(http.StatusFound, original)
			return
		}

		journeyID := newID()
		target, ok := InsertJourneyIdentifier(original, pathSegment, journeyID)
		if ok {
			logger.GetDefault().LogJourneyStarted(c.Request.Context(), journeyID, c.Request.URL.Path)
		}
		c.Redirect(http.StatusFound, target)
	}
}

// InsertJourneyIdentifier inserts journeyID as a new path element after the
// first element equal to pathSegment. The query string is kept. The boolean
// is false, and url returned as is, when the segment is not in the path.
func InsertJourneyIdentifier(url, pathSegment, journeyID string) (string, bool) {
	if pathSegment == "" {
		return url, false
	}

	path, query, hasQuery := strings.Cut(url, "?")
	segments := strings.Split(path, "/")

	for i, segment := range segments {
		if segment != pathSegment {
			continue
		}
		rewritten := make([]string, 0, len(segments)+1)
		rewritten = append(rewritten, segments[:i+1]...)
		rewritten = append(rewritten, journeyID)
		rewritten = append(rewritten, segments[i+1:]...)

		result := strings.Join(rewritten, "/")
		if hasQuery {
			result += "?" + query
		}
		return result, true
	}

	return url, false
}

// Metrics counts journeys through their lifecycle
type Metrics interface {
	JourneyStarted(journey string)
	JourneyCompleted(journey string)
}

// CountStart records a journey start before the start handler runs
func CountStart(m Metrics, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m != nil {
			m.JourneyStarted(name)
		}
		c.Next()
	}
}

// NextStep is where a step's POST goes next. Steps edited from the check
// answers page go straight back there.
func NextStep(c *gin.Context, next string) string {
	if c.Query("preserveHistory") == "true" {
		return "check-answers"
	}
	return next
}
