package session

import (
	"errors"

	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
)

// JourneyIDParam is the route parameter carrying the journey id
const JourneyIDParam = "journeyId"

var ErrJourneyNotFound = errors.New("journey not found in session")

// Journey is a typed accessor for one kind of multi-step form state. Each
// journey instance is stored under "<name>:<journeyId>" so the same flow can
// be open in two tabs.
type Journey[T any] struct {
	name string
}

func NewJourney[T any](name string) Journey[T] {
	return Journey[T]{name: name}
}

// Name returns the journey name
func (j Journey[T]) Name() string {
	return j.name
}

// Key returns the session key for a journey id
func (j Journey[T]) Key(journeyID string) string {
	if journeyID == "" {
		return j.name
	}
	return j.name + ":" + journeyID
}

// Get returns the journey for the request's journey id
func (j Journey[T]) Get(c *gin.Context) (*T, bool) {
	return j.GetFor(c, c.Param(JourneyIDParam))
}

// GetFor returns the journey stored for journeyID
func (j Journey[T]) GetFor(c *gin.Context, journeyID string) (*T, bool) {
	sess := FromContext(c)
	if sess == nil {
		return nil, false
	}

	var value T
	found, err := sess.Get(j.Key(journeyID), &value)
	if err != nil {
		// unreadable state is dropped and the user starts the flow again
		logger.GetDefault().Warn("Discarding unreadable journey", "journey", j.name, "error", err)
		sess.Delete(j.Key(journeyID))
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &value, true
}

// Set replaces the journey for the request's journey id
func (j Journey[T]) Set(c *gin.Context, value *T) error {
	return j.SetFor(c, c.Param(JourneyIDParam), value)
}

// SetFor replaces the journey stored for journeyID
func (j Journey[T]) SetFor(c *gin.Context, journeyID string, value *T) error {
	sess := FromContext(c)
	if sess == nil {
		return ErrNoSession
	}
	return sess.Set(j.Key(journeyID), value)
}

// Update loads the journey, applies fn and stores it again. It fails with
// ErrJourneyNotFound when the flow was never started or already finished.
func (j Journey[T]) Update(c *gin.Context, fn func(*T)) error {
	value, ok := j.Get(c)
	if !ok {
		return ErrJourneyNotFound
	}
	fn(value)
	return j.Set(c, value)
}

// Clear removes the journey for the request's journey id
func (j Journey[T]) Clear(c *gin.Context) {
	j.ClearFor(c, c.Param(JourneyIDParam))
}

// ClearFor removes the journey stored for journeyID
func (j Journey[T]) ClearFor(c *gin.Context, journeyID string) {
	if sess := FromContext(c); sess != nil {
		sess.Delete(j.Key(journeyID))
	}
}

// Require aborts with ErrJourneyNotFound unless the journey exists. Use it on
// every step after the first so handlers can rely on Get succeeding.
func (j Journey[T]) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := j.Get(c); !ok {
			_ = c.Error(ErrJourneyNotFound)
			c.Abort()
			return
		}
		c.Next()
	}
}
