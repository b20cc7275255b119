package middleware

import (
	"fmt"
	"strconv"

	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Filter trims a freshly loaded entity before handlers see it
type Filter[T any] func(c *gin.Context, entity *T)

// PreloadConfig describes how to load one kind of entity from a route id
type PreloadConfig[T any] struct {
	// Param is the route parameter holding the numeric id
	Param string
	// Key is the gin context key the entity is stored under
	Key string
	// Entity names the entity in logs
	Entity  string
	Load    func(c *gin.Context, id int64) (*T, error)
	ID      func(*T) int64
	Filters []Filter[T]
}

// Preload fetches the entity named by the route before the handler runs.
// An entity already on the context with the same id is reused. Load errors
// are recorded with c.Error for the error handler and the chain is aborted.
func Preload[T any](cfg PreloadConfig[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(cfg.Param)
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			_ = c.Error(fmt.Errorf("%s id %q: %w", cfg.Entity, raw, ErrInvalidEntityID))
			c.Abort()
			return
		}

		if cached, ok := Loaded[T](c, cfg.Key); ok && cfg.ID(cached) == id {
			c.Next()
			return
		}

		entity, err := cfg.Load(c, id)
		if err != nil {
			logger.GetDefault().LogBackendError(c.Request.Context(), cfg.Entity, id, err)
			_ = c.Error(fmt.Errorf("load %s %d: %w", cfg.Entity, id, err))
			c.Abort()
			return
		}

		for _, filter := range cfg.Filters {
			filter(c, entity)
		}
		c.Set(cfg.Key, entity)
		c.Next()
	}
}

// Loaded returns the entity a Preload stored under key
func Loaded[T any](c *gin.Context, key string) (*T, bool) {
	v, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	entity, ok := v.(*T)
	return entity, ok && entity != nil
}

// MustLoaded is Loaded for handlers mounted behind the matching Preload
func MustLoaded[T any](c *gin.Context, key string) *T {
	entity, ok := Loaded[T](c, key)
	if !ok {
		panic("middleware: no " + key + " preloaded")
	}
	return entity
}
