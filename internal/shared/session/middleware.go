package session

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextKey = "session"

// Options controls the session cookie
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Middleware loads the session named by the cookie (or starts a new one) and
// puts it on the gin context. Changes are written back to the store before
// the response header goes out, so a redirect never races the save.
func Middleware(store Store, opts Options) gin.HandlerFunc {
	if opts.CookieName == "" {
		opts.CookieName = "activities.session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 2 * time.Hour
	}

	return func(c *gin.Context) {
		sess, err := load(c, store, opts)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(contextKey, sess)

		w := &saveOnWriteWriter{ResponseWriter: c.Writer}
		w.save = func() { persist(c, store, opts, sess) }
		c.Writer = w

		c.Next()

		w.flushOnce()
	}
}

func load(c *gin.Context, store Store, opts Options) (*Session, error) {
	id, err := c.Cookie(opts.CookieName)
	if err != nil || id == "" {
		return New(uuid.NewString()), nil
	}

	sess, err := store.Load(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		return New(uuid.NewString()), nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func persist(c *gin.Context, store Store, opts Options, sess *Session) {
	if sess.Modified() {
		if err := store.Save(c.Request.Context(), sess, opts.TTL); err != nil {
			logger.GetDefault().ErrorWithContext(c.Request.Context(), "Failed to save session", err,
				map[string]interface{}{"path": c.Request.URL.Path})
			return
		}
	} else if sess.IsNew() {
		// nothing worth remembering yet, so no cookie either
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     opts.CookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromContext returns the request session, or nil outside the middleware
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*Session)
	return sess
}

// Regenerate swaps the session id while keeping its values, used after sign in
func Regenerate(c *gin.Context, store Store) error {
	sess := FromContext(c)
	if sess == nil {
		return ErrNoSession
	}
	if !sess.IsNew() {
		if err := store.Destroy(c.Request.Context(), sess.ID); err != nil {
			return err
		}
	}
	sess.ID = uuid.NewString()
	sess.modified = true
	return nil
}

// saveOnWriteWriter runs save exactly once, just before anything is written
type saveOnWriteWriter struct {
	gin.ResponseWriter
	once sync.Once
	save func()
}

func (w *saveOnWriteWriter) flushOnce() {
	w.once.Do(w.save)
}

func (w *saveOnWriteWriter) WriteHeader(code int) {
	w.flushOnce()
	w.ResponseWriter.WriteHeader(code)
}

func (w *saveOnWriteWriter) WriteHeaderNow() {
	w.flushOnce()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *saveOnWriteWriter) Write(data []byte) (int, error) {
	w.flushOnce()
	return w.ResponseWriter.Write(data)
}

func (w *saveOnWriteWriter) WriteString(s string) (int, error) {
	w.flushOnce()
	return w.ResponseWriter.WriteString(s)
}
