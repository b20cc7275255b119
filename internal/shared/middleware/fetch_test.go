package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"activitiesui/internal/shared/utils/response"
	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type occurrence struct {
	ID    int64
	Start time.Time
}

type series struct {
	ID          int64
	Occurrences []occurrence
}

type fakeLoader struct {
	calls  int
	result *series
	err    error
}

func (f *fakeLoader) load(c *gin.Context, id int64) (*series, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &series{ID: id}, nil
}

func seriesPreload(loader *fakeLoader, filters ...Filter[series]) gin.HandlerFunc {
	return Preload(PreloadConfig[series]{
		Param:   "seriesId",
		Key:     "series",
		Entity:  "appointment series",
		Load:    loader.load,
		ID:      func(s *series) int64 { return s.ID },
		Filters: filters,
	})
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.HTMLRender = response.ViewModelRender{}
	r.Use(ErrorHandler(logger.New()))
	return r
}

func TestPreloadSkipsFetchWhenCachedIDMatches(t *testing.T) {
	loader := &fakeLoader{}
	cached := &series{ID: 7}

	r := newEngine()
	r.GET("/series/:seriesId",
		func(c *gin.Context) { c.Set("series", cached) },
		seriesPreload(loader),
		func(c *gin.Context) {
			assert.Same(t, cached, MustLoaded[series](c, "series"))
			c.Status(http.StatusOK)
		})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/series/7", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, loader.calls)
}

func TestPreloadFetchesOnceOnMismatch(t *testing.T) {
	loader := &fakeLoader{}

	r := newEngine()
	r.GET("/series/:seriesId",
		func(c *gin.Context) { c.Set("series", &series{ID: 3}) },
		seriesPreload(loader),
		func(c *gin.Context) {
			loaded, ok := Loaded[series](c, "series")
			require.True(t, ok)
			assert.Equal(t, int64(9), loaded.ID)
			c.Status(http.StatusOK)
		})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/series/9", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, loader.calls)
}

func TestPreloadTwiceInOneChainFetchesOnce(t *testing.T) {
	loader := &fakeLoader{}

	r := newEngine()
	r.GET("/series/:seriesId", seriesPreload(loader), seriesPreload(loader), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/series/4", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, loader.calls)
}

func TestPreloadForwardsLoadErrors(t *testing.T) {
	loader := &fakeLoader{err: errors.New("connection refused")}
	handlerRan := false

	r := newEngine()
	r.GET("/series/:seriesId", seriesPreload(loader), func(c *gin.Context) {
		handlerRan = true
	})

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/series/5", nil))
	})

	assert.False(t, handlerRan)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"template":"pages/error"`)
}

type notFoundErr struct{}

func (notFoundErr) Error() string   { return "404 from upstream" }
func (notFoundErr) StatusCode() int { return http.StatusNotFound }

func TestPreloadUpstreamNotFoundRendersNotFound(t *testing.T) {
	loader := &fakeLoader{err: notFoundErr{}}

	r := newEngine()
	r.GET("/series/:seriesId", seriesPreload(loader), func(c *gin.Context) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/series/5", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreloadRejectsNonNumericID(t *testing.T) {
	loader := &fakeLoader{}

	r := newEngine()
	r.GET("/series/:seriesId", seriesPreload(loader), func(c *gin.Context) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/series/abc", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, loader.calls)
}

func TestPreloadAppliesFilters(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	loader := &fakeLoader{result: &series{ID: 1, Occurrences: []occurrence{
		{ID: 1, Start: now.Add(-24 * time.Hour)},
		{ID: 2, Start: now.Add(time.Hour)},
		{ID: 3, Start: now.Add(48 * time.Hour)},
	}}}
	futureOnly := func(c *gin.Context, s *series) {
		kept := s.Occurrences[:0]
		for _, o := range s.Occurrences {
			if o.Start.After(now) {
				kept = append(kept, o)
			}
		}
		s.Occurrences = kept
	}

	r := newEngine()
	r.GET("/series/:seriesId", seriesPreload(loader, futureOnly), func(c *gin.Context) {
		s := MustLoaded[series](c, "series")
		require.Len(t, s.Occurrences, 2)
		assert.Equal(t, int64(2), s.Occurrences[0].ID)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/series/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
