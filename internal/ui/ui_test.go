package ui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"activitiesui/internal/activities"
	"activitiesui/internal/shared/testutil"
	"activitiesui/internal/shared/utils/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	prison, term string
	err          error
}

func (f *fakeService) SearchPrisoners(ctx context.Context, prisonCode, term string) ([]activities.Prisoner, error) {
	f.prison, f.term = prisonCode, term
	if f.err != nil {
		return nil, f.err
	}
	return []activities.Prisoner{
		{PrisonerNumber: "A1234BC", FirstName: "JOE", LastName: "BLOGGS", CellLocation: "1-2-003"},
	}, nil
}

func newUIApp(t *testing.T, svc *fakeService) *testutil.App {
	app := testutil.NewApp(t)
	SetupUIRoutes(app.Group, NewController(svc), []string{"https://widgets.example"})
	return app
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) (response.StandardApiResponse, map[string]interface{}) {
	t.Helper()
	var body response.StandardApiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	data, _ := body.Data.(map[string]interface{})
	return body, data
}

func TestPrisonerSearch(t *testing.T) {
	svc := &fakeService{}
	app := newUIApp(t, svc)

	rec := app.Get("/ui/prisoner-search?query=" + url.QueryEscape(" bloggs "))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MDI", svc.prison)
	assert.Equal(t, "bloggs", svc.term)
	body, _ := decode(t, rec)
	results := body.Data.([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, map[string]interface{}{
		"prisonerNumber": "A1234BC",
		"name":           "Joe Bloggs",
		"cellLocation":   "1-2-003",
	}, results[0])
}

func TestPrisonerSearchShortQuery(t *testing.T) {
	svc := &fakeService{}
	app := newUIApp(t, svc)

	rec := app.Get("/ui/prisoner-search?query=a")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.term)
	body, _ := decode(t, rec)
	assert.Empty(t, body.Data)
}

func TestPrisonerSearchFailureIsJSON(t *testing.T) {
	app := newUIApp(t, &fakeService{err: errors.New("search down")})

	rec := app.Get("/ui/prisoner-search?query=bloggs")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestAccordionToggleAndSet(t *testing.T) {
	app := newUIApp(t, &fakeService{})

	rec := app.PostForm("/ui/accordion/monday", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decode(t, rec)
	assert.Equal(t, true, data["expanded"])

	rec = app.PostForm("/ui/accordion/monday", url.Values{})
	_, data = decode(t, rec)
	assert.Equal(t, false, data["expanded"])

	app.PostForm("/ui/accordion/tuesday", url.Values{"expanded": {"true"}})
	app.PostForm("/ui/accordion/monday", url.Values{"expanded": {"true"}})

	rec = app.Get("/ui/accordion?contentId=monday&contentId=tuesday")
	_, data = decode(t, rec)
	assert.Equal(t, map[string]interface{}{"monday": true, "tuesday": true}, data["sections"])
	assert.Equal(t, true, data["allExpanded"])

	rec = app.Get("/ui/accordion?contentId=monday&contentId=wednesday")
	_, data = decode(t, rec)
	assert.Equal(t, false, data["allExpanded"])
}

func TestAccordionExpandAndCollapseAll(t *testing.T) {
	app := newUIApp(t, &fakeService{})
	days := url.Values{"contentId": {"monday", "tuesday"}}

	app.PostForm("/ui/accordion/monday", url.Values{"expanded": {"true"}})
	rec := app.PostForm("/ui/accordion", days)
	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decode(t, rec)
	assert.Equal(t, map[string]interface{}{"monday": true, "tuesday": true}, data["sections"])
	assert.Equal(t, true, data["allExpanded"])

	rec = app.PostForm("/ui/accordion", days)
	_, data = decode(t, rec)
	assert.Equal(t, map[string]interface{}{"monday": false, "tuesday": false}, data["sections"])

	collapse := url.Values{"contentId": {"monday"}, "expanded": {"false"}}
	rec = app.PostForm("/ui/accordion", collapse)
	_, data = decode(t, rec)
	assert.Equal(t, false, data["allExpanded"])

	rec = app.PostForm("/ui/accordion", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	app := newUIApp(t, &fakeService{})

	for origin, allowed := range map[string]bool{"https://widgets.example": true, "https://evil.example": false} {
		req := httptest.NewRequest(http.MethodGet, "/ui/prisoner-search?query=bloggs", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		app.Engine.ServeHTTP(rec, req)

		if allowed {
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
		} else {
			assert.Equal(t, http.StatusForbidden, rec.Code)
		}
	}
}
