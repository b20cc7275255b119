package journey

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handler gin.HandlerFunc, url string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.GET("/*any", handler)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestStartNewJourneyInsertsID(t *testing.T) {
	handler := StartNewJourneyWith("create", func() string { return "journey-1" })

	rec := serve(t, handler, "/appointments/create/start-individual")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/appointments/create/journey-1/start-individual", rec.Header().Get("Location"))
}

func TestStartNewJourneyKeepsQuery(t *testing.T) {
	handler := StartNewJourneyWith("waitlist", func() string { return "j" })

	rec := serve(t, handler, "/waitlist/start?activityId=12&prisonerNumber=A1234BC")

	assert.Equal(t, "/waitlist/j/start?activityId=12&prisonerNumber=A1234BC", rec.Header().Get("Location"))
}

func TestStartNewJourneyUnchangedWithoutSegment(t *testing.T) {
	tests := []struct {
		name    string
		segment string
	}{
		{"empty segment", ""},
		{"segment not in path", "allocate"},
		{"partial match is not a match", "creat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := StartNewJourneyWith(tt.segment, func() string { return "unused" })

			rec := serve(t, handler, "/appointments/create/start-group")

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/appointments/create/start-group", rec.Header().Get("Location"))
		})
	}
}

func TestStartNewJourneyNeverReusesIDs(t *testing.T) {
	handler := StartNewJourney("create")
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		rec := serve(t, handler, "/appointments/create/start-individual")
		location := rec.Header().Get("Location")
		assert.False(t, seen[location], fmt.Sprintf("duplicate redirect %s", location))
		seen[location] = true
		assert.Regexp(t, `^/appointments/create/[0-9a-f-]{36}/start-individual$`, location)
	}
}

func TestInsertJourneyIdentifierFirstOccurrenceOnly(t *testing.T) {
	got, ok := InsertJourneyIdentifier("/create/x/create", "create", "id")

	assert.True(t, ok)
	assert.Equal(t, "/create/id/x/create", got)
}
