package reporting

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"activitiesui/internal/activities"
	"activitiesui/internal/shared/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRate(t *testing.T) {
	tests := []struct {
		name   string
		totals Totals
		want   int
	}{
		{"nothing expected", Totals{}, 0},
		{"only cancelled", Totals{Cancelled: 4}, 0},
		{"all attended", Totals{Attended: 5, Cancelled: 2}, 100},
		{"two thirds", Totals{Attended: 2, NotAttended: 1}, 67},
		{"unrecorded counts against", Totals{Attended: 1, NotRecorded: 3}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.totals.AttendanceRate())
		})
	}
}

func TestSummariseMergesCategories(t *testing.T) {
	summary := Summarise("2024-06-10", []activities.AttendanceSummaryRow{
		{CategoryName: "Education", Attended: 3, NotAttended: 1},
		{CategoryName: "Industries", Attended: 2, NotRecorded: 2, Cancelled: 1},
		{CategoryName: "Education", Attended: 1, NotRecorded: 1},
	})

	require.Len(t, summary.Categories, 2)
	assert.Equal(t, "Education", summary.Categories[0].Category)
	assert.Equal(t, Totals{Attended: 4, NotAttended: 1, NotRecorded: 1}, summary.Categories[0].Totals)
	assert.Equal(t, 67, summary.Categories[0].AttendanceRate)
	assert.Equal(t, 50, summary.Categories[1].AttendanceRate)
	assert.Equal(t, Totals{Attended: 6, NotAttended: 1, NotRecorded: 3, Cancelled: 1}, summary.Totals)
	assert.Equal(t, 60, summary.AttendanceRate)
}

func TestSummariseEmpty(t *testing.T) {
	summary := Summarise("2024-06-10", nil)

	assert.NotNil(t, summary.Categories)
	assert.Empty(t, summary.Categories)
	assert.Equal(t, 0, summary.AttendanceRate)
}

type fakeService struct {
	prison, date string
	rows         []activities.AttendanceSummaryRow
	err          error
}

func (f *fakeService) GetDailyAttendanceSummary(ctx context.Context, prisonCode, date string) ([]activities.AttendanceSummaryRow, error) {
	f.prison, f.date = prisonCode, date
	return f.rows, f.err
}

func newReportingApp(t *testing.T, svc *fakeService) *testutil.App {
	app := testutil.NewApp(t)
	controller := NewController(svc)
	controller.now = func() time.Time { return time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC) }
	SetupReportingRoutes(app.Group, controller)
	return app
}

func TestDailyAttendancePage(t *testing.T) {
	svc := &fakeService{rows: []activities.AttendanceSummaryRow{{CategoryName: "Gym", Attended: 3, NotAttended: 1}}}
	app := newReportingApp(t, svc)

	rec := app.Get("/reporting/daily-attendance?date=2024-06-03")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MDI", svc.prison)
	assert.Equal(t, "2024-06-03", svc.date)
	vm := testutil.ViewModel(t, rec)
	assert.Equal(t, "reporting/daily-attendance", vm.Template)
	summary := vm.Context["summary"].(map[string]interface{})
	assert.Equal(t, float64(75), summary["attendanceRate"])
}

func TestDailyAttendanceDefaultsToToday(t *testing.T) {
	svc := &fakeService{}
	app := newReportingApp(t, svc)

	rec := app.Get("/reporting/daily-attendance")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-06-10", svc.date)
}

func TestDailyAttendanceRejectsBadDate(t *testing.T) {
	svc := &fakeService{}
	app := newReportingApp(t, svc)

	rec := app.Get("/reporting/daily-attendance?date=10-06-2024")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Enter a valid date", testutil.FieldErrors(t, rec)["date"])
	assert.Empty(t, svc.date)
}

func TestDailyAttendanceMissingSummaryIsEmpty(t *testing.T) {
	svc := &fakeService{err: &activities.APIError{Status: http.StatusNotFound}}
	app := newReportingApp(t, svc)

	rec := app.Get("/reporting/daily-attendance?date=2024-06-03")

	require.Equal(t, http.StatusOK, rec.Code)
	summary := testutil.ViewModel(t, rec).Context["summary"].(map[string]interface{})
	assert.Empty(t, summary["categories"])
}

func TestDailyAttendanceBackendFailure(t *testing.T) {
	svc := &fakeService{err: errors.New("timeout")}
	app := newReportingApp(t, svc)

	rec := app.Get("/reporting/daily-attendance?date=2024-06-03")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
