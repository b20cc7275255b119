package reporting

import (
	"math"

	"activitiesui/internal/activities"
)

// Totals adds up a day's attendance across every category
type Totals struct {
	Attended    int `json:"attended"`
	NotAttended int `json:"notAttended"`
	NotRecorded int `json:"notRecorded"`
	Cancelled   int `json:"cancelled"`
}

// Expected is every attendance that should have happened, cancelled
// sessions excluded
func (t Totals) Expected() int {
	return t.Attended + t.NotAttended + t.NotRecorded
}

// AttendanceRate is the attended share of expected attendances as a whole
// percentage. A day with nothing expected has a rate of 0.
func (t Totals) AttendanceRate() int {
	expected := t.Expected()
	if expected == 0 {
		return 0
	}
	return int(math.Round(float64(t.Attended) * 100 / float64(expected)))
}

type CategoryRow struct {
	Category       string `json:"category"`
	Totals         Totals `json:"totals"`
	AttendanceRate int    `json:"attendanceRate"`
}

type DailySummary struct {
	Date           string        `json:"date"`
	Categories     []CategoryRow `json:"categories"`
	Totals         Totals        `json:"totals"`
	AttendanceRate int           `json:"attendanceRate"`
}

// Summarise folds the per-category rows, merging repeated categories and
// keeping the order they first appear in
func Summarise(date string, rows []activities.AttendanceSummaryRow) DailySummary {
	summary := DailySummary{Date: date, Categories: []CategoryRow{}}
	index := make(map[string]int)

	for _, row := range rows {
		i, seen := index[row.CategoryName]
		if !seen {
			i = len(summary.Categories)
			index[row.CategoryName] = i
			summary.Categories = append(summary.Categories, CategoryRow{Category: row.CategoryName})
		}
		t := &summary.Categories[i].Totals
		t.Attended += row.Attended
		t.NotAttended += row.NotAttended
		t.NotRecorded += row.NotRecorded
		t.Cancelled += row.Cancelled

		summary.Totals.Attended += row.Attended
		summary.Totals.NotAttended += row.NotAttended
		summary.Totals.NotRecorded += row.NotRecorded
		summary.Totals.Cancelled += row.Cancelled
	}

	for i := range summary.Categories {
		summary.Categories[i].AttendanceRate = summary.Categories[i].Totals.AttendanceRate()
	}
	summary.AttendanceRate = summary.Totals.AttendanceRate()
	return summary
}
