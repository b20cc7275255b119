package appointments

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"activitiesui/internal/shared/validation"
)

type SelectPrisonerForm struct {
	PrisonerNumber string `form:"prisonerNumber"`
}

func (f SelectPrisonerForm) Validate() validation.Errors {
	var errs validation.Errors
	errs.Check("prisonerNumber", strings.TrimSpace(f.PrisonerNumber),
		validation.Required("Enter a prison number to search by"),
		validation.MaxLength(7, "Enter a valid prison number"),
	)
	return errs
}

type CategoryForm struct {
	CategoryCode string `form:"categoryCode"`
}

func (f CategoryForm) Validate(codes []string) validation.Errors {
	var errs validation.Errors
	errs.Check("categoryCode", f.CategoryCode,
		validation.Required("Select a category"),
		validation.OneOf(codes, "Select a category"),
	)
	return errs
}

type LocationForm struct {
	LocationID string `form:"locationId"`
}

func (f LocationForm) Validate() validation.Errors {
	var errs validation.Errors
	errs.Check("locationId", f.LocationID,
		validation.Required("Select a location"),
		validation.Numeric("Select a location"),
	)
	return errs
}

type DateAndTimeForm struct {
	Day         string `form:"startDate-day"`
	Month       string `form:"startDate-month"`
	Year        string `form:"startDate-year"`
	StartHour   string `form:"startTime-hour"`
	StartMinute string `form:"startTime-minute"`
	EndHour     string `form:"endTime-hour"`
	EndMinute   string `form:"endTime-minute"`
}

func (f DateAndTimeForm) StartDate() validation.SimpleDate {
	return validation.SimpleDate{Day: f.Day, Month: f.Month, Year: f.Year}
}

func (f DateAndTimeForm) StartTime() string {
	return clock(f.StartHour, f.StartMinute)
}

func (f DateAndTimeForm) EndTime() string {
	return clock(f.EndHour, f.EndMinute)
}

// Validate requires a date from today, a start time still to come and an
// end time after the start
func (f DateAndTimeForm) Validate(now func() time.Time) validation.Errors {
	var errs validation.Errors
	errs.CheckDate("startDate", f.StartDate(),
		validation.DateRequired("Enter a date for the appointment"),
		validation.ValidDate("Enter a valid date for the appointment"),
		validation.NotInPast(now, "Enter a date on or after today"),
	)

	start, end := f.StartTime(), f.EndTime()
	startsToday := f.StartDate().ISO() == validation.FormatISODate(now())
	startValid := validation.TimeOfDay("invalid")(start) == ""

	errs.Check("startTime", start,
		validation.Required("Select a start time for the appointment"),
		validation.TimeOfDay("Select a valid start time for the appointment"),
		validation.When(func() bool { return startsToday }, func(v string) string {
			if v <= now().Format("15:04") {
				return "Select a start time that is in the future"
			}
			return ""
		}),
	)
	errs.Check("endTime", end,
		validation.Required("Select an end time for the appointment"),
		validation.TimeOfDay("Select a valid end time for the appointment"),
		validation.When(func() bool { return startValid }, func(v string) string {
			if v <= start {
				return "Select an end time after the start time"
			}
			return ""
		}),
	)
	return errs
}

type RepeatForm struct {
	Repeat string `form:"repeat"`
}

func (f RepeatForm) Validate() validation.Errors {
	var errs validation.Errors
	errs.Check("repeat", f.Repeat,
		validation.Required("Select if the appointment repeats or not"),
		validation.OneOf([]string{"YES", "NO"}, "Select if the appointment repeats or not"),
	)
	return errs
}

type RepeatFrequencyAndCountForm struct {
	Frequency string `form:"frequency"`
	Count     string `form:"numberOfAppointments"`
}

func (f RepeatFrequencyAndCountForm) Validate() validation.Errors {
	var errs validation.Errors
	errs.Check("frequency", f.Frequency,
		validation.Required("Select how often the appointment will repeat"),
		validation.OneOf(Frequencies, "Select how often the appointment will repeat"),
	)
	errs.Check("numberOfAppointments", strings.TrimSpace(f.Count),
		validation.Required("Enter how many times the appointment will repeat"),
		validation.Numeric("Number of appointments must be a whole number"),
		validation.IntBetween(1, MaxRepeatCount, fmt.Sprintf("Number of appointments must be between 1 and %d", MaxRepeatCount)),
	)
	return errs
}

func (f RepeatFrequencyAndCountForm) CountValue() int {
	n, _ := strconv.Atoi(strings.TrimSpace(f.Count))
	return n
}

type CommentForm struct {
	ExtraInformation string `form:"extraInformation"`
}

func (f CommentForm) Validate() validation.Errors {
	var errs validation.Errors
	errs.Check("extraInformation", f.ExtraInformation,
		validation.MaxLength(4000, "You must enter extra information which has no more than 4,000 characters"),
	)
	return errs
}

func clock(hour, minute string) string {
	hour, minute = strings.TrimSpace(hour), strings.TrimSpace(minute)
	if hour == "" && minute == "" {
		return ""
	}
	if len(hour) == 1 {
		hour = "0" + hour
	}
	if len(minute) == 1 {
		minute = "0" + minute
	}
	return hour + ":" + minute
}

func splitClock(value string) (string, string) {
	hour, minute, _ := strings.Cut(value, ":")
	return hour, minute
}
