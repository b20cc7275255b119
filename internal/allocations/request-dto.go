package allocations

import (
	"strconv"
	"time"

	"activitiesui/internal/shared/validation"
)

type PayBandForm struct {
	PayBandID string `form:"payBand"`
}

func (f PayBandForm) Validate(ids []string) validation.Errors {
	var errs validation.Errors
	errs.Check("payBand", f.PayBandID,
		validation.Required("Select a pay rate"),
		validation.OneOf(ids, "Select a pay rate"),
	)
	return errs
}

func (f PayBandForm) ID() int64 {
	id, _ := strconv.ParseInt(f.PayBandID, 10, 64)
	return id
}

type StartDateForm struct {
	Day   string `form:"startDate-day"`
	Month string `form:"startDate-month"`
	Year  string `form:"startDate-year"`
}

func (f StartDateForm) Date() validation.SimpleDate {
	return validation.SimpleDate{Day: f.Day, Month: f.Month, Year: f.Year}
}

// Validate keeps the start date from today and within the activity's dates
func (f StartDateForm) Validate(now func() time.Time, activity ActivityRef) validation.Errors {
	var errs validation.Errors
	rules := []validation.DateRule{
		validation.DateRequired("Enter a start date"),
		validation.ValidDate("Enter a valid start date"),
		validation.NotInPast(now, "Enter a date on or after today"),
	}
	if t, err := validation.ParseISODate(activity.StartDate); err == nil {
		rules = append(rules, validation.NotBefore(func() time.Time { return t },
			"Enter a date on or after the activity's start date, "+t.Format("2 January 2006")))
	}
	if activity.EndDate != nil {
		if t, err := validation.ParseISODate(*activity.EndDate); err == nil {
			rules = append(rules, validation.NotInFuture(func() time.Time { return t },
				"Enter a date on or before the activity's end date, "+t.Format("2 January 2006")))
		}
	}
	errs.CheckDate("startDate", f.Date(), rules...)
	return errs
}

// EndDateForm is optional; a blank date means the allocation is open ended
type EndDateForm struct {
	Day   string `form:"endDate-day"`
	Month string `form:"endDate-month"`
	Year  string `form:"endDate-year"`
}

func (f EndDateForm) Date() validation.SimpleDate {
	return validation.SimpleDate{Day: f.Day, Month: f.Month, Year: f.Year}
}

func (f EndDateForm) Validate(startDate string, activity ActivityRef) validation.Errors {
	var errs validation.Errors
	if f.Date().IsBlank() {
		return errs
	}
	rules := []validation.DateRule{validation.ValidDate("Enter a valid end date")}
	if t, err := validation.ParseISODate(startDate); err == nil {
		rules = append(rules, validation.NotBefore(func() time.Time { return t }, "Enter a date on or after the allocation start date"))
	}
	if activity.EndDate != nil {
		if t, err := validation.ParseISODate(*activity.EndDate); err == nil {
			rules = append(rules, validation.NotInFuture(func() time.Time { return t },
				"Enter a date on or before the activity's end date, "+t.Format("2 January 2006")))
		}
	}
	errs.CheckDate("endDate", f.Date(), rules...)
	return errs
}
