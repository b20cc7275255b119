package waitlist

import (
	"strings"
	"time"

	"activitiesui/internal/shared/validation"
)

type RequestDateForm struct {
	Day   string `form:"requestDate-day"`
	Month string `form:"requestDate-month"`
	Year  string `form:"requestDate-year"`
}

func (f RequestDateForm) Date() validation.SimpleDate {
	return validation.SimpleDate{Day: f.Day, Month: f.Month, Year: f.Year}
}

// Validate checks the date is real, not in the future and at most three
// months old
func (f RequestDateForm) Validate(now func() time.Time) validation.Errors {
	var errs validation.Errors
	threeMonthsAgo := func() time.Time { return now().AddDate(0, -3, 0) }
	errs.CheckDate("requestDate", f.Date(),
		validation.DateRequired("Enter a request date"),
		validation.ValidDate("Enter a valid request date"),
		validation.NotInFuture(now, "Enter a date on or before today's date"),
		validation.NotBefore(threeMonthsAgo, "Enter a date within the last 3 months"),
	)
	return errs
}

type RequesterForm struct {
	Requester      string `form:"requester"`
	OtherRequester string `form:"otherRequester"`
}

func (f RequesterForm) Validate() validation.Errors {
	var errs validation.Errors
	errs.Check("requester", f.Requester,
		validation.Required("Select who requested the activity"),
		validation.OneOf(RequesterCodes(), "Select who requested the activity"),
	)
	errs.Check("otherRequester", strings.TrimSpace(f.OtherRequester),
		validation.When(func() bool { return f.Requester == RequesterSomeoneElse },
			validation.Required("Enter the name of the person who requested the activity"),
			validation.MaxLength(100, "The name must be 100 characters or less"),
		),
	)
	return errs
}

type CommentForm struct {
	Comment string `form:"comment"`
}

func (f CommentForm) Validate() validation.Errors {
	var errs validation.Errors
	errs.Check("comment", f.Comment, validation.MaxLength(500, "You must enter a comment which has no more than 500 characters"))
	return errs
}

type StatusForm struct {
	Status string `form:"status"`
}

func (f StatusForm) Validate() validation.Errors {
	var errs validation.Errors
	errs.Check("status", f.Status,
		validation.Required("Select a status for the application"),
		validation.OneOf(Statuses, "Select a status for the application"),
	)
	return errs
}
