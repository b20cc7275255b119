package waitlist

import (
	"activitiesui/internal/shared/session"
)

const JourneyName = "waitListApplicationJourney"

// ApplicationJourney is the state of one "log a waitlist application" flow
type ApplicationJourney struct {
	Prisoner       PrisonerRef `json:"prisoner"`
	Activity       ActivityRef `json:"activity"`
	RequestDate    string      `json:"requestDate,omitempty"`
	Requester      string      `json:"requester,omitempty"`
	OtherRequester string      `json:"otherRequester,omitempty"`
	Comment        string      `json:"comment,omitempty"`
	Status         string      `json:"status,omitempty"`
	ApplicationID  int64       `json:"applicationId,omitempty"`
}

type PrisonerRef struct {
	PrisonerNumber string `json:"prisonerNumber"`
	Name           string `json:"name"`
}

type ActivityRef struct {
	ActivityID int64  `json:"activityId"`
	ScheduleID int64  `json:"scheduleId"`
	Name       string `json:"name"`
}

// Submitted reports whether the application has been sent to the API
func (j *ApplicationJourney) Submitted() bool {
	return j.ApplicationID != 0
}

var Journey = session.NewJourney[ApplicationJourney](JourneyName)

// Application statuses
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusDeclined = "DECLINED"
)

var Statuses = []string{StatusPending, StatusApproved, StatusDeclined}

// RequesterOption is one answer to "who requested the activity"
type RequesterOption struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Requester codes with their own meaning in the flow
const (
	RequesterPrisoner    = "PRISONER"
	RequesterSomeoneElse = "SOMEONE_ELSE"
)

// Requesters is the closed list of requester codes in page order
var Requesters = []RequesterOption{
	{Code: RequesterPrisoner, Description: "Self-requested"},
	{Code: "GUIDANCE_STAFF", Description: "IAG or CXK careers information, advice and guidance staff"},
	{Code: "EDUCATION_STAFF", Description: "Education staff"},
	{Code: "WORKSHOP_STAFF", Description: "Workshop staff"},
	{Code: "ACTIVITY_LEADER", Description: "Activity leader"},
	{Code: "MENTAL_HEALTH_STAFF", Description: "Mental health staff"},
	{Code: "OFFENDER_MANAGER", Description: "Offender manager"},
	{Code: "OTHER", Description: "Other"},
	{Code: RequesterSomeoneElse, Description: "Someone else"},
}

// RequesterCodes returns every valid code
func RequesterCodes() []string {
	codes := make([]string, 0, len(Requesters))
	for _, r := range Requesters {
		codes = append(codes, r.Code)
	}
	return codes
}

// LookupRequester finds a code in the table
func LookupRequester(code string) (RequesterOption, bool) {
	for _, r := range Requesters {
		if r.Code == code {
			return r, true
		}
	}
	return RequesterOption{}, false
}

// WaitlistRequesterConverter turns a requester code into display text. The
// prisoner's own name stands in for PRISONER. Unknown codes give nil.
func WaitlistRequesterConverter(code, prisonerName string) *string {
	option, ok := LookupRequester(code)
	if !ok {
		return nil
	}
	if option.Code == RequesterPrisoner {
		return &prisonerName
	}
	description := option.Description
	return &description
}
