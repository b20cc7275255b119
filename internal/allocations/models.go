package allocations

import (
	"activitiesui/internal/shared/session"
)

const JourneyName = "allocateJourney"

type PrisonerRef struct {
	PrisonerNumber string `json:"prisonerNumber"`
	Name           string `json:"name"`
	CellLocation   string `json:"cellLocation,omitempty"`
}

type ActivityRef struct {
	ActivityID int64   `json:"activityId"`
	ScheduleID int64   `json:"scheduleId"`
	Name       string  `json:"name"`
	StartDate  string  `json:"startDate"`
	EndDate    *string `json:"endDate,omitempty"`
}

type PayBandRef struct {
	ID    int64  `json:"id"`
	Alias string `json:"alias"`
}

// AllocateJourney collects one prisoner's allocation to an activity
type AllocateJourney struct {
	Prisoner  PrisonerRef `json:"prisoner"`
	Activity  ActivityRef `json:"activity"`
	PayBand   *PayBandRef `json:"payBand,omitempty"`
	StartDate string      `json:"startDate,omitempty"`
	EndDate   string      `json:"endDate,omitempty"`
	Allocated bool        `json:"allocated"`
}

var Journey = session.NewJourney[AllocateJourney](JourneyName)
