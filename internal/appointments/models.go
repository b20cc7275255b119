package appointments

import (
	"activitiesui/internal/activities"
	"activitiesui/internal/shared/session"
)

const JourneyName = "createAppointmentJourney"

// Journey modes
const (
	ModeCreate = "CREATE"
	ModeCopy   = "COPY"
)

// Repeat frequencies
const (
	FrequencyDaily       = "DAILY"
	FrequencyWeekday     = "WEEKDAY"
	FrequencyWeekly      = "WEEKLY"
	FrequencyFortnightly = "FORTNIGHTLY"
	FrequencyMonthly     = "MONTHLY"
)

var Frequencies = []string{FrequencyDaily, FrequencyWeekday, FrequencyWeekly, FrequencyFortnightly, FrequencyMonthly}

// MaxRepeatCount caps the occurrences in one series
const MaxRepeatCount = 312

type PrisonerRef struct {
	Number       string `json:"number"`
	Name         string `json:"name"`
	CellLocation string `json:"cellLocation,omitempty"`
}

type CategoryRef struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type LocationRef struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

// CreateJourney is the state of one create (or copy) appointment flow
type CreateJourney struct {
	Mode                string        `json:"mode"`
	Type                string        `json:"type"`
	Prisoners           []PrisonerRef `json:"prisoners"`
	Category            *CategoryRef  `json:"category,omitempty"`
	Location            *LocationRef  `json:"location,omitempty"`
	StartDate           string        `json:"startDate,omitempty"`
	StartTime           string        `json:"startTime,omitempty"`
	EndTime             string        `json:"endTime,omitempty"`
	Repeat              string        `json:"repeat,omitempty"`
	RepeatFrequency     string        `json:"repeatFrequency,omitempty"`
	RepeatCount         int           `json:"repeatCount,omitempty"`
	ExtraInformation    string        `json:"extraInformation,omitempty"`
	AppointmentSeriesID int64         `json:"appointmentSeriesId,omitempty"`
}

var Journey = session.NewJourney[CreateJourney](JourneyName)

// AddPrisoner adds p unless already present. Individual appointments hold one.
func (j *CreateJourney) AddPrisoner(p PrisonerRef) {
	for _, existing := range j.Prisoners {
		if existing.Number == p.Number {
			return
		}
	}
	if j.Type != activities.AppointmentGroup {
		j.Prisoners = j.Prisoners[:0]
	}
	j.Prisoners = append(j.Prisoners, p)
}

// RemovePrisoner drops a prisoner from a group
func (j *CreateJourney) RemovePrisoner(number string) {
	kept := j.Prisoners[:0]
	for _, p := range j.Prisoners {
		if p.Number != number {
			kept = append(kept, p)
		}
	}
	j.Prisoners = kept
}

func (j *CreateJourney) PrisonerNumbers() []string {
	out := make([]string, 0, len(j.Prisoners))
	for _, p := range j.Prisoners {
		out = append(out, p.Number)
	}
	return out
}

// Occurrences is how many appointments the series will hold
func (j *CreateJourney) Occurrences() int {
	if j.Repeat == "YES" && j.RepeatCount > 0 {
		return j.RepeatCount
	}
	return 1
}

func (j *CreateJourney) Submitted() bool {
	return j.AppointmentSeriesID != 0
}
