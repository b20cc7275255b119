package tracking

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event names
const (
	EventAppointmentCreated          = "SAA-Appointment-Created"
	EventWaitlistApplicationLogged   = "SAA-Waitlist-Application-Logged"
	EventAllocationCreated           = "SAA-Allocation-Created"
	EventAttendanceRecorded          = "SAA-Attendance-Recorded"
	EventNotAttendedReasonsSubmitted = "SAA-Not-Attended-Reasons-Submitted"
)

// Event is one custom analytics event
type Event struct {
	ID         uuid.UUID         `json:"id"`
	Name       string            `json:"name"`
	Username   string            `json:"username"`
	PrisonCode string            `json:"prisonCode"`
	Properties map[string]string `json:"properties,omitempty"`
	Measures   map[string]int    `json:"measures,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewEvent stamps an event with a fresh id and the current time
func NewEvent(name, username, prisonCode string) *Event {
	return &Event{
		ID:         uuid.New(),
		Name:       name,
		Username:   username,
		PrisonCode: prisonCode,
		Properties: make(map[string]string),
		Measures:   make(map[string]int),
		Timestamp:  time.Now().UTC(),
	}
}

func (e *Event) With(key, value string) *Event {
	e.Properties[key] = value
	return e
}

func (e *Event) Measure(key string, value int) *Event {
	e.Measures[key] = value
	return e
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey keeps one prison's events in order
func (e *Event) PartitionKey() string {
	return e.PrisonCode
}
