package activities

import (
	"strings"
	"time"
)

// Dates travel as YYYY-MM-DD and times as HH:MM, both prison local time.

type ActivityCategory struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type Activity struct {
	ID          int64              `json:"id"`
	PrisonCode  string             `json:"prisonCode"`
	Summary     string             `json:"summary"`
	Description string             `json:"description,omitempty"`
	Category    ActivityCategory   `json:"category"`
	InCell      bool               `json:"inCell"`
	StartDate   string             `json:"startDate"`
	EndDate     *string            `json:"endDate,omitempty"`
	Schedules   []ActivitySchedule `json:"schedules"`
	Pay         []ActivityPay      `json:"pay,omitempty"`
}

// ScheduleID is the schedule allocations and waitlist entries hang off.
// Activities currently carry a single schedule.
func (a *Activity) ScheduleID() int64 {
	if len(a.Schedules) == 0 {
		return 0
	}
	return a.Schedules[0].ID
}

type ActivitySchedule struct {
	ID          int64        `json:"id"`
	Description string       `json:"description"`
	Capacity    int          `json:"capacity"`
	Allocations []Allocation `json:"allocations,omitempty"`
}

type ActivityPay struct {
	IncentiveLevel string  `json:"incentiveLevel"`
	PrisonPayBand  PayBand `json:"prisonPayBand"`
	Rate           int     `json:"rate"`
}

type PayBand struct {
	ID              int64  `json:"id"`
	Alias           string `json:"alias"`
	Description     string `json:"description,omitempty"`
	DisplaySequence int    `json:"displaySequence"`
}

type ActivityLite struct {
	ID       int64            `json:"id"`
	Summary  string           `json:"summary"`
	Category ActivityCategory `json:"category"`
}

type ScheduleLite struct {
	ID          int64        `json:"id"`
	Description string       `json:"description"`
	Activity    ActivityLite `json:"activity"`
}

type ScheduledInstance struct {
	ID               int64        `json:"id"`
	Date             string       `json:"date"`
	StartTime        string       `json:"startTime"`
	EndTime          string       `json:"endTime"`
	TimeSlot         string       `json:"timeSlot"`
	Cancelled        bool         `json:"cancelled"`
	ActivitySchedule ScheduleLite `json:"activitySchedule"`
	Attendances      []Attendance `json:"attendances"`
}

// Time slots
const (
	SlotAM = "AM"
	SlotPM = "PM"
	SlotED = "ED"
)

// Attendance statuses
const (
	AttendanceWaiting   = "WAITING"
	AttendanceCompleted = "COMPLETED"
)

// Attendance reason codes used by this service
const (
	ReasonAttended = "ATTENDED"
	ReasonSick     = "SICK"
	ReasonRefused  = "REFUSED"
)

type AttendanceReason struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Attended    bool   `json:"attended"`
}

type Attendance struct {
	ID                  int64             `json:"id"`
	ScheduledInstanceID int64             `json:"scheduleInstanceId"`
	PrisonerNumber      string            `json:"prisonerNumber"`
	Status              string            `json:"status"`
	AttendanceReason    *AttendanceReason `json:"attendanceReason,omitempty"`
	Comment             *string           `json:"comment,omitempty"`
}

// AttendanceUpdate records the outcome for one attendance
type AttendanceUpdate struct {
	ID               int64   `json:"id"`
	PrisonCode       string  `json:"prisonCode"`
	Status           string  `json:"status"`
	AttendanceReason string  `json:"attendanceReason"`
	Comment          *string `json:"comment,omitempty"`
}

// CountAttendance splits an instance's attendances by outcome
func (si *ScheduledInstance) CountAttendance() (attended, notAttended, notRecorded int) {
	for _, a := range si.Attendances {
		switch {
		case a.Status != AttendanceCompleted || a.AttendanceReason == nil:
			notRecorded++
		case a.AttendanceReason.Attended:
			attended++
		default:
			notAttended++
		}
	}
	return attended, notAttended, notRecorded
}

// AttendanceFor returns the prisoner's attendance on this instance
func (si *ScheduledInstance) AttendanceFor(prisonerNumber string) (*Attendance, bool) {
	for i := range si.Attendances {
		if si.Attendances[i].PrisonerNumber == prisonerNumber {
			return &si.Attendances[i], true
		}
	}
	return nil, false
}

type AppointmentCategory struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type Location struct {
	ID          int64  `json:"id"`
	PrisonCode  string `json:"prisonCode"`
	Description string `json:"description"`
}

type Prisoner struct {
	PrisonerNumber string `json:"prisonerNumber"`
	BookingID      string `json:"bookingId,omitempty"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	PrisonID       string `json:"prisonId"`
	CellLocation   string `json:"cellLocation,omitempty"`
	Status         string `json:"status,omitempty"`
}

// DisplayName is "First Last" with each word capitalised
func (p Prisoner) DisplayName() string {
	return strings.TrimSpace(capitalise(p.FirstName) + " " + capitalise(p.LastName))
}

func capitalise(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Appointment types
const (
	AppointmentIndividual = "INDIVIDUAL"
	AppointmentGroup      = "GROUP"
)

type AppointmentAttendee struct {
	ID       int64    `json:"id"`
	Prisoner Prisoner `json:"prisoner"`
}

type Appointment struct {
	ID                  int64                 `json:"id"`
	AppointmentSeriesID int64                 `json:"appointmentSeriesId,omitempty"`
	SequenceNumber      int                   `json:"sequenceNumber"`
	PrisonCode          string                `json:"prisonCode"`
	Category            AppointmentCategory   `json:"category"`
	InternalLocation    *Location             `json:"internalLocation,omitempty"`
	StartDate           string                `json:"startDate"`
	StartTime           string                `json:"startTime"`
	EndTime             string                `json:"endTime,omitempty"`
	ExtraInformation    string                `json:"extraInformation,omitempty"`
	Attendees           []AppointmentAttendee `json:"attendees"`
	Cancelled           bool                  `json:"isCancelled"`
}

// StartsAt combines the start date and time in loc
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, bool) {
	return startsAt(a.StartDate, a.StartTime, loc)
}

type AppointmentFrequency struct {
	Frequency            string `json:"frequency"`
	NumberOfAppointments int    `json:"numberOfAppointments"`
}

type AppointmentSeries struct {
	ID              int64                 `json:"id"`
	AppointmentType string                `json:"appointmentType"`
	PrisonCode      string                `json:"prisonCode"`
	Category        AppointmentCategory   `json:"category"`
	StartDate       string                `json:"startDate"`
	StartTime       string                `json:"startTime"`
	EndTime         string                `json:"endTime,omitempty"`
	Schedule        *AppointmentFrequency `json:"schedule,omitempty"`
	Appointments    []Appointment         `json:"appointments"`
}

// AppointmentSet is a bulk appointment: several prisoners, one category and
// day, staggered times
type AppointmentSet struct {
	ID           int64               `json:"id"`
	PrisonCode   string              `json:"prisonCode"`
	Category     AppointmentCategory `json:"category"`
	StartDate    string              `json:"startDate"`
	Appointments []Appointment       `json:"appointments"`
}

// FutureAppointments keeps the appointments starting after now
func FutureAppointments(appointments []Appointment, now time.Time) []Appointment {
	kept := make([]Appointment, 0, len(appointments))
	for _, a := range appointments {
		start, ok := a.StartsAt(now.Location())
		if ok && start.After(now) {
			kept = append(kept, a)
		}
	}
	return kept
}

type AppointmentSchedule struct {
	Frequency            string `json:"frequency"`
	NumberOfAppointments int    `json:"numberOfAppointments"`
}

type AppointmentSeriesCreateRequest struct {
	AppointmentType    string               `json:"appointmentType"`
	PrisonCode         string               `json:"prisonCode"`
	PrisonerNumbers    []string             `json:"prisonerNumbers"`
	CategoryCode       string               `json:"categoryCode"`
	InternalLocationID int64                `json:"internalLocationId"`
	StartDate          string               `json:"startDate"`
	StartTime          string               `json:"startTime"`
	EndTime            string               `json:"endTime"`
	Schedule           *AppointmentSchedule `json:"schedule,omitempty"`
	ExtraInformation   string               `json:"extraInformation,omitempty"`
}

type WaitingListApplicationRequest struct {
	PrisonerNumber     string  `json:"prisonerNumber"`
	ActivityScheduleID int64   `json:"activityScheduleId"`
	ApplicationDate    string  `json:"applicationDate"`
	RequestedBy        string  `json:"requestedBy"`
	Comments           *string `json:"comments,omitempty"`
	Status             string  `json:"status"`
}

type WaitingListApplication struct {
	ID                 int64  `json:"id"`
	PrisonerNumber     string `json:"prisonerNumber"`
	ActivityScheduleID int64  `json:"activityScheduleId"`
	ApplicationDate    string `json:"applicationDate"`
	RequestedBy        string `json:"requestedBy"`
	Status             string `json:"status"`
}

type Allocation struct {
	ID             int64    `json:"id"`
	PrisonerNumber string   `json:"prisonerNumber"`
	ScheduleID     int64    `json:"scheduleId"`
	PrisonPayBand  *PayBand `json:"prisonPayBand,omitempty"`
	StartDate      string   `json:"startDate"`
	EndDate        *string  `json:"endDate,omitempty"`
	Status         string   `json:"status"`
}

type AllocationRequest struct {
	PrisonerNumber string  `json:"prisonerNumber"`
	PayBandID      int64   `json:"payBandId"`
	StartDate      string  `json:"startDate"`
	EndDate        *string `json:"endDate,omitempty"`
}

type RolloutPrison struct {
	PrisonCode            string `json:"prisonCode"`
	ActivitiesRolledOut   bool   `json:"activitiesRolledOut"`
	AppointmentsRolledOut bool   `json:"appointmentsRolledOut"`
}

// AttendanceSummaryRow is one activity category's attendance for a day
type AttendanceSummaryRow struct {
	CategoryName string `json:"categoryName"`
	Attended     int    `json:"attended"`
	NotAttended  int    `json:"notAttended"`
	NotRecorded  int    `json:"notRecorded"`
	Cancelled    int    `json:"cancelled"`
}

func startsAt(date, clock string, loc *time.Location) (time.Time, bool) {
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
