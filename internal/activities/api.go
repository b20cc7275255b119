package activities

import (
	"context"
	"fmt"
	"net/url"
)

// ActivitiesAPI wraps the activities REST API
type ActivitiesAPI struct {
	client *Client
}

func NewActivitiesAPI(client *Client) *ActivitiesAPI {
	return &ActivitiesAPI{client: client}
}

func (a *ActivitiesAPI) GetActivity(ctx context.Context, id int64) (*Activity, error) {
	var out Activity
	if err := a.client.get(ctx, "activity", fmt.Sprintf("/activities/%d/filtered", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ActivitiesAPI) GetActivityPayBands(ctx context.Context, activityID int64) ([]PayBand, error) {
	var out []PayBand
	err := a.client.get(ctx, "activity-pay-bands", fmt.Sprintf("/activities/%d/pay-bands", activityID), nil, &out)
	return out, err
}

func (a *ActivitiesAPI) GetScheduledInstance(ctx context.Context, id int64) (*ScheduledInstance, error) {
	var out ScheduledInstance
	if err := a.client.get(ctx, "scheduled-instance", fmt.Sprintf("/scheduled-instances/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetScheduledInstances lists a prison's sessions on date, optionally for one slot
func (a *ActivitiesAPI) GetScheduledInstances(ctx context.Context, prisonCode, date, slot string) ([]ScheduledInstance, error) {
	query := url.Values{"startDate": {date}, "endDate": {date}}
	if slot != "" {
		query.Set("slot", slot)
	}
	var out []ScheduledInstance
	err := a.client.get(ctx, "scheduled-instances", fmt.Sprintf("/prisons/%s/scheduled-instances", url.PathEscape(prisonCode)), query, &out)
	return out, err
}

func (a *ActivitiesAPI) UpdateAttendances(ctx context.Context, updates []AttendanceUpdate) error {
	return a.client.put(ctx, "attendances", "/attendances", updates, nil)
}

func (a *ActivitiesAPI) GetAttendanceReasons(ctx context.Context) ([]AttendanceReason, error) {
	var out []AttendanceReason
	err := a.client.get(ctx, "attendance-reasons", "/attendance-reasons", nil, &out)
	return out, err
}

func (a *ActivitiesAPI) GetAppointment(ctx context.Context, id int64) (*Appointment, error) {
	var out Appointment
	if err := a.client.get(ctx, "appointment", fmt.Sprintf("/appointments/%d/details", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ActivitiesAPI) CreateAppointmentSeries(ctx context.Context, req AppointmentSeriesCreateRequest) (*AppointmentSeries, error) {
	var out AppointmentSeries
	if err := a.client.post(ctx, "appointment-series-create", "/appointment-series", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ActivitiesAPI) GetAppointmentSeries(ctx context.Context, id int64) (*AppointmentSeries, error) {
	var out AppointmentSeries
	if err := a.client.get(ctx, "appointment-series", fmt.Sprintf("/appointment-series/%d/details", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ActivitiesAPI) GetAppointmentSet(ctx context.Context, id int64) (*AppointmentSet, error) {
	var out AppointmentSet
	if err := a.client.get(ctx, "appointment-set", fmt.Sprintf("/appointment-set/%d/details", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ActivitiesAPI) GetAppointmentCategories(ctx context.Context) ([]AppointmentCategory, error) {
	var out []AppointmentCategory
	err := a.client.get(ctx, "appointment-categories", "/appointment-categories", nil, &out)
	return out, err
}

func (a *ActivitiesAPI) GetAppointmentLocations(ctx context.Context, prisonCode string) ([]Location, error) {
	var out []Location
	err := a.client.get(ctx, "appointment-locations", "/appointment-locations/"+url.PathEscape(prisonCode), nil, &out)
	return out, err
}

func (a *ActivitiesAPI) LogWaitlistApplication(ctx context.Context, prisonCode string, req WaitingListApplicationRequest) (*WaitingListApplication, error) {
	var out WaitingListApplication
	path := fmt.Sprintf("/allocations/%s/waiting-list-application", url.PathEscape(prisonCode))
	if err := a.client.post(ctx, "waiting-list-application", path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ActivitiesAPI) Allocate(ctx context.Context, scheduleID int64, req AllocationRequest) error {
	return a.client.post(ctx, "allocate", fmt.Sprintf("/schedules/%d/allocations", scheduleID), req, nil)
}

func (a *ActivitiesAPI) GetRolloutPrison(ctx context.Context, prisonCode string) (*RolloutPrison, error) {
	var out RolloutPrison
	if err := a.client.get(ctx, "rollout", "/rollout/"+url.PathEscape(prisonCode), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ActivitiesAPI) GetDailyAttendanceSummary(ctx context.Context, prisonCode, date string) ([]AttendanceSummaryRow, error) {
	var out []AttendanceSummaryRow
	path := fmt.Sprintf("/prisons/%s/daily-attendance-summary", url.PathEscape(prisonCode))
	err := a.client.get(ctx, "daily-attendance-summary", path, url.Values{"date": {date}}, &out)
	return out, err
}
