package activities

import (
	"context"
	"fmt"
	"strings"
	"time"

	"activitiesui/internal/shared/constants"
	"activitiesui/pkg/cache"
	"activitiesui/pkg/logger"
)

// Service is the facade handlers talk to. Reference data that rarely
// changes is cached in Redis when a cache is configured.
type Service struct {
	*ActivitiesAPI
	prisoners *PrisonerSearchAPI
	cache     cache.Service
}

// NewService builds the facade. cacheService may be nil.
func NewService(api *ActivitiesAPI, prisoners *PrisonerSearchAPI, cacheService cache.Service) *Service {
	return &Service{ActivitiesAPI: api, prisoners: prisoners, cache: cacheService}
}

func (s *Service) cached(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) (interface{}, error), dest interface{}) error {
	if s.cache == nil {
		v, err := fetch(ctx)
		if err != nil {
			return err
		}
		return assign(v, dest)
	}
	return s.cache.GetOrSet(ctx, key, ttl, fetch, dest)
}

func (s *Service) GetAppointmentCategories(ctx context.Context) ([]AppointmentCategory, error) {
	var out []AppointmentCategory
	err := s.cached(ctx, constants.CACHE_KEY_APPOINTMENT_CATEGORIES, constants.TTL_APPOINTMENT_CATEGORIES,
		func(ctx context.Context) (interface{}, error) { return s.ActivitiesAPI.GetAppointmentCategories(ctx) }, &out)
	return out, err
}

func (s *Service) GetAppointmentLocations(ctx context.Context, prisonCode string) ([]Location, error) {
	var out []Location
	err := s.cached(ctx, constants.BuildAppointmentLocationsKey(prisonCode), constants.TTL_APPOINTMENT_LOCATIONS,
		func(ctx context.Context) (interface{}, error) { return s.ActivitiesAPI.GetAppointmentLocations(ctx, prisonCode) }, &out)
	return out, err
}

func (s *Service) GetAttendanceReasons(ctx context.Context) ([]AttendanceReason, error) {
	var out []AttendanceReason
	err := s.cached(ctx, constants.CACHE_KEY_ATTENDANCE_REASONS, constants.TTL_ATTENDANCE_REASONS,
		func(ctx context.Context) (interface{}, error) { return s.ActivitiesAPI.GetAttendanceReasons(ctx) }, &out)
	return out, err
}

// IsRolledOut reports whether prisonCode has activities switched on
func (s *Service) IsRolledOut(ctx context.Context, prisonCode string) (bool, error) {
	var out RolloutPrison
	err := s.cached(ctx, constants.BuildRolloutKey(prisonCode), constants.TTL_ROLLOUT,
		func(ctx context.Context) (interface{}, error) { return s.ActivitiesAPI.GetRolloutPrison(ctx, prisonCode) }, &out)
	if IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("rollout status for %s: %w", prisonCode, err)
	}
	return out.ActivitiesRolledOut, nil
}

// FindCategory looks a code up in the cached category list
func (s *Service) FindCategory(ctx context.Context, code string) (*AppointmentCategory, error) {
	categories, err := s.GetAppointmentCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].Code == code {
			return &categories[i], nil
		}
	}
	return nil, nil
}

// FindLocation looks an id up in the prison's cached location list
func (s *Service) FindLocation(ctx context.Context, prisonCode string, id int64) (*Location, error) {
	locations, err := s.GetAppointmentLocations(ctx, prisonCode)
	if err != nil {
		return nil, err
	}
	for i := range locations {
		if locations[i].ID == id {
			return &locations[i], nil
		}
	}
	return nil, nil
}

// GetPrisoner returns nil without an error when the number is unknown
func (s *Service) GetPrisoner(ctx context.Context, prisonerNumber string) (*Prisoner, error) {
	prisoner, err := s.prisoners.GetPrisoner(ctx, strings.ToUpper(strings.TrimSpace(prisonerNumber)))
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		logger.GetDefault().LogBackendError(ctx, "prisoner", prisonerNumber, err)
		return nil, err
	}
	return prisoner, nil
}

// GetPrisoners looks up several prisoners, skipping unknown numbers
func (s *Service) GetPrisoners(ctx context.Context, prisonerNumbers []string) (map[string]Prisoner, error) {
	out := make(map[string]Prisoner, len(prisonerNumbers))
	for _, number := range prisonerNumbers {
		if _, done := out[number]; done {
			continue
		}
		prisoner, err := s.GetPrisoner(ctx, number)
		if err != nil {
			return nil, err
		}
		if prisoner != nil {
			out[number] = *prisoner
		}
	}
	return out, nil
}

func (s *Service) SearchPrisoners(ctx context.Context, prisonCode, term string) ([]Prisoner, error) {
	return s.prisoners.SearchPrisoners(ctx, prisonCode, term)
}
