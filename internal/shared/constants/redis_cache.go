package constants

import (
	"time"
)

// Redis Cache Configuration
// Pattern: activities:{area}:{entity}:{identifier?}

// ================== CACHE TTL DURATIONS ==================

// Reference data (rarely changes)
const (
	TTL_STATIC_LONG   = 24 * time.Hour
	TTL_STATIC_MEDIUM = 12 * time.Hour
	TTL_STATIC_SHORT  = 1 * time.Hour
)

// Operational data
const (
	TTL_DYNAMIC_SHORT = 5 * time.Minute
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX      = "activities"
	SESSION_PREFIX    = CACHE_PREFIX + ":session:"
	RATE_LIMIT_PREFIX = CACHE_PREFIX + ":ratelimit"
)

// ================== REFERENCE DATA ==================

const (
	CACHE_KEY_APPOINTMENT_CATEGORIES = CACHE_PREFIX + ":reference:appointment-categories"
	CACHE_KEY_APPOINTMENT_LOCATIONS  = CACHE_PREFIX + ":reference:appointment-locations:" // + prison code
	CACHE_KEY_ATTENDANCE_REASONS     = CACHE_PREFIX + ":reference:attendance-reasons"
	CACHE_KEY_ROLLOUT                = CACHE_PREFIX + ":reference:rollout:" // + prison code
)

const (
	TTL_APPOINTMENT_CATEGORIES = TTL_STATIC_LONG
	TTL_APPOINTMENT_LOCATIONS  = TTL_STATIC_MEDIUM
	TTL_ATTENDANCE_REASONS     = TTL_STATIC_LONG
	TTL_ROLLOUT                = TTL_STATIC_SHORT
)

// ================== INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_REFERENCE_ALL = CACHE_PREFIX + ":reference:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildAppointmentLocationsKey(prisonCode string) string {
	return CACHE_KEY_APPOINTMENT_LOCATIONS + prisonCode
}

func BuildRolloutKey(prisonCode string) string {
	return CACHE_KEY_ROLLOUT + prisonCode
}

func BuildSessionKey(sessionID string) string {
	return SESSION_PREFIX + sessionID
}
