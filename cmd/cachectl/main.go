// Command cachectl inspects, warms and clears the reference data cached in
// Redis, e.g. after appointment categories change upstream.
//
//	cachectl status MDI LEI
//	cachectl warm MDI LEI
//	cachectl clear
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"activitiesui/internal/activities"
	"activitiesui/internal/shared/config"
	"activitiesui/internal/shared/constants"
	"activitiesui/internal/shared/database"
	"activitiesui/pkg/cache"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	command, prisons := os.Args[1], os.Args[2:]

	client, err := database.NewRedisClient(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer client.Close()
	cacheService := cache.NewService(client)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch command {
	case "status":
		status(ctx, cacheService, prisons)
	case "warm":
		err = warm(ctx, cfg, cacheService, prisons)
	case "clear":
		err = cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_REFERENCE_ALL)
		if err == nil {
			fmt.Println("reference data cleared")
		}
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cachectl status|warm|clear [prison codes...]")
}

func referenceKeys(prisons []string) []string {
	keys := []string{constants.CACHE_KEY_APPOINTMENT_CATEGORIES, constants.CACHE_KEY_ATTENDANCE_REASONS}
	for _, prison := range prisons {
		keys = append(keys, constants.BuildAppointmentLocationsKey(prison), constants.BuildRolloutKey(prison))
	}
	return keys
}

func status(ctx context.Context, cacheService cache.Service, prisons []string) {
	for _, key := range referenceKeys(prisons) {
		ttl, err := cacheService.TTL(ctx, key)
		switch {
		case errors.Is(err, cache.ErrCacheMiss):
			fmt.Printf("MISS %s\n", key)
		case err != nil:
			fmt.Printf("ERR  %s: %v\n", key, err)
		default:
			fmt.Printf("HIT  %s (expires in %s)\n", key, ttl.Round(time.Second))
		}
	}
}

// warm loads reference data through the same service the app uses, which
// fills the cache on the way
func warm(ctx context.Context, cfg *config.Config, cacheService cache.Service, prisons []string) error {
	if token := os.Getenv("CACHECTL_API_TOKEN"); token != "" {
		ctx = activities.WithToken(ctx, token)
	}
	client := activities.NewClient(cfg.APIs.ActivitiesURL, cfg.APIs.Timeout, nil)
	service := activities.NewService(activities.NewActivitiesAPI(client), nil, cacheService)

	if _, err := service.GetAppointmentCategories(ctx); err != nil {
		return fmt.Errorf("appointment categories: %w", err)
	}
	if _, err := service.GetAttendanceReasons(ctx); err != nil {
		return fmt.Errorf("attendance reasons: %w", err)
	}
	for _, prison := range prisons {
		if _, err := service.GetAppointmentLocations(ctx, prison); err != nil {
			return fmt.Errorf("locations for %s: %w", prison, err)
		}
		if _, err := service.IsRolledOut(ctx, prison); err != nil {
			return fmt.Errorf("rollout for %s: %w", prison, err)
		}
	}
	status(ctx, cacheService, prisons)
	return nil
}
