package tracking

import (
	"context"

	"activitiesui/pkg/logger"
)

// Observer counts published events
type Observer interface {
	ObserveTrackingEvent(event string, err error)
}

// Recorder is what handlers call once a journey completes. Publishing
// failures are logged and counted but never fail the request.
type Recorder struct {
	tracker  Tracker
	observer Observer
}

func NewRecorder(tracker Tracker, observer Observer) *Recorder {
	return &Recorder{tracker: tracker, observer: observer}
}

func (r *Recorder) Record(ctx context.Context, event *Event) {
	if r == nil || r.tracker == nil {
		return
	}
	err := r.tracker.Track(ctx, event)
	if r.observer != nil {
		r.observer.ObserveTrackingEvent(event.Name, err)
	}
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to publish tracking event", err,
			map[string]interface{}{"event": event.Name})
	}
}
