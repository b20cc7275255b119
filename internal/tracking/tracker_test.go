package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"activitiesui/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaTrackerPublishesEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event Event
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.Name != EventAppointmentCreated || event.Properties["appointmentSeriesId"] != "5" {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	tracker := NewKafkaTrackerWithProducer(producer, "activities-ui-events")
	event := NewEvent(EventAppointmentCreated, "JSMITH", "MDI").With("appointmentSeriesId", "5").Measure("prisonerCount", 1)

	require.NoError(t, tracker.Track(context.Background(), event))
	require.NoError(t, tracker.Close())
}

func TestKafkaTrackerSendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	tracker := NewKafkaTrackerWithProducer(producer, "activities-ui-events")
	err := tracker.Track(context.Background(), NewEvent(EventWaitlistApplicationLogged, "JSMITH", "MDI"))

	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, tracker.Close())
}

type countingObserver struct {
	sent, failed int
}

func (c *countingObserver) ObserveTrackingEvent(event string, err error) {
	if err != nil {
		c.failed++
		return
	}
	c.sent++
}

func TestRecorderSwallowsFailures(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndSucceed()
	producer.ExpectSendMessageAndFail(sarama.ErrNotConnected)

	observer := &countingObserver{}
	recorder := NewRecorder(NewKafkaTrackerWithProducer(producer, "events"), observer)

	recorder.Record(context.Background(), NewEvent(EventAllocationCreated, "JSMITH", "MDI"))
	recorder.Record(context.Background(), NewEvent(EventAllocationCreated, "JSMITH", "MDI"))

	assert.Equal(t, 1, observer.sent)
	assert.Equal(t, 1, observer.failed)
	require.NoError(t, producer.Close())
}

func TestLogTrackerAndNilRecorder(t *testing.T) {
	tracker := NewLogTracker(logger.New())
	assert.NoError(t, tracker.Track(context.Background(), NewEvent(EventAttendanceRecorded, "u", "MDI")))

	var recorder *Recorder
	recorder.Record(context.Background(), NewEvent(EventAttendanceRecorded, "u", "MDI"))
}

func TestDefaultKafkaConfig(t *testing.T) {
	cfg := DefaultKafkaConfig([]string{"kafka:9092"}, "events", "activities-ui")
	sc := cfg.SaramaConfig()

	assert.True(t, sc.Producer.Return.Successes)
	assert.Equal(t, "activities-ui", sc.ClientID)
	assert.NoError(t, sc.Validate())
}
