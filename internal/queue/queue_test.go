package queue

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/jobseeker-backend/internal/model"
)

func TestPublishWithoutSubscribers(t *testing.T) {
	q := NewInMemoryQueue(nil)
	assert.Error(t, q.Publish(TopicEmailEvents, model.TrackingEvent{}))
}

func TestPublishRetriesUntilSuccess(t *testing.T) {
	q := NewInMemoryQueue(nil)
	q.Backoff = time.Millisecond

	var attempts int32
	require.NoError(t, q.Subscribe(TopicEmailEvents, func(payload any) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	}))

	require.NoError(t, q.Publish(TopicEmailEvents, model.TrackingEvent{TrackingID: "trk"}))
	q.Wait()
	assert.EqualValues(t, 3, atomic.LoadInt32(&attempts))
}

func TestPublishGivesUpAfterMaxRetries(t *testing.T) {
	q := NewInMemoryQueue(nil)
	q.Backoff = time.Millisecond
	q.MaxRetries = 2

	var attempts int32
	require.NoError(t, q.Subscribe(TopicEmailEvents, func(payload any) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("permanent")
	}))

	require.NoError(t, q.Publish(TopicEmailEvents, "x"))
	q.Wait()
	assert.EqualValues(t, 3, atomic.LoadInt32(&attempts))
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent(model.TrackingEvent{Type: model.EventEmailOpened, TrackingID: "a"})
	require.NoError(t, err)
	assert.Equal(t, "a", ev.TrackingID)

	ev, err = DecodeEvent([]byte(`{"type":"email.clicked","tracking_id":"b"}`))
	require.NoError(t, err)
	assert.Equal(t, model.EventEmailClicked, ev.Type)
	assert.Equal(t, "b", ev.TrackingID)

	_, err = DecodeEvent([]byte(`{`))
	assert.Error(t, err)

	_, err = DecodeEvent(42)
	assert.Error(t, err)
}
