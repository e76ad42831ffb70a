package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTracker_PublishSubscribe(t *testing.T) {
	tracker := NewTracker()
	ch := tracker.Subscribe()
	defer tracker.Unsubscribe(ch)

	tracker.Publish(10, false)
	tracker.Publish(100, true)

	first := receive(t, ch)
	require.Equal(t, 10, first.Percent)
	require.False(t, first.Complete)

	second := receive(t, ch)
	require.Equal(t, 100, second.Percent)
	require.True(t, second.Complete)
}

func TestTracker_PublishWithoutSubscribers(t *testing.T) {
	tracker := NewTracker()

	//must not block
	tracker.Publish(50, false)
}

func receive(t *testing.T, ch chan interface{}) Update {
	select {
	case v := <-ch:
		return v.(Update)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for progress update")
		return Update{}
	}
}
