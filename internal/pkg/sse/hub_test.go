package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribersOnly(t *testing.T) {
	hub := NewHub(4)

	admin, closeAdmin := hub.Subscribe(AdminTopic)
	defer closeAdmin()
	worker, closeWorker := hub.Subscribe(WorkerTopic("w-1"))
	defer closeWorker()

	dropped := hub.Publish(AdminTopic, Event{Name: "clocked_in", Data: "x"})
	assert.Equal(t, 0, dropped)

	select {
	case e := <-admin:
		assert.Equal(t, AdminTopic, e.Topic)
		assert.Equal(t, "clocked_in", e.Name)
	default:
		t.Fatal("admin subscriber did not receive the event")
	}

	select {
	case e := <-worker:
		t.Fatalf("worker subscriber received %v", e)
	default:
	}
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(1)
	_, cleanup := hub.Subscribe(AdminTopic)
	defer cleanup()

	assert.Equal(t, 0, hub.Publish(AdminTopic, Event{Name: "a"}))
	assert.Equal(t, 1, hub.Publish(AdminTopic, Event{Name: "b"}))
}

func TestHub_PublishToMany(t *testing.T) {
	hub := NewHub(0)
	a, closeA := hub.Subscribe(AdminTopic)
	defer closeA()
	w, closeW := hub.Subscribe(WorkerTopic("w-1"))
	defer closeW()

	hub.PublishToMany([]string{AdminTopic, WorkerTopic("w-1")}, Event{Name: "clocked_out"})

	require.Len(t, a, 1)
	require.Len(t, w, 1)
	e := <-w
	assert.Equal(t, "worker:w-1", e.Topic)
}

func TestHub_CleanupUnsubscribes(t *testing.T) {
	hub := NewHub(0)
	ch, cleanup := hub.Subscribe(AdminTopic)
	_, other := hub.Subscribe(WorkerTopic("w-2"))
	defer other()

	assert.Equal(t, 1, hub.SubscriberCount(AdminTopic))
	assert.Equal(t, 2, hub.TotalSubscribers())

	cleanup()
	cleanup()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount(AdminTopic))
	assert.Equal(t, 1, hub.TotalSubscribers())
	assert.Equal(t, 0, hub.Publish(AdminTopic, Event{Name: "ignored"}))
}
