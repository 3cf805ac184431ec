package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npatel/recipebox-backend/internal/app/model"
)

func newTestClient(userID uint) *Client {
	return &Client{
		UserID:        userID,
		Send:          make(chan []byte, 1),
		Recipes:       make(map[uint]bool),
		LastResetTime: time.Now(),
	}
}

func sessionCount(h *Hub, userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := newTestClient(7)
	c2 := newTestClient(7)
	hub.Register(c1)
	hub.Register(c2)

	require.Eventually(t, func() bool {
		return sessionCount(hub, 7) == 2
	}, time.Second, 5*time.Millisecond)
	assert.True(t, hub.IsUserOnline(7))

	hub.Unregister(c1)
	require.Eventually(t, func() bool {
		return sessionCount(hub, 7) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Unregister(c2)
	require.Eventually(t, func() bool {
		return !hub.IsUserOnline(7)
	}, time.Second, 5*time.Millisecond)
}

func TestHub_DoubleUnregisterKeepsHubAlive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := newTestClient(7)
	c2 := newTestClient(7)
	hub.Register(c1)
	hub.Register(c2)

	require.Eventually(t, func() bool {
		return sessionCount(hub, 7) == 2
	}, time.Second, 5*time.Millisecond)

	// A session dropped for a stuck send buffer is unregistered again by its
	// read pump's teardown; the second pass must be a no-op
	hub.Unregister(c1)
	hub.Unregister(c1)

	require.Eventually(t, func() bool {
		return sessionCount(hub, 7) == 1
	}, time.Second, 5*time.Millisecond)

	// The dropped session's channel is closed exactly once
	select {
	case _, open := <-c1.Send:
		assert.False(t, open)
	default:
		t.Fatal("expected c1.Send to be closed")
	}

	// The hub goroutine survived: it still processes registrations
	c3 := newTestClient(8)
	hub.Register(c3)
	require.Eventually(t, func() bool {
		return hub.IsUserOnline(8)
	}, time.Second, 5*time.Millisecond)
	assert.True(t, hub.IsUserOnline(7), "the remaining session stays registered")
}

func TestHub_FeedbackPostedReachesWatchers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	watcher := newTestClient(7)
	hub.Register(watcher)
	require.Eventually(t, func() bool {
		return hub.IsUserOnline(7)
	}, time.Second, 5*time.Millisecond)

	hub.Subscribe(7, 101)
	assert.Equal(t, []uint{7}, hub.WatchersOf(101))

	score := 5
	hub.FeedbackPosted(101, &model.Feedback{
		ID:       42,
		RecipeID: 101,
		UserID:   3,
		Rating:   &model.Rating{FeedbackID: 42, Score: score},
	})

	select {
	case data := <-watcher.Send:
		var event FeedbackEventMessage
		require.NoError(t, json.Unmarshal(data, &event))
		assert.Equal(t, "rating_posted", event.Type)
		assert.Equal(t, uint(101), event.RecipeID)
	case <-time.After(time.Second):
		t.Fatal("watcher never received the feedback event")
	}
}

func TestHub_PosterDoesNotReceiveOwnEvent(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	poster := newTestClient(3)
	hub.Register(poster)
	require.Eventually(t, func() bool {
		return hub.IsUserOnline(3)
	}, time.Second, 5*time.Millisecond)

	hub.Subscribe(3, 101)

	hub.FeedbackPosted(101, &model.Feedback{ID: 43, RecipeID: 101, UserID: 3})

	select {
	case <-poster.Send:
		t.Fatal("poster received their own event")
	case <-time.After(50 * time.Millisecond):
	}
}
