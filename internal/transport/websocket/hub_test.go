package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knightd/internal/domain"
	"knightd/internal/logger"
)

func TestSendWithoutSubscribers(t *testing.T) {
	hub := NewHub(logger.Discard())
	go hub.Run()

	err := hub.Send(context.Background(), "ops", "report")
	assert.ErrorIs(t, err, domain.ErrNoSubscribers)
}

func TestSendReachesSubscriber(t *testing.T) {
	hub := NewHub(logger.Discard())
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, 1), log: logger.Discard()}
	hub.register <- client
	hub.subscribe <- &Subscription{client: client, channel: "ops"}

	require.NoError(t, hub.Send(context.Background(), "ops", "🖥 report text"))

	select {
	case raw := <-client.send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "ops", msg.Channel)
		assert.Equal(t, "status.report", msg.Event)
		assert.Equal(t, "🖥 report text", msg.Payload)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestSendDoesNotLeakAcrossChannels(t *testing.T) {
	hub := NewHub(logger.Discard())
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, 1), log: logger.Discard()}
	hub.register <- client
	hub.subscribe <- &Subscription{client: client, channel: "ops"}

	err := hub.Send(context.Background(), "other", "report")
	assert.ErrorIs(t, err, domain.ErrNoSubscribers)
	assert.Empty(t, client.send)
}

func TestSendHonorsContext(t *testing.T) {
	hub := NewHub(logger.Discard())
	// Hub not running: Send must give up when the context is cancelled.

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Fill the outbound buffer so the enqueue select blocks.
	for i := 0; i < cap(hub.outbound); i++ {
		hub.outbound <- &delivery{reply: make(chan error, 1)}
	}

	err := hub.Send(ctx, "ops", "report")
	assert.ErrorIs(t, err, context.Canceled)
}
