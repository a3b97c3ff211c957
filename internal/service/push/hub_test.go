package push

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerAndWait(t *testing.T, hub *Hub, client *Client) {
	t.Helper()
	hub.register <- client
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return hub.clients[client.userID] == client
	}, time.Second, time.Millisecond)
}

func TestHubReconnectReplacesConnection(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := &Client{hub: hub, send: make(chan []byte, sendBuffer), userID: 7}
	registerAndWait(t, hub, first)
	second := &Client{hub: hub, send: make(chan []byte, sendBuffer), userID: 7}
	registerAndWait(t, hub, second)

	require.True(t, hub.Send(7, []byte("hi")))
	select {
	case msg := <-second.send:
		assert.Equal(t, "hi", string(msg))
	default:
		t.Fatal("message did not reach the new connection")
	}

	_, open := <-first.send
	assert.False(t, open, "replaced connection's channel should be closed")
}

func TestHubSendToDisconnectedUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	assert.False(t, hub.Send(42, []byte("hi")))
}

// Reconnects close the replaced channel; concurrent sends for the same user
// must never hit a closed channel.
func TestHubSendDuringReconnects(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				hub.Send(9, []byte("update"))
			}
		}
	}()

	for i := 0; i < 200; i++ {
		registerAndWait(t, hub, &Client{hub: hub, send: make(chan []byte, 1), userID: 9})
	}
	close(done)
	wg.Wait()
}
