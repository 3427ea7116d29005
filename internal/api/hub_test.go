package api

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newHubClient(h *Hub) *wsClient {
	return &wsClient{
		send: make(chan []byte, 4),
		hub:  h,
	}
}

func TestHubBroadcastReachesClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	defer hub.Stop()

	client := newHubClient(hub)
	if !hub.addClient(client) {
		t.Fatal("addClient failed on a running hub")
	}

	hub.BroadcastInstanceEvent("inst-1", "running")

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Fatal("broadcast delivered an empty payload")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast never reached the client")
	}
}

func TestHubStopClosesClientSendChannels(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	client := newHubClient(hub)
	if !hub.addClient(client) {
		t.Fatal("addClient failed on a running hub")
	}

	hub.Stop()

	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected send channel to be closed, got a message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel was not closed after Stop")
	}
}

func TestHubUnregisterAfterStopReturnsPromptly(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	client := newHubClient(hub)
	if !hub.addClient(client) {
		t.Fatal("addClient failed on a running hub")
	}
	hub.Stop()

	// Simulates a readPump exiting after shutdown; the handoff must not
	// block once the fan-out loop is gone.
	returned := make(chan struct{})
	go func() {
		hub.dropClient(client)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("dropClient blocked after the hub stopped")
	}

	if hub.addClient(newHubClient(hub)) {
		t.Fatal("addClient accepted a client after Stop")
	}
}
