package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHub_PublishReachesClients(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Publish(Event{Type: EventStatusChanged, ApplicationID: "a1", Data: map[string]string{"status": "HIRED"}})

	select {
	case msg := <-c.send:
		var evt Event
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if evt.Type != EventStatusChanged || evt.ApplicationID != "a1" || evt.Timestamp == "" {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	c := &Client{hub: h, send: make(chan []byte)}
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Publish(Event{Type: EventBoardReloaded})
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel to be closed")
	}
}

func TestHub_NilIsSafe(t *testing.T) {
	var h *Hub
	h.Publish(Event{Type: EventSyncFailed})
	h.Stop()
	if h.ClientCount() != 0 {
		t.Fatalf("expected zero clients")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}
