package ws

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventStatusChanged       EventType = "application_status_changed"
	EventApplicationCreated  EventType = "application_created"
	EventApplicationDeleted  EventType = "application_deleted"
	EventInterviewFlowOpened EventType = "interview_flow_opened"
	EventSyncFailed          EventType = "application_sync_failed"
	EventBoardReloaded       EventType = "board_reloaded"
)

type Event struct {
	Type          EventType `json:"type"`
	ApplicationID string    `json:"application_id,omitempty"`
	Data          any       `json:"data,omitempty"`
	Timestamp     string    `json:"timestamp"`
}

// Publisher is what the usecases see of the live board.
type Publisher interface {
	Publish(evt Event)
}

func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	if evt.Timestamp == "" {
		evt.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	b, err := json.Marshal(evt)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("[WS] marshal event type=%s err=%v", evt.Type, err)
		}
		return
	}
	h.Broadcast(b)
}
