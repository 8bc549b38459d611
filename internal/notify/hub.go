package notify

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

type UserSender interface {
	SendTo(userID uuid.UUID, msg []byte) int
}

// HubSink pushes events to the subject's open websocket connections. A subject
// with no connection is not an error.
type HubSink struct {
	hub UserSender
}

func NewHubSink(hub UserSender) *HubSink {
	return &HubSink{hub: hub}
}

func (h *HubSink) Name() string { return "ws" }

func (h *HubSink) Deliver(_ context.Context, e Event) error {
	if h == nil || h.hub == nil {
		return nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	h.hub.SendTo(e.SubjectID, b)
	return nil
}
