package sse

import (
	"time"

	"github.com/GTDGit/inventory_api/internal/models"
)

// Notifier is the interface services use to emit resource change events.
type Notifier interface {
	Notify(event EventType, resource models.Resource, ids ...int)
}

// HubNotifier implements Notifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
	now func() time.Time
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub, now: time.Now}
}

func (n *HubNotifier) Notify(event EventType, resource models.Resource, ids ...int) {
	if n.hub.ClientCount() == 0 {
		return
	}
	if ids == nil {
		ids = []int{}
	}
	n.hub.Broadcast(&ResourceEvent{
		Event:     event,
		Resource:  resource,
		IDs:       ids,
		Timestamp: n.now(),
	})
}
