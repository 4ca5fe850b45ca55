// Package notify delivers user notifications produced by the services.
// Delivery is best effort: a notification that cannot be sent is logged
// and dropped, never surfaced to the caller.
package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/monedero/monedero-backend/internal/domain"
	"github.com/monedero/monedero-backend/internal/websocket"
)

// Notification is the payload delivered to clients.
type Notification struct {
	UserID    uuid.UUID       `json:"user_id"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Severity  domain.Severity `json:"severity"`
	CreatedAt time.Time       `json:"created_at"`
}

// WebSocketNotifier pushes notifications to the user's open connections.
type WebSocketNotifier struct {
	publisher websocket.EventPublisher
}

// NewWebSocketNotifier creates a WebSocketNotifier.
func NewWebSocketNotifier(publisher websocket.EventPublisher) *WebSocketNotifier {
	return &WebSocketNotifier{publisher: publisher}
}

func (n *WebSocketNotifier) Notify(userID uuid.UUID, title, message string, severity domain.Severity) {
	n.publisher.Publish(userID, websocket.NotificationCreated(Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now().UTC(),
	}))
}

// NoopNotifier drops every notification.
type NoopNotifier struct{}

func (NoopNotifier) Notify(userID uuid.UUID, title, message string, severity domain.Severity) {}

// MultiNotifier fans one notification out to several sinks.
type MultiNotifier []domain.Notifier

func (m MultiNotifier) Notify(userID uuid.UUID, title, message string, severity domain.Severity) {
	for _, n := range m {
		n.Notify(userID, title, message, severity)
	}
}
