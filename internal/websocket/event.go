package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated      EventType = "created"
	EventTypeUpdated      EventType = "updated"
	EventTypeDeleted      EventType = "deleted"
	EventTypeRecalculated EventType = "recalculated"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeAccount          EntityType = "account"
	EntityTypeBudget           EntityType = "budget"
	EntityTypeCategory         EntityType = "category"
	EntityTypeIncome           EntityType = "income"
	EntityTypeExpense          EntityType = "expense"
	EntityTypeTransfer         EntityType = "transfer"
	EntityTypeExternalTransfer EntityType = "external_transfer"
	EntityTypeSave             EntityType = "save"
	EntityTypeSavingGoal       EntityType = "saving_goal"
	EntityTypeDashboard        EntityType = "dashboard"
	EntityTypeNotification     EntityType = "notification"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "account.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "account"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// DashboardRecalculated creates a dashboard.recalculated event
func DashboardRecalculated(payload interface{}) Event {
	return NewEvent(EventTypeRecalculated, EntityTypeDashboard, payload)
}

// NotificationCreated creates a notification.created event
func NotificationCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeNotification, payload)
}
