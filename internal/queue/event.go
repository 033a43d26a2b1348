// Package queue publishes reservation lifecycle events to the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	ReservationCreated  EventType = "created"
	ReservationUpdated  EventType = "updated"
	ReservationAccepted EventType = "accepted"
	ReservationCanceled EventType = "canceled"
	ReservationDeleted  EventType = "deleted"
)

// ReservationEvent carries enough for consumers to notify the customer and
// owner without reading the database.
type ReservationEvent struct {
	Type          EventType   `json:"type"`
	ReservationID uuid.UUID   `json:"reservation_id"`
	CabinID       uuid.UUID   `json:"cabin_id"`
	CustomerID    uuid.UUID   `json:"customer_id"`
	OwnerID       uuid.UUID   `json:"owner_id"`
	StartDate     string      `json:"start_date"`
	EndDate       string      `json:"end_date"`
	ServiceIDs    []uuid.UUID `json:"service_ids"`
	OccurredAt    time.Time   `json:"occurred_at"`
}

func (e ReservationEvent) RoutingKey() string {
	return "reservation." + string(e.Type)
}
