// Package queue defines message payloads exchanged over the message broker
// and the RabbitMQ publisher and consumer that move them.
package queue

// CafeEventsQueue is the durable queue carrying every café event.
const CafeEventsQueue = "cafe.events"

// Event types.
const (
    EventCafeCreated = "cafe.created"
    EventCafeRemoved = "cafe.removed"
)

// CafeEvent is published after a café has been added or removed.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type CafeEvent struct {
    Type       string `json:"type"`
    CafeID     uint64 `json:"cafe_id"`
    Name       string `json:"name,omitempty"`
    Location   string `json:"location,omitempty"`
    OccurredAt string `json:"occurred_at"`
}
