package events

import (
	"time"

	"github.com/vilyx-net/vector/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketCloseStarted  EventType = "ticket_close_started"
	EventTicketCloseCanceled EventType = "ticket_close_canceled"
	EventTicketArchived      EventType = "ticket_archived"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventStaffPromoted       EventType = "staff_promoted"
	EventStaffDemoted        EventType = "staff_demoted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string
	Type      EventType
	ChannelID string
	ActorID   string
	Timestamp time.Time
	Payload   interface{}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	OwnerID  string
	Category domain.TicketCategory
}

// TicketArchivedPayload payload.
type TicketArchivedPayload struct {
	ChannelName string
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	ChannelName string
}

// RankChangedPayload payload for promotions and demotions.
type RankChangedPayload struct {
	SubjectID string
	NewRole   domain.RoleKey
}
