package model

import (
	"time"
)

type EventStatus string

const (
	StatusActive EventStatus = "ACTIVE"
	StatusPaused EventStatus = "PAUSED"
)

// Event is a ticketed occasion. EventID, Creator, TicketLimit, EventDate and
// Price are immutable after creation; Status toggles between active and
// paused; Tickets grows on purchase and shrinks on cancellation.
type Event struct {
	EventID     string      `json:"event_id,omitempty"`
	Creator     string      `json:"creator,omitempty"`
	Name        string      `json:"name,omitempty"`
	TicketLimit uint64      `json:"ticket_limit"`
	EventDate   time.Time   `json:"event_date,omitempty"`
	Price       uint64      `json:"price"`
	Status      EventStatus `json:"status,omitempty"`
	Tickets     []Ticket    `json:"tickets,omitempty"`
}

// EventSummary is the read-only view of an event without its ticket
// collection.
type EventSummary struct {
	EventID     string      `json:"event_id,omitempty"`
	Creator     string      `json:"creator,omitempty"`
	Name        string      `json:"name,omitempty"`
	TicketLimit uint64      `json:"ticket_limit"`
	EventDate   time.Time   `json:"event_date,omitempty"`
	Price       uint64      `json:"price"`
	Status      EventStatus `json:"status,omitempty"`
	TicketsSold uint64      `json:"tickets_sold"`
}

// Ticket is one buyer's purchase for one event. PaidPrice snapshots the
// event price at purchase time and is what a cancellation refunds.
type Ticket struct {
	Owner     string    `json:"owner,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Email     string    `json:"email,omitempty"`
	PaidPrice uint64    `json:"paid_price"`
	Purchased time.Time `json:"purchased,omitempty"`
}
