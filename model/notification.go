package model

import (
	"time"
)

// Notification kinds emitted by the box office.
const (
	KindEventCreated    = "event_created"
	KindStatusChanged   = "status_changed"
	KindTicketPurchased = "ticket_purchased"
	KindTicketCancelled = "ticket_cancelled"
	KindUnmatchedCall   = "unmatched_call"
)

type EventCreated struct {
	EventID   string      `json:"event_id"`
	Name      string      `json:"name"`
	Creator   string      `json:"creator"`
	EventDate time.Time   `json:"event_date"`
	Status    EventStatus `json:"status"`
}

type StatusChanged struct {
	EventID string      `json:"event_id"`
	Status  EventStatus `json:"status"`
}

type TicketPurchased struct {
	Buyer   string `json:"buyer"`
	EventID string `json:"event_id"`
	Price   uint64 `json:"price"`
}

type TicketCancelled struct {
	Buyer    string `json:"buyer"`
	EventID  string `json:"event_id"`
	Refunded uint64 `json:"refunded"`
}

// UnmatchedCall records an invocation that matched no known operation. It is
// logged rather than rejected outright.
type UnmatchedCall struct {
	Caller  string `json:"caller,omitempty"`
	Payload string `json:"payload,omitempty"`
}
