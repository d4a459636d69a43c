package boxoffice

import (
	"errors"
)

// Precondition violations: caller error, state left untouched.
var (
	ErrAccessDenied             = errors.New("access denied")
	ErrInvalidSchedule          = errors.New("event date must be in the future")
	ErrEventNotFound            = errors.New("event not found")
	ErrNoStatusChange           = errors.New("event already has that status")
	ErrOrganizerCannotBuyTicket = errors.New("organizer cannot buy a ticket to their own event")
	ErrTicketAlreadyExists      = errors.New("caller already holds a ticket for this event")
	ErrPassedEventDate          = errors.New("event date has passed")
	ErrEventPaused              = errors.New("event registration is paused")
	ErrSoldOutTickets           = errors.New("event is sold out")
	ErrNotEnoughFunds           = errors.New("payment is below the ticket price")
	ErrTicketNotFound           = errors.New("ticket not found")
	ErrRefundWindowClosed       = errors.New("refund window has closed")
	ErrEmptyIdentifier          = errors.New("event identifier is empty")
	ErrReentrantCall            = errors.New("operation already in progress")
)

// ErrInvariantViolation signals an internal bug, not caller misuse. It is
// fatal to the operation that observed it.
var ErrInvariantViolation = errors.New("invariant violation")
