package model

import (
	"time"
)

type CreateEventRequest struct {
	Data struct {
		Event *NewEvent `json:"event,omitempty" validate:"required"`
		Auth  *Auth     `json:"auth,omitempty" validate:"required"`
	} `json:"data"`
}

type NewEvent struct {
	Name        string    `json:"name,omitempty"`
	TicketLimit uint64    `json:"ticket_limit"`
	Price       uint64    `json:"price"`
	EventDate   time.Time `json:"event_date,omitempty"`
}

type BuyTicketRequest struct {
	Data struct {
		Purchase *Purchase `json:"purchase,omitempty" validate:"required"`
		Auth     *Auth     `json:"auth,omitempty" validate:"required"`
	} `json:"data"`
}

type Purchase struct {
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Email        string `json:"email,omitempty"`
	PaymentValue uint64 `json:"payment_value"`
}

type ToggleStatusRequest struct {
	Data struct {
		Status EventStatus `json:"status,omitempty"`
		Auth   *Auth       `json:"auth,omitempty" validate:"required"`
	} `json:"data"`
}

type AuthRequest struct {
	Data struct {
		Auth *Auth `json:"auth,omitempty" validate:"required"`
	} `json:"data"`
}
