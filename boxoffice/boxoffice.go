package boxoffice

import (
	"context"
	"evently-backend/model"
	"evently-backend/notify"
	"evently-backend/payment"
	"fmt"
	"sync"
	"time"
)

// RefundWindow is how long before an event's date cancellation closes.
const RefundWindow = 24 * time.Hour

// BoxOffice is the event and ticket state machine: an insertion-ordered
// catalog of events, a per-event ticket ledger, and the purchase and
// cancellation rules that move value over the payment rail. BuyTicket and
// CancelTicket hold an operation lock for their full duration, refund
// included, so independent callers serialize; a rail callback that re-enters
// through the operation's own context is rejected instead, so it can never
// mutate a half-updated ledger.
type BoxOffice struct {
	admin   string
	rail    payment.Rail
	emitter notify.Emitter
	now     func() time.Time

	opMu sync.Mutex

	mu         sync.Mutex
	eventCount uint64
	eventIDs   []string
	events     map[string]*model.Event
	balance    uint64
}

// New returns a box office administered by admin. The administrator
// identity is immutable for the lifetime of the instance.
func New(admin string, rail payment.Rail, emitter notify.Emitter) *BoxOffice {
	return &BoxOffice{
		admin:   admin,
		rail:    rail,
		emitter: emitter,
		now:     time.Now,
		events:  make(map[string]*model.Event),
	}
}

// SetClock overrides the time source. Tests only.
func (b *BoxOffice) SetClock(now func() time.Time) {
	b.now = now
}

// CreateEvent registers a new event and returns its identifier.
// Administrator only.
func (b *BoxOffice) CreateEvent(ctx context.Context, caller, name string, ticketLimit uint64, price uint64, eventDate time.Time) (string, error) {
	if caller != b.admin {
		return "", fmt.Errorf("createEvent: caller %s is not the administrator: %w", caller, ErrAccessDenied)
	}

	b.mu.Lock()
	if !eventDate.After(b.now()) {
		b.mu.Unlock()
		return "", fmt.Errorf("createEvent: %w", ErrInvalidSchedule)
	}

	b.eventCount++
	eventID := fmt.Sprintf("ev%d", b.eventCount)

	event := &model.Event{
		EventID:     eventID,
		Creator:     caller,
		Name:        name,
		TicketLimit: ticketLimit,
		EventDate:   eventDate,
		Price:       price,
		Status:      model.StatusActive,
	}
	b.events[eventID] = event
	b.eventIDs = append(b.eventIDs, eventID)
	b.mu.Unlock()

	b.emitter.Emit(ctx, model.KindEventCreated, model.EventCreated{
		EventID:   eventID,
		Name:      name,
		Creator:   caller,
		EventDate: eventDate,
		Status:    model.StatusActive,
	})

	return eventID, nil
}

// ListEvents returns every event identifier ever created, in creation order.
func (b *BoxOffice) ListEvents() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]string, len(b.eventIDs))
	copy(ids, b.eventIDs)
	return ids
}

// ShowEventDetails returns a snapshot of the event without its ticket
// collection.
func (b *BoxOffice) ShowEventDetails(eventID string) (*model.EventSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	event, ok := b.events[eventID]
	if !ok {
		return nil, fmt.Errorf("showEventDetails: %s: %w", eventID, ErrEventNotFound)
	}

	return &model.EventSummary{
		EventID:     event.EventID,
		Creator:     event.Creator,
		Name:        event.Name,
		TicketLimit: event.TicketLimit,
		EventDate:   event.EventDate,
		Price:       event.Price,
		Status:      event.Status,
		TicketsSold: uint64(len(event.Tickets)),
	}, nil
}

// ListEventParticipants returns the event's current ticket collection.
// Administrator only. An unknown event yields an empty collection rather
// than a failure; only the empty identifier is rejected.
func (b *BoxOffice) ListEventParticipants(caller, eventID string) ([]model.Ticket, error) {
	if caller != b.admin {
		return nil, fmt.Errorf("listEventParticipants: caller %s is not the administrator: %w", caller, ErrAccessDenied)
	}

	if eventID == "" {
		return nil, fmt.Errorf("listEventParticipants: %w", ErrEmptyIdentifier)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	event, ok := b.events[eventID]
	if !ok {
		return []model.Ticket{}, nil
	}

	tickets := make([]model.Ticket, len(event.Tickets))
	copy(tickets, event.Tickets)
	return tickets, nil
}

// TogglePauseEventRegistration switches the event between active and
// paused. Administrator only.
func (b *BoxOffice) TogglePauseEventRegistration(ctx context.Context, caller, eventID string, newStatus model.EventStatus) error {
	if caller != b.admin {
		return fmt.Errorf("togglePauseEventRegistration: caller %s is not the administrator: %w", caller, ErrAccessDenied)
	}

	b.mu.Lock()
	event, ok := b.events[eventID]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("togglePauseEventRegistration: %s: %w", eventID, ErrEventNotFound)
	}

	if event.Status == newStatus {
		b.mu.Unlock()
		return fmt.Errorf("togglePauseEventRegistration: %s: %w", eventID, ErrNoStatusChange)
	}

	event.Status = newStatus
	b.mu.Unlock()

	b.emitter.Emit(ctx, model.KindStatusChanged, model.StatusChanged{EventID: eventID, Status: newStatus})
	return nil
}

// BuyTicket sells caller one ticket for the event. paymentValue is the
// amount received from the caller; anything above the ticket price is
// refunded over the rail once the ticket is recorded. A failed refund rolls
// the sale back so no partial effect survives.
func (b *BoxOffice) BuyTicket(ctx context.Context, caller, eventID, firstName, lastName, email string, paymentValue uint64) error {
	ctx, err := b.enter(ctx)
	if err != nil {
		return fmt.Errorf("buyTicket: %w", err)
	}
	defer b.exit()

	b.mu.Lock()
	event, ok := b.events[eventID]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("buyTicket: %s: %w", eventID, ErrEventNotFound)
	}

	if caller == event.Creator {
		b.mu.Unlock()
		return fmt.Errorf("buyTicket: %s: %w", eventID, ErrOrganizerCannotBuyTicket)
	}

	if _, ok := ticketIndex(event, caller); ok {
		b.mu.Unlock()
		return fmt.Errorf("buyTicket: %s: %w", eventID, ErrTicketAlreadyExists)
	}

	if !b.now().Before(event.EventDate) {
		b.mu.Unlock()
		return fmt.Errorf("buyTicket: %s: %w", eventID, ErrPassedEventDate)
	}

	if event.Status == model.StatusPaused {
		b.mu.Unlock()
		return fmt.Errorf("buyTicket: %s: %w", eventID, ErrEventPaused)
	}

	if uint64(len(event.Tickets)) >= event.TicketLimit {
		b.mu.Unlock()
		return fmt.Errorf("buyTicket: %s: %w", eventID, ErrSoldOutTickets)
	}

	if paymentValue < event.Price {
		b.mu.Unlock()
		return fmt.Errorf("buyTicket: %s: %w", eventID, ErrNotEnoughFunds)
	}

	price := event.Price
	event.Tickets = append(event.Tickets, model.Ticket{
		Owner:     caller,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		PaidPrice: price,
		Purchased: b.now(),
	})
	b.balance += paymentValue
	b.mu.Unlock()

	b.emitter.Emit(ctx, model.KindTicketPurchased, model.TicketPurchased{Buyer: caller, EventID: eventID, Price: price})

	if paymentValue > price {
		excess := paymentValue - price
		if err := b.rail.Refund(ctx, caller, excess); err != nil {
			if rbErr := b.rollbackSale(event, caller, paymentValue); rbErr != nil {
				return fmt.Errorf("buyTicket: %s: overpayment refund failed and rollback failed: %v: %w", eventID, err, rbErr)
			}
			return fmt.Errorf("buyTicket: %s: overpayment refund failed: %w", eventID, err)
		}

		b.mu.Lock()
		b.balance -= excess
		b.mu.Unlock()
	}

	return nil
}

// GetUserTicket reports whether caller holds a ticket for the event, and at
// which index in the collection. The index is not stable across mutation.
func (b *BoxOffice) GetUserTicket(eventID, caller string) (bool, model.Ticket, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	event, ok := b.events[eventID]
	if !ok {
		return false, model.Ticket{}, 0
	}

	i, ok := ticketIndex(event, caller)
	if !ok {
		return false, model.Ticket{}, 0
	}

	return true, event.Tickets[i], i
}

// CancelTicket removes caller's ticket and refunds its paid price, provided
// the refund deadline (event date minus RefundWindow) has not passed. The
// removal and the transfer commit together: a failed transfer restores the
// ticket.
func (b *BoxOffice) CancelTicket(ctx context.Context, caller, eventID string) error {
	ctx, err := b.enter(ctx)
	if err != nil {
		return fmt.Errorf("cancelTicket: %w", err)
	}
	defer b.exit()

	b.mu.Lock()
	event, ok := b.events[eventID]
	var i int
	if ok {
		i, ok = ticketIndex(event, caller)
	}
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("cancelTicket: %s: %w", eventID, ErrTicketNotFound)
	}

	refundDeadline := event.EventDate.Add(-RefundWindow)
	if !b.now().Before(refundDeadline) {
		b.mu.Unlock()
		return fmt.Errorf("cancelTicket: %s: %w", eventID, ErrRefundWindowClosed)
	}

	ticket := event.Tickets[i]
	before := len(event.Tickets)
	// Swap with the last element and truncate. Collection order is not a
	// guarantee of the ledger.
	event.Tickets[i] = event.Tickets[before-1]
	event.Tickets = event.Tickets[:before-1]
	if len(event.Tickets) != before-1 {
		b.mu.Unlock()
		return fmt.Errorf("cancelTicket: %s: removal changed ticket count by %d: %w", eventID, before-len(event.Tickets), ErrInvariantViolation)
	}
	b.mu.Unlock()

	if err := b.rail.Refund(ctx, caller, ticket.PaidPrice); err != nil {
		b.mu.Lock()
		event.Tickets = append(event.Tickets, ticket)
		b.mu.Unlock()
		return fmt.Errorf("cancelTicket: %s: refund failed: %w", eventID, err)
	}

	b.mu.Lock()
	b.balance -= ticket.PaidPrice
	b.mu.Unlock()

	b.emitter.Emit(ctx, model.KindTicketCancelled, model.TicketCancelled{Buyer: caller, EventID: eventID, Refunded: ticket.PaidPrice})
	return nil
}

// ContractBalance returns the value currently held: payments received minus
// refunds issued. Administrator only.
func (b *BoxOffice) ContractBalance(caller string) (uint64, error) {
	if caller != b.admin {
		return 0, fmt.Errorf("contractBalance: caller %s is not the administrator: %w", caller, ErrAccessDenied)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance, nil
}

// rollbackSale reverts a recorded sale whose overpayment refund failed.
func (b *BoxOffice) rollbackSale(event *model.Event, caller string, paymentValue uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, ok := ticketIndex(event, caller)
	if !ok {
		return fmt.Errorf("rollbackSale: recorded ticket for %s vanished: %w", caller, ErrInvariantViolation)
	}

	last := len(event.Tickets) - 1
	event.Tickets[i] = event.Tickets[last]
	event.Tickets = event.Tickets[:last]
	b.balance -= paymentValue
	return nil
}

type guardKey struct{}

// enter serializes guarded operations. A call arriving on a context already
// inside a guarded operation is a rail callback re-entering the box office;
// it is rejected rather than left to deadlock on the operation lock.
func (b *BoxOffice) enter(ctx context.Context) (context.Context, error) {
	if ctx.Value(guardKey{}) != nil {
		return ctx, ErrReentrantCall
	}

	b.opMu.Lock()
	return context.WithValue(ctx, guardKey{}, true), nil
}

func (b *BoxOffice) exit() {
	b.opMu.Unlock()
}

func ticketIndex(event *model.Event, owner string) (int, bool) {
	for i := range event.Tickets {
		if event.Tickets[i].Owner == owner {
			return i, true
		}
	}
	return 0, false
}
