package boxoffice

import (
	"context"
	"errors"
	"evently-backend/model"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const admin = "admin-uid"

var baseTime = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

type refund struct {
	to     string
	amount uint64
}

type fakeRail struct {
	refunds  []refund
	err      error
	callback func(ctx context.Context) error
}

func (r *fakeRail) Refund(ctx context.Context, to string, amount uint64) error {
	if r.callback != nil {
		if err := r.callback(ctx); err != nil {
			return err
		}
	}
	if r.err != nil {
		return r.err
	}
	r.refunds = append(r.refunds, refund{to: to, amount: amount})
	return nil
}

type emitted struct {
	kind    string
	payload interface{}
}

type fakeEmitter struct {
	emitted []emitted
}

func (e *fakeEmitter) Emit(ctx context.Context, kind string, payload interface{}) {
	e.emitted = append(e.emitted, emitted{kind: kind, payload: payload})
}

func (e *fakeEmitter) kinds() []string {
	var kinds []string
	for _, m := range e.emitted {
		kinds = append(kinds, m.kind)
	}
	return kinds
}

func newOffice() (*BoxOffice, *fakeRail, *fakeEmitter) {
	rail := &fakeRail{}
	emitter := &fakeEmitter{}
	office := New(admin, rail, emitter)
	office.SetClock(func() time.Time { return baseTime })
	return office, rail, emitter
}

func createEvent(t *testing.T, office *BoxOffice, name string, limit, price uint64) string {
	t.Helper()
	eventID, err := office.CreateEvent(context.Background(), admin, name, limit, price, baseTime.Add(72*time.Hour))
	require.Nil(t, err)
	return eventID
}

func TestCreateEventAssignsSequentialIDs(t *testing.T) {
	office, _, emitter := newOffice()
	ctx := context.Background()

	first, err := office.CreateEvent(ctx, admin, "GopherCon", 100, 2500, baseTime.Add(48*time.Hour))
	require.Nil(t, err)
	assert.Equal(t, "ev1", first)

	second, err := office.CreateEvent(ctx, admin, "dotGo", 50, 1500, baseTime.Add(96*time.Hour))
	require.Nil(t, err)
	assert.Equal(t, "ev2", second)

	assert.Equal(t, []string{"ev1", "ev2"}, office.ListEvents())
	assert.Equal(t, []string{model.KindEventCreated, model.KindEventCreated}, emitter.kinds())

	created, ok := emitter.emitted[0].payload.(model.EventCreated)
	require.True(t, ok)
	assert.Equal(t, "ev1", created.EventID)
	assert.Equal(t, "GopherCon", created.Name)
	assert.Equal(t, admin, created.Creator)
	assert.Equal(t, model.StatusActive, created.Status)
}

func TestCreateEventRequiresAdministrator(t *testing.T) {
	office, _, emitter := newOffice()

	_, err := office.CreateEvent(context.Background(), "mallory", "GopherCon", 100, 2500, baseTime.Add(48*time.Hour))
	assert.True(t, errors.Is(err, ErrAccessDenied))
	assert.Empty(t, office.ListEvents())
	assert.Empty(t, emitter.emitted)
}

func TestCreateEventRejectsNonFutureDate(t *testing.T) {
	office, _, _ := newOffice()
	ctx := context.Background()

	_, err := office.CreateEvent(ctx, admin, "GopherCon", 100, 2500, baseTime)
	assert.True(t, errors.Is(err, ErrInvalidSchedule))

	_, err = office.CreateEvent(ctx, admin, "GopherCon", 100, 2500, baseTime.Add(-time.Hour))
	assert.True(t, errors.Is(err, ErrInvalidSchedule))

	assert.Empty(t, office.ListEvents())
}

func TestListEventsOnFreshOffice(t *testing.T) {
	office, _, _ := newOffice()
	assert.Empty(t, office.ListEvents())
}

func TestShowEventDetails(t *testing.T) {
	office, _, _ := newOffice()

	_, err := office.ShowEventDetails("ev99")
	assert.True(t, errors.Is(err, ErrEventNotFound))

	eventDate := baseTime.Add(72 * time.Hour)
	eventID, err := office.CreateEvent(context.Background(), admin, "GopherCon", 100, 2500, eventDate)
	require.Nil(t, err)

	summary, err := office.ShowEventDetails(eventID)
	require.Nil(t, err)
	assert.Equal(t, eventID, summary.EventID)
	assert.Equal(t, admin, summary.Creator)
	assert.Equal(t, "GopherCon", summary.Name)
	assert.Equal(t, uint64(100), summary.TicketLimit)
	assert.Equal(t, eventDate, summary.EventDate)
	assert.Equal(t, uint64(2500), summary.Price)
	assert.Equal(t, model.StatusActive, summary.Status)
	assert.Equal(t, uint64(0), summary.TicketsSold)
}

func TestTogglePauseEventRegistration(t *testing.T) {
	office, _, emitter := newOffice()
	ctx := context.Background()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)

	err := office.TogglePauseEventRegistration(ctx, "mallory", eventID, model.StatusPaused)
	assert.True(t, errors.Is(err, ErrAccessDenied))

	err = office.TogglePauseEventRegistration(ctx, admin, "ev99", model.StatusPaused)
	assert.True(t, errors.Is(err, ErrEventNotFound))

	err = office.TogglePauseEventRegistration(ctx, admin, eventID, model.StatusActive)
	assert.True(t, errors.Is(err, ErrNoStatusChange))

	err = office.TogglePauseEventRegistration(ctx, admin, eventID, model.StatusPaused)
	require.Nil(t, err)

	summary, err := office.ShowEventDetails(eventID)
	require.Nil(t, err)
	assert.Equal(t, model.StatusPaused, summary.Status)
	assert.Equal(t, model.KindStatusChanged, emitter.emitted[len(emitter.emitted)-1].kind)
}

func TestBuyTicketExactPayment(t *testing.T) {
	office, rail, emitter := newOffice()
	ctx := context.Background()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)

	err := office.BuyTicket(ctx, "alice", eventID, "Alice", "Doe", "alice@example.com", 2500)
	require.Nil(t, err)

	found, ticket, _ := office.GetUserTicket(eventID, "alice")
	require.True(t, found)
	assert.Equal(t, "alice", ticket.Owner)
	assert.Equal(t, "Alice", ticket.FirstName)
	assert.Equal(t, "Doe", ticket.LastName)
	assert.Equal(t, "alice@example.com", ticket.Email)
	assert.Equal(t, uint64(2500), ticket.PaidPrice)
	assert.Equal(t, baseTime, ticket.Purchased)

	assert.Empty(t, rail.refunds)

	balance, err := office.ContractBalance(admin)
	require.Nil(t, err)
	assert.Equal(t, uint64(2500), balance)

	last := emitter.emitted[len(emitter.emitted)-1]
	assert.Equal(t, model.KindTicketPurchased, last.kind)
	purchased, ok := last.payload.(model.TicketPurchased)
	require.True(t, ok)
	assert.Equal(t, "alice", purchased.Buyer)
	assert.Equal(t, eventID, purchased.EventID)
	assert.Equal(t, uint64(2500), purchased.Price)
}

func TestBuyTicketRefundsOverpayment(t *testing.T) {
	office, rail, _ := newOffice()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)

	err := office.BuyTicket(context.Background(), "alice", eventID, "Alice", "Doe", "alice@example.com", 4000)
	require.Nil(t, err)

	require.Len(t, rail.refunds, 1)
	assert.Equal(t, refund{to: "alice", amount: 1500}, rail.refunds[0])

	balance, err := office.ContractBalance(admin)
	require.Nil(t, err)
	assert.Equal(t, uint64(2500), balance)
}

func TestBuyTicketValidationOrder(t *testing.T) {
	office, _, _ := newOffice()
	ctx := context.Background()
	eventID := createEvent(t, office, "GopherCon", 2, 2500)

	err := office.BuyTicket(ctx, "alice", "ev99", "Alice", "Doe", "a@example.com", 2500)
	assert.True(t, errors.Is(err, ErrEventNotFound))

	err = office.BuyTicket(ctx, admin, eventID, "Ad", "Min", "admin@example.com", 2500)
	assert.True(t, errors.Is(err, ErrOrganizerCannotBuyTicket))

	err = office.BuyTicket(ctx, "alice", eventID, "Alice", "Doe", "a@example.com", 2500)
	require.Nil(t, err)
	err = office.BuyTicket(ctx, "alice", eventID, "Alice", "Doe", "a@example.com", 2500)
	assert.True(t, errors.Is(err, ErrTicketAlreadyExists))

	err = office.BuyTicket(ctx, "bob", eventID, "Bob", "Roe", "b@example.com", 2000)
	assert.True(t, errors.Is(err, ErrNotEnoughFunds))

	err = office.TogglePauseEventRegistration(ctx, admin, eventID, model.StatusPaused)
	require.Nil(t, err)
	err = office.BuyTicket(ctx, "bob", eventID, "Bob", "Roe", "b@example.com", 2500)
	assert.True(t, errors.Is(err, ErrEventPaused))
	err = office.TogglePauseEventRegistration(ctx, admin, eventID, model.StatusActive)
	require.Nil(t, err)

	err = office.BuyTicket(ctx, "bob", eventID, "Bob", "Roe", "b@example.com", 2500)
	require.Nil(t, err)
	err = office.BuyTicket(ctx, "carol", eventID, "Carol", "Poe", "c@example.com", 2500)
	assert.True(t, errors.Is(err, ErrSoldOutTickets))

	office.SetClock(func() time.Time { return baseTime.Add(73 * time.Hour) })
	err = office.BuyTicket(ctx, "carol", eventID, "Carol", "Poe", "c@example.com", 2500)
	assert.True(t, errors.Is(err, ErrPassedEventDate))
}

func TestBuyTicketAtEventDateFails(t *testing.T) {
	office, _, _ := newOffice()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)

	office.SetClock(func() time.Time { return baseTime.Add(72 * time.Hour) })
	err := office.BuyTicket(context.Background(), "alice", eventID, "Alice", "Doe", "a@example.com", 2500)
	assert.True(t, errors.Is(err, ErrPassedEventDate))
}

func TestZeroLimitEventIsAlwaysSoldOut(t *testing.T) {
	office, _, _ := newOffice()
	ctx := context.Background()
	eventID := createEvent(t, office, "Empty Room", 0, 2500)

	err := office.BuyTicket(ctx, "alice", eventID, "Alice", "Doe", "a@example.com", 2500)
	assert.True(t, errors.Is(err, ErrSoldOutTickets))

	err = office.BuyTicket(ctx, "bob", eventID, "Bob", "Roe", "b@example.com", 2500)
	assert.True(t, errors.Is(err, ErrSoldOutTickets))
}

func TestTicketLimitNeverExceeded(t *testing.T) {
	office, _, _ := newOffice()
	ctx := context.Background()
	eventID := createEvent(t, office, "GopherCon", 2, 2500)

	require.Nil(t, office.BuyTicket(ctx, "alice", eventID, "Alice", "Doe", "a@example.com", 2500))
	require.Nil(t, office.BuyTicket(ctx, "bob", eventID, "Bob", "Roe", "b@example.com", 2500))

	err := office.BuyTicket(ctx, "carol", eventID, "Carol", "Poe", "c@example.com", 2500)
	assert.True(t, errors.Is(err, ErrSoldOutTickets))

	tickets, err := office.ListEventParticipants(admin, eventID)
	require.Nil(t, err)
	assert.Len(t, tickets, 2)
}

func TestBuyTicketRefundFailureRollsBack(t *testing.T) {
	office, rail, _ := newOffice()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)
	rail.err = errors.New("rail is down")

	err := office.BuyTicket(context.Background(), "alice", eventID, "Alice", "Doe", "a@example.com", 4000)
	require.NotNil(t, err)

	found, _, _ := office.GetUserTicket(eventID, "alice")
	assert.False(t, found)

	balance, err := office.ContractBalance(admin)
	require.Nil(t, err)
	assert.Equal(t, uint64(0), balance)
}

func TestGetUserTicket(t *testing.T) {
	office, _, _ := newOffice()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)

	found, ticket, index := office.GetUserTicket("ev99", "alice")
	assert.False(t, found)
	assert.Equal(t, model.Ticket{}, ticket)
	assert.Equal(t, 0, index)

	found, _, _ = office.GetUserTicket(eventID, "alice")
	assert.False(t, found)

	require.Nil(t, office.BuyTicket(context.Background(), "alice", eventID, "Alice", "Doe", "a@example.com", 2500))

	found, ticket, index = office.GetUserTicket(eventID, "alice")
	require.True(t, found)
	assert.Equal(t, "alice", ticket.Owner)
	assert.Equal(t, 0, index)
}

func TestCancelTicketRefundsPaidPrice(t *testing.T) {
	office, rail, emitter := newOffice()
	ctx := context.Background()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)
	require.Nil(t, office.BuyTicket(ctx, "alice", eventID, "Alice", "Doe", "a@example.com", 2500))

	err := office.CancelTicket(ctx, "alice", eventID)
	require.Nil(t, err)

	found, _, _ := office.GetUserTicket(eventID, "alice")
	assert.False(t, found)

	require.Len(t, rail.refunds, 1)
	assert.Equal(t, refund{to: "alice", amount: 2500}, rail.refunds[0])

	balance, err := office.ContractBalance(admin)
	require.Nil(t, err)
	assert.Equal(t, uint64(0), balance)

	last := emitter.emitted[len(emitter.emitted)-1]
	assert.Equal(t, model.KindTicketCancelled, last.kind)
	cancelled, ok := last.payload.(model.TicketCancelled)
	require.True(t, ok)
	assert.Equal(t, uint64(2500), cancelled.Refunded)
}

func TestCancelTicketUnknown(t *testing.T) {
	office, _, _ := newOffice()
	ctx := context.Background()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)

	err := office.CancelTicket(ctx, "alice", "ev99")
	assert.True(t, errors.Is(err, ErrTicketNotFound))

	err = office.CancelTicket(ctx, "alice", eventID)
	assert.True(t, errors.Is(err, ErrTicketNotFound))
}

func TestCancelTicketAtDeadlineFails(t *testing.T) {
	office, rail, _ := newOffice()
	ctx := context.Background()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)
	require.Nil(t, office.BuyTicket(ctx, "alice", eventID, "Alice", "Doe", "a@example.com", 2500))

	// Exactly at eventDate - RefundWindow: the window is already closed.
	office.SetClock(func() time.Time { return baseTime.Add(72*time.Hour - RefundWindow) })
	err := office.CancelTicket(ctx, "alice", eventID)
	assert.True(t, errors.Is(err, ErrRefundWindowClosed))

	office.SetClock(func() time.Time { return baseTime.Add(72*time.Hour - RefundWindow + time.Minute) })
	err = office.CancelTicket(ctx, "alice", eventID)
	assert.True(t, errors.Is(err, ErrRefundWindowClosed))

	found, _, _ := office.GetUserTicket(eventID, "alice")
	assert.True(t, found)
	assert.Empty(t, rail.refunds)
}

func TestCancelTicketJustBeforeDeadlineSucceeds(t *testing.T) {
	office, _, _ := newOffice()
	ctx := context.Background()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)
	require.Nil(t, office.BuyTicket(ctx, "alice", eventID, "Alice", "Doe", "a@example.com", 2500))

	office.SetClock(func() time.Time { return baseTime.Add(72*time.Hour - RefundWindow - time.Second) })
	require.Nil(t, office.CancelTicket(ctx, "alice", eventID))
}

func TestCancelTicketRefundFailureRestoresTicket(t *testing.T) {
	office, rail, _ := newOffice()
	ctx := context.Background()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)
	require.Nil(t, office.BuyTicket(ctx, "alice", eventID, "Alice", "Doe", "a@example.com", 2500))

	rail.err = errors.New("rail is down")
	err := office.CancelTicket(ctx, "alice", eventID)
	require.NotNil(t, err)

	found, ticket, _ := office.GetUserTicket(eventID, "alice")
	require.True(t, found)
	assert.Equal(t, uint64(2500), ticket.PaidPrice)

	balance, err := office.ContractBalance(admin)
	require.Nil(t, err)
	assert.Equal(t, uint64(2500), balance)
}

func TestCancelRemovesExactlyOneTicket(t *testing.T) {
	office, _, _ := newOffice()
	ctx := context.Background()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)
	require.Nil(t, office.BuyTicket(ctx, "alice", eventID, "Alice", "Doe", "a@example.com", 2500))
	require.Nil(t, office.BuyTicket(ctx, "bob", eventID, "Bob", "Roe", "b@example.com", 2500))
	require.Nil(t, office.BuyTicket(ctx, "carol", eventID, "Carol", "Poe", "c@example.com", 2500))

	require.Nil(t, office.CancelTicket(ctx, "alice", eventID))

	tickets, err := office.ListEventParticipants(admin, eventID)
	require.Nil(t, err)
	require.Len(t, tickets, 2)

	// Removal is swap-with-last: survivors are present, order is not
	// guaranteed.
	owners := map[string]bool{}
	for _, ticket := range tickets {
		owners[ticket.Owner] = true
	}
	assert.True(t, owners["bob"])
	assert.True(t, owners["carol"])
	assert.False(t, owners["alice"])
}

func TestReentrantBuyAndCancelRejected(t *testing.T) {
	office, rail, _ := newOffice()
	ctx := context.Background()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)
	require.Nil(t, office.BuyTicket(ctx, "alice", eventID, "Alice", "Doe", "a@example.com", 2500))

	// The rail calls back into the box office mid-refund, as a malicious
	// payment callback would.
	var nestedBuyErr, nestedCancelErr error
	rail.callback = func(ctx context.Context) error {
		nestedBuyErr = office.BuyTicket(ctx, "eve", eventID, "Eve", "Loe", "e@example.com", 2500)
		nestedCancelErr = office.CancelTicket(ctx, "alice", eventID)
		return nil
	}

	require.Nil(t, office.CancelTicket(ctx, "alice", eventID))
	assert.True(t, errors.Is(nestedBuyErr, ErrReentrantCall))
	assert.True(t, errors.Is(nestedCancelErr, ErrReentrantCall))

	// The outer cancellation committed exactly once.
	require.Len(t, rail.refunds, 1)
	balance, err := office.ContractBalance(admin)
	require.Nil(t, err)
	assert.Equal(t, uint64(0), balance)
}

func TestConcurrentBuyersAreSerializedNotRejected(t *testing.T) {
	office, rail, _ := newOffice()
	eventID := createEvent(t, office, "GopherCon", 3, 2500)

	// Each buyer overpays so every purchase holds the operation lock across
	// a rail call while the others wait their turn.
	buyers := []string{"alice", "bob", "carol"}
	errs := make([]error, len(buyers))

	var wg sync.WaitGroup
	for i := range buyers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = office.BuyTicket(context.Background(), buyers[i], eventID, "First", "Last", buyers[i]+"@example.com", 3000)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.Nil(t, err, "buyer %s", buyers[i])
	}

	tickets, err := office.ListEventParticipants(admin, eventID)
	require.Nil(t, err)
	assert.Len(t, tickets, 3)
	assert.Len(t, rail.refunds, 3)

	balance, err := office.ContractBalance(admin)
	require.Nil(t, err)
	assert.Equal(t, uint64(7500), balance)
}

func TestContractBalanceRequiresAdministrator(t *testing.T) {
	office, _, _ := newOffice()

	_, err := office.ContractBalance("mallory")
	assert.True(t, errors.Is(err, ErrAccessDenied))

	balance, err := office.ContractBalance(admin)
	require.Nil(t, err)
	assert.Equal(t, uint64(0), balance)
}

func TestListEventParticipants(t *testing.T) {
	office, _, _ := newOffice()
	ctx := context.Background()
	eventID := createEvent(t, office, "GopherCon", 100, 2500)
	require.Nil(t, office.BuyTicket(ctx, "alice", eventID, "Alice", "Doe", "a@example.com", 2500))

	_, err := office.ListEventParticipants("mallory", eventID)
	assert.True(t, errors.Is(err, ErrAccessDenied))

	_, err = office.ListEventParticipants(admin, "")
	assert.True(t, errors.Is(err, ErrEmptyIdentifier))

	// Unknown events yield an empty collection, not a failure.
	tickets, err := office.ListEventParticipants(admin, "ev99")
	require.Nil(t, err)
	assert.Empty(t, tickets)

	tickets, err = office.ListEventParticipants(admin, eventID)
	require.Nil(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "alice", tickets[0].Owner)
}
