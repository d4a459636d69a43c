package response

import (
	"context"
	"encoding/json"
	"evently-backend/logger"
	"fmt"
	"net/http"
)

type ErrorResponse struct {
	StatusCode  int    `json:"-"`
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

func (r ErrorResponse) Error() string {
	return fmt.Sprintf("StatusCode: %d, Success: %t, Message: %s, Status: %s, Description: %s", r.StatusCode, r.Success, r.Message, r.Status, r.Description)
}

func (r ErrorResponse) Send(ctx context.Context, w http.ResponseWriter) {
	logger.Errorf(ctx, r.Error())
	w.WriteHeader(r.StatusCode)
	json.NewEncoder(w).Encode(r)
}

func BadRequest(message, description string) ErrorResponse {
	return ErrorResponse{
		StatusCode:  http.StatusBadRequest,
		Success:     false,
		Message:     message,
		Status:      "BAD_REQUEST",
		Description: description,
	}
}

func ResourceNotFound(message, description string) ErrorResponse {
	return ErrorResponse{
		StatusCode:  http.StatusNotFound,
		Success:     false,
		Message:     message,
		Status:      "NOT_FOUND",
		Description: description,
	}
}

func Unauthorized() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusUnauthorized,
		Success:    false,
		Message:    "No valid Auth Token",
		Status:     "UNAUTHORISED",
	}
}

func SomethingWrong() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Success:    false,
		Message:    "Sorry, Something went wrong",
		Status:     "SOMETHING_WRONG",
	}
}

func AccessDenied() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusForbidden,
		Success:    false,
		Message:    "Caller is not the administrator",
		Status:     "ACCESS_DENIED",
	}
}

func InvalidSchedule() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Success:    false,
		Message:    "Event date must be in the future",
		Status:     "INVALID_SCHEDULE",
	}
}

func EventNotFound() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusNotFound,
		Success:    false,
		Message:    "No such event exists",
		Status:     "EVENT_NOT_FOUND",
	}
}

func NoStatusChange() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusConflict,
		Success:    false,
		Message:    "Event already has the requested status",
		Status:     "NO_STATUS_CHANGE",
	}
}

func OrganizerCannotBuyTicket() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusForbidden,
		Success:    false,
		Message:    "Organizers cannot buy tickets to their own events",
		Status:     "ORGANIZER_CANNOT_BUY",
	}
}

func TicketAlreadyExists() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusConflict,
		Success:    false,
		Message:    "You already hold a ticket for this event",
		Status:     "TICKET_EXISTS",
	}
}

func PassedEventDate() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusGone,
		Success:    false,
		Message:    "The event date has passed",
		Status:     "PASSED_EVENT_DATE",
	}
}

func EventPaused() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusConflict,
		Success:    false,
		Message:    "Registration for this event is paused",
		Status:     "EVENT_PAUSED",
	}
}

func SoldOutTickets() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusConflict,
		Success:    false,
		Message:    "This event is sold out",
		Status:     "SOLD_OUT",
	}
}

func NotEnoughFunds() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusPaymentRequired,
		Success:    false,
		Message:    "Payment is below the ticket price",
		Status:     "NOT_ENOUGH_FUNDS",
	}
}

func TicketNotFound() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusNotFound,
		Success:    false,
		Message:    "No ticket found for this caller",
		Status:     "TICKET_NOT_FOUND",
	}
}

func RefundWindowClosed() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusGone,
		Success:    false,
		Message:    "The refund window for this event has closed",
		Status:     "REFUND_WINDOW_CLOSED",
	}
}

func EmptyIdentifier() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Success:    false,
		Message:    "Event identifier must not be empty",
		Status:     "EMPTY_IDENTIFIER",
	}
}

func OperationInProgress() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusConflict,
		Success:    false,
		Message:    "Another operation is in progress, try again",
		Status:     "OPERATION_IN_PROGRESS",
	}
}
