package handler

import (
	"encoding/json"
	"evently-backend/boxoffice"
	"evently-backend/logger"
	"evently-backend/model"
	"evently-backend/response"
	"net/http"

	"github.com/gorilla/mux"
)

// BuyTicket sells the caller one ticket for the event.
func BuyTicket(service *boxoffice.BoxOffice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["eventID"]

		var req model.BuyTicketRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil || req.Data.Purchase == nil {
			logger.Errorf(ctx, "buyTicket: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body", "").Send(ctx, w)
			return
		}

		caller, ok := authenticate(req.Data.Auth)
		if !ok {
			response.Unauthorized().Send(ctx, w)
			return
		}

		p := req.Data.Purchase
		err = service.BuyTicket(ctx, caller, eventID, p.FirstName, p.LastName, p.Email, p.PaymentValue)
		if err != nil {
			logger.Errorf(ctx, "buyTicket: unable to sell ticket for %s: %+v", eventID, err)
			sendError(ctx, w, err)
			return
		}

		response.SuccessResponse{
			Data:       map[string]string{"event_id": eventID},
			StatusCode: http.StatusCreated,
		}.Send(w)
	}
}

// MyTicket reports whether the caller holds a ticket for the event.
func MyTicket(service *boxoffice.BoxOffice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["eventID"]

		var req model.AuthRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Errorf(ctx, "myTicket: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body", "").Send(ctx, w)
			return
		}

		caller, ok := authenticate(req.Data.Auth)
		if !ok {
			response.Unauthorized().Send(ctx, w)
			return
		}

		found, ticket, index := service.GetUserTicket(eventID, caller)
		data := map[string]interface{}{"found": found}
		if found {
			data["ticket"] = ticket
			data["index"] = index
		}

		response.SuccessResponse{
			Data:       data,
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// CancelTicket cancels the caller's ticket and refunds its paid price.
func CancelTicket(service *boxoffice.BoxOffice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["eventID"]

		var req model.AuthRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Errorf(ctx, "cancelTicket: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body", "").Send(ctx, w)
			return
		}

		caller, ok := authenticate(req.Data.Auth)
		if !ok {
			response.Unauthorized().Send(ctx, w)
			return
		}

		err = service.CancelTicket(ctx, caller, eventID)
		if err != nil {
			logger.Errorf(ctx, "cancelTicket: unable to cancel ticket for %s: %+v", eventID, err)
			sendError(ctx, w, err)
			return
		}

		response.SuccessResponse{
			Data:       map[string]string{"event_id": eventID},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}
