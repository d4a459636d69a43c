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

// CreateEvent registers a new event. Administrator only.
func CreateEvent(service *boxoffice.BoxOffice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.CreateEventRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil || req.Data.Event == nil {
			logger.Errorf(ctx, "createEvent: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body", "").Send(ctx, w)
			return
		}

		caller, ok := authenticate(req.Data.Auth)
		if !ok {
			response.Unauthorized().Send(ctx, w)
			return
		}

		if !verifyOTP(req.Data.Auth) {
			response.Unauthorized().Send(ctx, w)
			return
		}

		ev := req.Data.Event
		eventID, err := service.CreateEvent(ctx, caller, ev.Name, ev.TicketLimit, ev.Price, ev.EventDate)
		if err != nil {
			logger.Errorf(ctx, "createEvent: unable to create event: %+v", err)
			sendError(ctx, w, err)
			return
		}

		response.SuccessResponse{
			Data:       map[string]string{"event_id": eventID},
			StatusCode: http.StatusCreated,
		}.Send(w)
	}
}

// ListEvents returns every event identifier in creation order.
func ListEvents(service *boxoffice.BoxOffice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.SuccessResponse{
			Data:       map[string]interface{}{"event_ids": service.ListEvents()},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// EventDetails returns an event snapshot without its ticket collection.
func EventDetails(service *boxoffice.BoxOffice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["eventID"]

		summary, err := service.ShowEventDetails(eventID)
		if err != nil {
			logger.Errorf(ctx, "eventDetails: unable to get event %s: %+v", eventID, err)
			sendError(ctx, w, err)
			return
		}

		response.SuccessResponse{
			Data:       map[string]interface{}{"event": summary},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// ToggleStatus pauses or resumes registration. Administrator only.
func ToggleStatus(service *boxoffice.BoxOffice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["eventID"]

		var req model.ToggleStatusRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Errorf(ctx, "toggleStatus: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body", "").Send(ctx, w)
			return
		}

		caller, ok := authenticate(req.Data.Auth)
		if !ok {
			response.Unauthorized().Send(ctx, w)
			return
		}

		if !verifyOTP(req.Data.Auth) {
			response.Unauthorized().Send(ctx, w)
			return
		}

		err = service.TogglePauseEventRegistration(ctx, caller, eventID, req.Data.Status)
		if err != nil {
			logger.Errorf(ctx, "toggleStatus: unable to toggle event %s: %+v", eventID, err)
			sendError(ctx, w, err)
			return
		}

		response.SuccessResponse{
			Data:       map[string]interface{}{"event_id": eventID, "status": req.Data.Status},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// Participants returns the event's current ticket collection. Administrator
// only.
func Participants(service *boxoffice.BoxOffice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["eventID"]

		var req model.AuthRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Errorf(ctx, "participants: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body", "").Send(ctx, w)
			return
		}

		caller, ok := authenticate(req.Data.Auth)
		if !ok {
			response.Unauthorized().Send(ctx, w)
			return
		}

		if !verifyOTP(req.Data.Auth) {
			response.Unauthorized().Send(ctx, w)
			return
		}

		tickets, err := service.ListEventParticipants(caller, eventID)
		if err != nil {
			logger.Errorf(ctx, "participants: unable to list participants of %s: %+v", eventID, err)
			sendError(ctx, w, err)
			return
		}

		response.SuccessResponse{
			Data:       map[string]interface{}{"tickets": tickets},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// Balance reports the aggregate value held. Administrator only.
func Balance(service *boxoffice.BoxOffice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.AuthRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Errorf(ctx, "balance: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body", "").Send(ctx, w)
			return
		}

		caller, ok := authenticate(req.Data.Auth)
		if !ok {
			response.Unauthorized().Send(ctx, w)
			return
		}

		if !verifyOTP(req.Data.Auth) {
			response.Unauthorized().Send(ctx, w)
			return
		}

		balance, err := service.ContractBalance(caller)
		if err != nil {
			logger.Errorf(ctx, "balance: unable to read balance: %+v", err)
			sendError(ctx, w, err)
			return
		}

		response.SuccessResponse{
			Data:       map[string]uint64{"balance": balance},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}
