package handler

import (
	"context"
	"errors"
	"evently-backend/boxoffice"
	"evently-backend/config"
	"evently-backend/factory"
	"evently-backend/firebase"
	"evently-backend/logger"
	"evently-backend/model"
	"evently-backend/response"
	"net/http"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/spf13/viper"
)

// authenticate resolves the caller identity from the request's ID token.
func authenticate(auth *model.Auth) (string, bool) {
	if auth == nil {
		return "", false
	}

	interval := time.Duration(viper.GetInt(config.JWTOfflineInterval)) * time.Second
	return firebase.VerifyJWTIDToken(auth.TokenID, viper.GetString(config.FirebaseProjectID), interval)
}

// authenticateOnline resolves the caller identity through the Firebase Auth
// client, with no offline grace. Used where a stale token is not acceptable,
// such as registering the payout account refunds are sent to.
func authenticateOnline(ctx context.Context, f factory.Factory, auth *model.Auth) (string, bool) {
	if auth == nil || auth.TokenID == "" {
		return "", false
	}

	token, err := firebase.VerifyIDToken(ctx, f.FirebaseApp(ctx), auth.TokenID)
	if err != nil {
		logger.Errorf(ctx, "authenticateOnline: error verifying ID token: %+v", err)
		return "", false
	}

	return token.UID, true
}

// verifyOTP is the second factor on administrator endpoints.
func verifyOTP(auth *model.Auth) bool {
	if auth == nil {
		return false
	}

	return totp.Validate(auth.OTP, viper.GetString(config.Secret))
}

// sendError maps a box office failure onto its wire response.
func sendError(ctx context.Context, w http.ResponseWriter, err error) {
	var res response.ErrorResponse
	switch {
	case errors.Is(err, boxoffice.ErrAccessDenied):
		res = response.AccessDenied()
	case errors.Is(err, boxoffice.ErrInvalidSchedule):
		res = response.InvalidSchedule()
	case errors.Is(err, boxoffice.ErrEventNotFound):
		res = response.EventNotFound()
	case errors.Is(err, boxoffice.ErrNoStatusChange):
		res = response.NoStatusChange()
	case errors.Is(err, boxoffice.ErrOrganizerCannotBuyTicket):
		res = response.OrganizerCannotBuyTicket()
	case errors.Is(err, boxoffice.ErrTicketAlreadyExists):
		res = response.TicketAlreadyExists()
	case errors.Is(err, boxoffice.ErrPassedEventDate):
		res = response.PassedEventDate()
	case errors.Is(err, boxoffice.ErrEventPaused):
		res = response.EventPaused()
	case errors.Is(err, boxoffice.ErrSoldOutTickets):
		res = response.SoldOutTickets()
	case errors.Is(err, boxoffice.ErrNotEnoughFunds):
		res = response.NotEnoughFunds()
	case errors.Is(err, boxoffice.ErrTicketNotFound):
		res = response.TicketNotFound()
	case errors.Is(err, boxoffice.ErrRefundWindowClosed):
		res = response.RefundWindowClosed()
	case errors.Is(err, boxoffice.ErrEmptyIdentifier):
		res = response.EmptyIdentifier()
	case errors.Is(err, boxoffice.ErrReentrantCall):
		res = response.OperationInProgress()
	default:
		res = response.SomethingWrong()
	}

	res.Send(ctx, w)
}
