package handler

import (
	"encoding/json"
	"evently-backend/factory"
	"evently-backend/logger"
	"evently-backend/model"
	"evently-backend/payment"
	"evently-backend/response"
	"net/http"
)

// ConnectAccount registers (or returns) the caller's payout account, the
// address cancellation and overpayment refunds are paid to. The token is
// verified online: a revoked caller must not be able to point refunds at a
// fresh address.
func ConnectAccount(accounts *payment.Accounts, f factory.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.AuthRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Errorf(ctx, "connectAccount: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body", "").Send(ctx, w)
			return
		}

		caller, ok := authenticateOnline(ctx, f, req.Data.Auth)
		if !ok {
			response.Unauthorized().Send(ctx, w)
			return
		}

		address, err := accounts.Ensure(ctx, caller)
		if err != nil {
			logger.Errorf(ctx, "connectAccount: unable to ensure payout account: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data:       map[string]string{"account_address": address},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}
