package router

import (
	"context"
	"encoding/json"
	"evently-backend/boxoffice"
	"evently-backend/config"
	"evently-backend/factory"
	"evently-backend/handler"
	"evently-backend/healthcheck"
	"evently-backend/logger"
	"evently-backend/middleware"
	"evently-backend/model"
	"evently-backend/notify"
	"evently-backend/payment"
	"evently-backend/response"
	"evently-backend/store"
	"evently-backend/vault"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spf13/viper"
)

// Router wires the box office, payment rail and notification emitters
// behind the HTTP API.
func Router(ctx context.Context) *mux.Router {
	v, err := vault.New(
		viper.GetString(config.VaultToken),
		viper.GetString(config.VaultUnSealKey),
		viper.GetString(config.VaultAddress),
		viper.GetString(config.PayoutPath),
		viper.GetString(config.TreasuryPath))
	if err != nil {
		logger.Fatalf(ctx, "router: Error creating vault client: %+v", err)
	}

	accounts := payment.NewAccounts(*v, viper.GetString(config.Secret))

	treasury, err := accounts.Treasury()
	if err != nil {
		logger.Fatalf(ctx, "router: Error loading treasury account: %+v", err)
	}

	rail := payment.NewRail(
		treasury,
		accounts,
		viper.GetString(config.ApiAddress),
		viper.GetString(config.ApiKey),
		viper.GetUint64(config.MinFee),
	)

	f := factory.NewFactory()

	emitters := []notify.Emitter{
		notify.NewLog(),
		notify.NewRedis(f.Redis(ctx), viper.GetString(config.NotifyChannel)),
		store.NewJournal(f.DB(ctx)),
	}
	if url := viper.GetString(config.WebhookURL); url != "" {
		emitters = append(emitters, notify.NewWebhook(url))
	}
	emitter := notify.NewFanout(emitters...)

	service := boxoffice.New(viper.GetString(config.AdminIdentity), rail, emitter)

	return newRouter(service, accounts, f, emitter)
}

func newRouter(service *boxoffice.BoxOffice, accounts *payment.Accounts, f factory.Factory, emitter notify.Emitter) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.SetCorrelationIDHeader)
	r.Use(middleware.PanicHandler)
	r.Use(middleware.ResponseTimeLogging)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.SetContentTypeHeader)

	// Fail-open path: anything that matches no known operation, unknown
	// path and wrong method alike, is logged, not just rejected.
	unmatched := http.HandlerFunc(unmatchedCall(emitter))
	r.NotFoundHandler = unmatched
	r.MethodNotAllowedHandler = unmatched

	r.HandleFunc("/healthcheck", healthcheck.Self).Methods(http.MethodGet)
	baseRouter := r.PathPrefix("/v1").Subrouter()

	eventRouter := baseRouter.PathPrefix("/events").Subrouter()
	eventRouter.HandleFunc("", handler.CreateEvent(service)).Methods(http.MethodPost)
	eventRouter.HandleFunc("", handler.ListEvents(service)).Methods(http.MethodGet)
	eventRouter.HandleFunc("/{eventID}", handler.EventDetails(service)).Methods(http.MethodGet)
	eventRouter.HandleFunc("/{eventID}/status", handler.ToggleStatus(service)).Methods(http.MethodPatch)
	eventRouter.HandleFunc("/{eventID}/participants", handler.Participants(service)).Methods(http.MethodPost)
	eventRouter.HandleFunc("/{eventID}/tickets", handler.BuyTicket(service)).Methods(http.MethodPost)
	eventRouter.HandleFunc("/{eventID}/tickets/mine", handler.MyTicket(service)).Methods(http.MethodPost)
	eventRouter.HandleFunc("/{eventID}/tickets", handler.CancelTicket(service)).Methods(http.MethodDelete)

	baseRouter.HandleFunc("/balance", handler.Balance(service)).Methods(http.MethodPost)
	baseRouter.HandleFunc("/accounts/connect", handler.ConnectAccount(accounts, f)).Methods(http.MethodPost)

	return r
}

func unmatchedCall(emitter notify.Emitter) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		body, _ := ioutil.ReadAll(req.Body)

		// Best effort: an unmatched call may still carry a well-formed auth
		// envelope naming the caller.
		var caller string
		var authReq model.AuthRequest
		if err := json.Unmarshal(body, &authReq); err == nil && authReq.Data.Auth != nil {
			caller = authReq.Data.Auth.TokenID
		}

		emitter.Emit(ctx, model.KindUnmatchedCall, model.UnmatchedCall{
			Caller:  caller,
			Payload: fmt.Sprintf("%s %s %s", req.Method, req.URL.Path, body),
		})

		response.ResourceNotFound(fmt.Sprintf("The requested resource was not found: path: %s, method: %s", req.URL.Path, req.Method), "The requested resource was not found!").Send(ctx, w)
	}
}
