package starapi

import (
	"context"
	"crypto/subtle"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/oklog/ulid"
	"github.com/sirupsen/logrus"

	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/chttp"
	starCtx "github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/context"
	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/db"
	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/starapi/render"
	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/telegram"
)

// StarAPI implements the survey and star ledger HTTP server using `chttp.API`
type StarAPI struct {
	*chttp.API
	APIContext starCtx.StarAPIContext
	DBClient   db.Datastore
	log        logrus.FieldLogger
}

// NewStarAPI returns a `StarAPI` instance backed by a Postgres datastore
func NewStarAPI(apiCtx starCtx.StarAPIContext) *StarAPI {
	return &StarAPI{
		API:        chttp.NewAPI(apiCtx),
		APIContext: apiCtx,
		DBClient:   db.NewDBClient(apiCtx.Config),
		log:        logrus.StandardLogger(),
	}
}

// WrapHandler wraps a chttp.Handler and returns a standard http.Handler
func WrapHandler(h chttp.Handler) http.Handler {
	return h.HandlerFunc()
}

// BasicAuth wraps a handler requiring HTTP basic auth for it using the
// configured admin username and password.
func BasicAuth(apiCtx starCtx.StarAPIContext, handler http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(apiCtx.Config.Admin.Username)) != 1 || subtle.ConstantTimeCompare([]byte(pass), []byte(apiCtx.Config.Admin.Password)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm=please authenticate`)
			w.WriteHeader(401)
			_, _ = w.Write([]byte("Unauthorised.\n"))
			return
		}

		handler.ServeHTTP(w, r)
	})
}

// ContextKey represents a string key for request context.
type ContextKey string

const verifiedTelegramIDKey = ContextKey("verifiedTelegramID")

// WithTelegramIdentity verifies the Telegram WebApp init data attached
// to a request whenever a bot token is configured and the client sends
// the header. The verified id is stashed in the request context;
// handlers reject requests that act as anyone else.
func WithTelegramIdentity(apiCtx starCtx.StarAPIContext) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			botToken := apiCtx.Config.Telegram.BotToken
			initData := r.Header.Get("X-Telegram-Init-Data")
			if botToken == "" || initData == "" {
				h.ServeHTTP(w, r)
				return
			}

			values, err := telegram.VerifyInitData(initData, botToken)
			if err != nil {
				render.Error(w, r, ErrorKindInvalidIdentity, "telegram init data could not be verified", http.StatusUnauthorized)
				return
			}
			verifiedID, err := telegram.UserID(values)
			if err != nil {
				render.Error(w, r, ErrorKindInvalidIdentity, "telegram init data names no user", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), verifiedTelegramIDKey, verifiedID)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func verifiedTelegramID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(verifiedTelegramIDKey).(string)
	return id, ok
}

// RegisterRoutes applies the star API routes to the `chttp.API` router
func (sa *StarAPI) RegisterRoutes(apiCtx starCtx.StarAPIContext) {
	sa.Use(handlers.CORS(
		handlers.AllowedOrigins(apiCtx.Config.Web.Origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Telegram-Init-Data"}),
	))

	api := sa.Subrouter("/api")

	api.Use(handlers.CompressHandler)
	api.Use(chttp.JSONResponseMiddleware)
	api.Use(chttp.RequestLoggerMiddleware(sa.log))
	api.Use(WithTelegramIdentity(apiCtx))
	api.Handle("/ping", WrapHandler(sa.HandlePing))

	api.HandleFunc("/user", sa.HandleUserDetails)
	api.HandleFunc("/start-survey", sa.HandleStartSurvey)
	api.HandleFunc("/submit-answer", sa.HandleSubmitAnswer)
	api.HandleFunc("/claim-reward", sa.HandleClaimReward)
	api.HandleFunc("/claim-channel-reward", sa.HandleClaimChannelReward)
	api.HandleFunc("/ad-watched", sa.HandleAdWatched)
	api.HandleFunc("/spend-stars", sa.HandleSpendStars)
	api.HandleFunc("/redeem-stars", sa.HandleRedeemStars)
	api.HandleFunc("/redemptions", BasicAuth(apiCtx, http.HandlerFunc(sa.HandleRedemptionQueue)))
}

// resolveActingUser resolves the telegram id a request acts as,
// creating the account on first sight. When the request carries a
// verified Telegram identity it must match.
func (sa *StarAPI) resolveActingUser(r *http.Request, telegramID string) (*db.User, error) {
	if telegramID == "" {
		return nil, db.ErrInvalidIdentity
	}
	if verified, ok := verifiedTelegramID(r); ok && verified != telegramID {
		return nil, errIdentityMismatch
	}

	return sa.DBClient.ResolveUser(telegramID)
}

// generateULID returns a fresh ULID, used for session ids and
// redemption nonces
func generateULID() string {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
