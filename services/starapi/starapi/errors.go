package starapi

import (
	"errors"
	"net/http"

	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/db"
	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/starapi/render"
)

// Stable error kinds returned to clients. Every kind is
// client-correctable; clients display the detail verbatim and may
// retry freely because every mutating operation is idempotent or
// atomic.
const (
	ErrorKindInvalidIdentity        = "InvalidIdentity"
	ErrorKindSessionNotFound        = "SessionNotFound"
	ErrorKindSessionAlreadyComplete = "SessionAlreadyComplete"
	ErrorKindSessionNotComplete     = "SessionNotComplete"
	ErrorKindStepMismatch           = "StepMismatch"
	ErrorKindInvalidAmount          = "InvalidAmount"
	ErrorKindNonceConflict          = "NonceConflict"
	ErrorKindInsufficientBalance    = "InsufficientBalance"
	ErrorKindRedemptionThreshold    = "RedemptionThreshold"
	ErrorKindInvalidPayoutDetails   = "InvalidPayoutDetails"
	ErrorKindInvalidImpression      = "InvalidImpression"
	ErrorKindUnavailable            = "Unavailable"
)

var errIdentityMismatch = errors.New("telegram id does not match the verified identity")

// renderError maps service errors onto the HTTP error contract
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch err {
	case db.ErrInvalidIdentity:
		render.Error(w, r, ErrorKindInvalidIdentity, err.Error(), http.StatusBadRequest)
	case errIdentityMismatch:
		render.Error(w, r, ErrorKindInvalidIdentity, err.Error(), http.StatusUnauthorized)
	case db.ErrSessionNotFound:
		render.Error(w, r, ErrorKindSessionNotFound, err.Error(), http.StatusNotFound)
	case db.ErrSessionAlreadyComplete:
		render.Error(w, r, ErrorKindSessionAlreadyComplete, err.Error(), http.StatusConflict)
	case db.ErrStepMismatch:
		render.Error(w, r, ErrorKindStepMismatch, err.Error(), http.StatusConflict)
	case db.ErrInvalidAmount:
		render.Error(w, r, ErrorKindInvalidAmount, err.Error(), http.StatusBadRequest)
	case db.ErrMissingIdempotencyKey:
		render.Error(w, r, ErrorKindInvalidPayoutDetails, err.Error(), http.StatusBadRequest)
	case db.ErrNonceInUse:
		render.Error(w, r, ErrorKindNonceConflict, err.Error(), http.StatusConflict)
	case db.ErrInsufficientStars:
		render.Error(w, r, ErrorKindInsufficientBalance, "Not enough stars", http.StatusBadRequest)
	default:
		// storage and other infrastructure failures are retry-safe
		render.Error(w, r, ErrorKindUnavailable, "temporarily unavailable, please retry", http.StatusServiceUnavailable)
	}
}
