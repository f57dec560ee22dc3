package starapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/db"
	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/starapi/render"
)

// SpendStarsRequest represents the JSON request for an in-app spend
type SpendStarsRequest struct {
	TelegramID string `json:"telegram_id"`
	Amount     int64  `json:"amount"`
	Action     string `json:"action"`
}

// SpendStarsResponse signals the gated unlock with the new balance and
// the ad link the client proceeds to
type SpendStarsResponse struct {
	Success bool   `json:"success"`
	Stars   int64  `json:"stars"`
	AdURL   string `json:"ad_url"`
	Message string `json:"message"`
}

// HandleSpendStars debits stars for an in-app unlock. Spends carry no
// idempotency key; every call is a genuine new debit.
func (sa *StarAPI) HandleSpendStars(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request SpendStarsRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, ErrorKindInvalidIdentity, err.Error(), http.StatusBadRequest)
		return
	}
	if request.Amount == 0 {
		request.Amount = sa.APIContext.Config.Params.SpendDefault
	}
	if request.Action == "" {
		request.Action = "skip_wait"
	}

	user, err := sa.resolveActingUser(r, request.TelegramID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	balance, _, err := sa.DBClient.DebitStars(user.ID, request.Amount, db.StarLedgerReasonSpend, "")
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, SpendStarsResponse{
		Success: true,
		Stars:   balance,
		AdURL:   sa.APIContext.Config.Ads.DirectLinkURL,
		Message: fmt.Sprintf("Spent %d stars to %s", request.Amount, request.Action),
	}, http.StatusOK)
}
