package starapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/db"
	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/starapi/render"
)

// RedeemStarsRequest represents the JSON request for a redemption. The
// nonce is optional; the server generates one when absent and echoes
// it back so a retry can reuse it.
type RedeemStarsRequest struct {
	TelegramID   string `json:"telegram_id"`
	PaymentName  string `json:"payment_name"`
	PaymentEmail string `json:"payment_email"`
	Nonce        string `json:"nonce"`
}

// RedeemStarsResponse confirms the pending redemption
type RedeemStarsResponse struct {
	Success bool   `json:"success"`
	Stars   int64  `json:"stars"`
	Nonce   string `json:"nonce"`
	Message string `json:"message"`
}

// HandleRedeemStars debits the redemption threshold and records a
// pending payout request as one atomic unit
func (sa *StarAPI) HandleRedeemStars(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request RedeemStarsRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, ErrorKindInvalidPayoutDetails, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(request.PaymentName) == "" || strings.TrimSpace(request.PaymentEmail) == "" {
		render.Error(w, r, ErrorKindInvalidPayoutDetails, "a payout name and email are required", http.StatusBadRequest)
		return
	}

	user, err := sa.resolveActingUser(r, request.TelegramID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	threshold := sa.APIContext.Config.Params.RedeemThreshold
	nonce := request.Nonce
	if nonce == "" {
		nonce = generateULID()
	}

	_, _, err = sa.DBClient.CreateRedemption(user.ID, threshold, request.PaymentName, request.PaymentEmail, nonce)
	if err == db.ErrInsufficientStars {
		render.Error(w, r, ErrorKindRedemptionThreshold,
			fmt.Sprintf("you need %d stars to redeem", threshold), http.StatusBadRequest)
		return
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	balance, err := sa.DBClient.StarBalance(user.ID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, RedeemStarsResponse{
		Success: true,
		Stars:   balance,
		Nonce:   nonce,
		Message: fmt.Sprintf("Redemption request received! We'll send %d REAL Telegram Stars within 24h.", threshold),
	}, http.StatusOK)
}

// HandleRedemptionQueue lists redemptions awaiting out-of-band
// fulfillment; admin only
func (sa *StarAPI) HandleRedemptionQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	redemptions, err := sa.DBClient.PendingRedemptions()
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, redemptions, http.StatusOK)
}
