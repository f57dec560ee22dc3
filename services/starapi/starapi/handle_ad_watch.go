package starapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/db"
	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/starapi/render"
)

// AdWatchedRequest represents the confirmation of a completed ad
// impression. The impression id comes from the ad SDK callback and is
// the idempotency key for the grant, so a single verified view cannot
// be credited twice however often the client retries.
type AdWatchedRequest struct {
	TelegramID   string `json:"telegram_id"`
	ImpressionID string `json:"impression_id"`
}

// HandleAdWatched credits the ad-watch reward for a verified impression
func (sa *StarAPI) HandleAdWatched(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request AdWatchedRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, ErrorKindInvalidImpression, err.Error(), http.StatusBadRequest)
		return
	}
	if request.ImpressionID == "" {
		render.Error(w, r, ErrorKindInvalidImpression, "an ad impression id is required", http.StatusBadRequest)
		return
	}

	user, err := sa.resolveActingUser(r, request.TelegramID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	amount := sa.APIContext.Config.Params.AdWatchReward
	key := "ad:" + request.ImpressionID
	balance, applied, err := sa.DBClient.CreditStars(user.ID, amount, db.StarLedgerReasonAdWatch, key)
	if err != nil {
		renderError(w, r, err)
		return
	}

	message := fmt.Sprintf("You earned %d Virtual Stars for watching!", amount)
	if !applied {
		message = "This ad view has already been rewarded"
	}
	render.JSON(w, r, ClaimRewardResponse{Stars: balance, Message: message}, http.StatusOK)
}
