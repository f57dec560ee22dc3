package starapi

import (
	"fmt"
	"net/http"

	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/db"
	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/starapi/render"
)

// ClaimRewardResponse carries the authoritative balance after a grant.
// A replayed claim gets the same shape with the balance unchanged.
type ClaimRewardResponse struct {
	Stars   int64  `json:"stars"`
	Message string `json:"message"`
}

// HandleClaimReward credits the survey completion reward for a
// completed session. The grant is keyed by the session id, so calling
// it twice credits once.
func (sa *StarAPI) HandleClaimReward(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := sa.resolveActingUser(r, r.URL.Query().Get("telegram_id"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	session, err := sa.sessionOwnedBy(user, r.URL.Query().Get("session_id"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	if !session.Completed() {
		render.Error(w, r, ErrorKindSessionNotComplete, "finish the survey before claiming the reward", http.StatusConflict)
		return
	}

	amount := sa.APIContext.Config.Params.SurveyReward
	balance, applied, err := sa.DBClient.GrantSurveyReward(user.ID, amount, session.ID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	message := fmt.Sprintf("You earned %d Virtual Stars!", amount)
	if !applied {
		message = "Reward already claimed for this survey"
	}
	render.JSON(w, r, ClaimRewardResponse{Stars: balance, Message: message}, http.StatusOK)
}

// HandleClaimChannelReward credits the join-our-channel bonus, at most
// once per account for all time
func (sa *StarAPI) HandleClaimChannelReward(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := sa.resolveActingUser(r, r.URL.Query().Get("telegram_id"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	amount := sa.APIContext.Config.Params.ChannelReward
	key := fmt.Sprintf("channel:%d", user.ID)
	balance, applied, err := sa.DBClient.CreditStars(user.ID, amount, db.StarLedgerReasonChannelBonus, key)
	if err != nil {
		renderError(w, r, err)
		return
	}

	message := fmt.Sprintf("You earned %d Virtual Stars for joining the channel!", amount)
	if !applied {
		message = "Channel bonus already claimed"
	}
	render.JSON(w, r, ClaimRewardResponse{Stars: balance, Message: message}, http.StatusOK)
}
