package starapi

import (
	"net/http"

	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/db"
	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/starapi/render"
)

// UserDetailsResponse is a JSON response body representing a resolved user
type UserDetailsResponse struct {
	TelegramID           string `json:"telegram_id"`
	FirstName            string `json:"first_name"`
	VirtualStars         int64  `json:"virtual_stars"`
	SurveysCompleted     int64  `json:"surveys_completed"`
	FriendsReferred      int64  `json:"friends_referred"`
	FirstSurveyCompleted bool   `json:"first_survey_completed"`
	RealStarsRedeemed    int64  `json:"real_stars_redeemed"`
}

// HandleUserDetails resolves the acting user, creating a zero-balance
// account for a telegram id on first sight
func (sa *StarAPI) HandleUserDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := sa.resolveActingUser(r, r.URL.Query().Get("telegram_id"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, userDetailsResponse(user), http.StatusOK)
}

func userDetailsResponse(user *db.User) UserDetailsResponse {
	return UserDetailsResponse{
		TelegramID:           user.TelegramID,
		FirstName:            user.FirstName,
		VirtualStars:         user.VirtualStars,
		SurveysCompleted:     user.SurveysCompleted,
		FriendsReferred:      user.FriendsReferred,
		FirstSurveyCompleted: user.FirstSurveyCompleted,
		RealStarsRedeemed:    user.RealStarsRedeemed,
	}
}
