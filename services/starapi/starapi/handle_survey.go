package starapi

import (
	"encoding/json"
	"net/http"

	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/db"
	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/starapi/render"
)

// StartSurveyRequest represents the JSON request for starting a survey
type StartSurveyRequest struct {
	TelegramID string `json:"telegram_id"`
}

// StartSurveyResponse carries the fresh session id and the first step
type StartSurveyResponse struct {
	SessionID string `json:"session_id"`
	Step      int    `json:"step"`
}

// SubmitAnswerRequest represents the JSON request for submitting an answer
type SubmitAnswerRequest struct {
	TelegramID string `json:"telegram_id"`
	SessionID  string `json:"session_id"`
	Step       int    `json:"step"`
	Answer     string `json:"answer"`
}

// SubmitAnswerResponse is the authoritative session state after an
// answer: either the next step, or completion plus the ad link the
// client opens as its gated action.
type SubmitAnswerResponse struct {
	Completed bool   `json:"completed"`
	NextStep  int    `json:"next_step,omitempty"`
	AdURL     string `json:"ad_url,omitempty"`
}

// HandleStartSurvey creates a fresh survey session for the acting
// user. An earlier unfinished session is abandoned, not an error.
func (sa *StarAPI) HandleStartSurvey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request StartSurveyRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, ErrorKindInvalidIdentity, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := sa.resolveActingUser(r, request.TelegramID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	session, err := sa.DBClient.StartSurveySession(user.ID, generateULID())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, StartSurveyResponse{
		SessionID: session.ID,
		Step:      session.CurrentStep,
	}, http.StatusOK)
}

// HandleSubmitAnswer records an answer and advances the session
// cursor. The response is the authoritative next state; the client
// never advances on its own.
func (sa *StarAPI) HandleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request SubmitAnswerRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, ErrorKindInvalidIdentity, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := sa.resolveActingUser(r, request.TelegramID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	session, err := sa.sessionOwnedBy(user, request.SessionID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	session, err = sa.DBClient.SubmitSurveyAnswer(session.ID, request.Step, request.Answer, sa.APIContext.Config.Params.QuestionCount)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if session.Completed() {
		render.JSON(w, r, SubmitAnswerResponse{
			Completed: true,
			AdURL:     sa.APIContext.Config.Ads.DirectLinkURL,
		}, http.StatusOK)
		return
	}
	render.JSON(w, r, SubmitAnswerResponse{
		Completed: false,
		NextStep:  session.CurrentStep,
	}, http.StatusOK)
}

// sessionOwnedBy loads a session and hides sessions belonging to other
// users behind the same not-found error
func (sa *StarAPI) sessionOwnedBy(user *db.User, sessionID string) (*db.SurveySession, error) {
	if sessionID == "" {
		return nil, db.ErrSessionNotFound
	}
	session, err := sa.DBClient.SurveySessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != user.ID {
		return nil, db.ErrSessionNotFound
	}

	return session, nil
}
