package starapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startSurvey(t *testing.T, sa *StarAPI, telegramID string) string {
	t.Helper()

	code, body := doRequest(t, sa, http.MethodPost, "/api/start-survey", StartSurveyRequest{TelegramID: telegramID})
	require.Equal(t, http.StatusOK, code)
	sessionID, ok := body["session_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, sessionID)
	assert.EqualValues(t, 1, body["step"])

	return sessionID
}

func submitAnswer(t *testing.T, sa *StarAPI, telegramID, sessionID string, step int) (int, map[string]interface{}) {
	t.Helper()

	return doRequest(t, sa, http.MethodPost, "/api/submit-answer", SubmitAnswerRequest{
		TelegramID: telegramID,
		SessionID:  sessionID,
		Step:       step,
		Answer:     fmt.Sprintf("answer %d", step),
	})
}

func completeSurvey(t *testing.T, sa *StarAPI, telegramID string) string {
	t.Helper()

	sessionID := startSurvey(t, sa, telegramID)
	for step := 1; step <= sa.APIContext.Config.Params.QuestionCount; step++ {
		code, _ := submitAnswer(t, sa, telegramID, sessionID, step)
		require.Equal(t, http.StatusOK, code)
	}

	return sessionID
}

func TestSurveyFlow(t *testing.T) {
	sa, _ := newTestStarAPI(testConfig())

	// a fresh telegram id materializes with everything zeroed
	code, body := doRequest(t, sa, http.MethodGet, "/api/user?telegram_id=71001", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["virtual_stars"])
	assert.EqualValues(t, 0, body["surveys_completed"])
	assert.Equal(t, false, body["first_survey_completed"])

	sessionID := startSurvey(t, sa, "71001")

	code, body = submitAnswer(t, sa, "71001", sessionID, 1)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["completed"])
	assert.EqualValues(t, 2, body["next_step"])

	code, body = submitAnswer(t, sa, "71001", sessionID, 2)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["next_step"])

	code, body = submitAnswer(t, sa, "71001", sessionID, 3)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["completed"])
	assert.Equal(t, "https://ads.example.com/dl", body["ad_url"])
	assert.Nil(t, body["next_step"])

	// a completed session takes no further answers
	code, body = submitAnswer(t, sa, "71001", sessionID, 4)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, ErrorKindSessionAlreadyComplete, body["error"])
}

func TestSubmitAnswerStepMismatch(t *testing.T) {
	sa, _ := newTestStarAPI(testConfig())

	sessionID := startSurvey(t, sa, "71002")

	code, _ := submitAnswer(t, sa, "71002", sessionID, 1)
	require.Equal(t, http.StatusOK, code)

	// replaying step 1 is rejected and the cursor does not move
	code, body := submitAnswer(t, sa, "71002", sessionID, 1)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, ErrorKindStepMismatch, body["error"])

	// skipping ahead is rejected the same way
	code, body = submitAnswer(t, sa, "71002", sessionID, 3)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, ErrorKindStepMismatch, body["error"])

	// the session still accepts the expected step
	code, body = submitAnswer(t, sa, "71002", sessionID, 2)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["next_step"])
}

func TestSubmitAnswerUnknownSession(t *testing.T) {
	sa, _ := newTestStarAPI(testConfig())

	code, body := submitAnswer(t, sa, "71003", "01AMN0TAREALSESS10N000000", 1)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, ErrorKindSessionNotFound, body["error"])
}

func TestSubmitAnswerForeignSession(t *testing.T) {
	sa, _ := newTestStarAPI(testConfig())

	sessionID := startSurvey(t, sa, "71004")

	// another user cannot see or advance the session
	code, body := submitAnswer(t, sa, "71005", sessionID, 1)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, ErrorKindSessionNotFound, body["error"])
}

func TestStartSurveyAbandonsNothing(t *testing.T) {
	sa, _ := newTestStarAPI(testConfig())

	first := startSurvey(t, sa, "71006")
	second := startSurvey(t, sa, "71006")
	assert.NotEqual(t, first, second)

	// the earlier session is still answerable, just parallel
	code, _ := submitAnswer(t, sa, "71006", first, 1)
	assert.Equal(t, http.StatusOK, code)
}

func TestStartSurveyRequiresIdentity(t *testing.T) {
	sa, _ := newTestStarAPI(testConfig())

	code, body := doRequest(t, sa, http.MethodPost, "/api/start-survey", StartSurveyRequest{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, ErrorKindInvalidIdentity, body["error"])
}
