package starapi

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/chttp"
	starCtx "github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/context"
	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/db"
)

// mockDatastore is an in-memory db.Datastore with the same idempotency
// and balance semantics as the Postgres client
type mockDatastore struct {
	mu          sync.Mutex
	nextUserID  int64
	nextEntryID int64
	users       map[string]*db.User
	usersByID   map[int64]*db.User
	entries     []db.StarLedgerEntry
	usedKeys    map[string]bool
	sessions    map[string]*db.SurveySession
	answers     map[string][]db.SurveyAnswer
	redemptions map[string]*db.Redemption
}

func newMockDatastore() *mockDatastore {
	return &mockDatastore{
		users:       make(map[string]*db.User),
		usersByID:   make(map[int64]*db.User),
		usedKeys:    make(map[string]bool),
		sessions:    make(map[string]*db.SurveySession),
		answers:     make(map[string][]db.SurveyAnswer),
		redemptions: make(map[string]*db.Redemption),
	}
}

func (m *mockDatastore) ResolveUser(telegramID string) (*db.User, error) {
	if telegramID == "" {
		return nil, db.ErrInvalidIdentity
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[telegramID]
	if !ok {
		m.nextUserID++
		user = &db.User{
			ID:         m.nextUserID,
			TelegramID: telegramID,
			FirstName:  "Anonymous",
		}
		m.users[telegramID] = user
		m.usersByID[user.ID] = user
	}
	user.LastActiveAt = time.Now()

	return user, nil
}

func (m *mockDatastore) UserByTelegramID(telegramID string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[telegramID], nil
}

func (m *mockDatastore) CreditStars(userID int64, amount int64, reason db.StarLedgerReason, idempotencyKey string) (int64, bool, error) {
	if amount <= 0 {
		return 0, false, db.ErrInvalidAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applyEntry(userID, amount, reason, idempotencyKey)
}

func (m *mockDatastore) DebitStars(userID int64, amount int64, reason db.StarLedgerReason, idempotencyKey string) (int64, bool, error) {
	if amount <= 0 {
		return 0, false, db.ErrInvalidAmount
	}
	if reason == db.StarLedgerReasonRedemption && idempotencyKey == "" {
		return 0, false, db.ErrMissingIdempotencyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applyEntry(userID, -amount, reason, idempotencyKey)
}

func (m *mockDatastore) GrantSurveyReward(userID int64, amount int64, sessionID string) (int64, bool, error) {
	if amount <= 0 {
		return 0, false, db.ErrInvalidAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	balance, applied, err := m.applyEntry(userID, amount, db.StarLedgerReasonSurveyComplete, sessionID)
	if err != nil || !applied {
		return balance, applied, err
	}
	user := m.usersByID[userID]
	user.SurveysCompleted++
	user.FirstSurveyCompleted = true

	return balance, true, nil
}

// applyEntry mirrors the atomic append-and-update step of the Postgres
// client; callers hold the lock
func (m *mockDatastore) applyEntry(userID int64, delta int64, reason db.StarLedgerReason, idempotencyKey string) (int64, bool, error) {
	user, ok := m.usersByID[userID]
	if !ok {
		return 0, false, db.ErrUserNotFound
	}
	if idempotencyKey != "" && m.usedKeys[idempotencyKey] {
		return user.VirtualStars, false, nil
	}
	if delta < 0 && user.VirtualStars+delta < 0 {
		return 0, false, db.ErrInsufficientStars
	}

	m.nextEntryID++
	m.entries = append(m.entries, db.StarLedgerEntry{
		ID:             m.nextEntryID,
		UserID:         userID,
		Amount:         delta,
		Reason:         reason,
		IdempotencyKey: idempotencyKey,
	})
	if idempotencyKey != "" {
		m.usedKeys[idempotencyKey] = true
	}
	user.VirtualStars += delta

	return user.VirtualStars, true, nil
}

func (m *mockDatastore) StartSurveySession(userID int64, sessionID string) (*db.SurveySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := &db.SurveySession{
		ID:          sessionID,
		UserID:      userID,
		CurrentStep: 1,
		StartedAt:   time.Now(),
	}
	m.sessions[sessionID] = session

	return session, nil
}

func (m *mockDatastore) SurveySessionByID(sessionID string) (*db.SurveySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[sessionID], nil
}

func (m *mockDatastore) SubmitSurveyAnswer(sessionID string, step int, answer string, questionCount int) (*db.SurveySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, db.ErrSessionNotFound
	}
	if session.Completed() {
		return nil, db.ErrSessionAlreadyComplete
	}
	if step != session.CurrentStep {
		return nil, db.ErrStepMismatch
	}

	m.answers[sessionID] = append(m.answers[sessionID], db.SurveyAnswer{
		SessionID: sessionID,
		Step:      step,
		Answer:    answer,
	})
	session.CurrentStep++
	if session.CurrentStep > questionCount {
		now := time.Now()
		session.CompletedAt = &now
	}

	return session, nil
}

func (m *mockDatastore) CreateRedemption(userID int64, amount int64, paymentName, paymentEmail, nonce string) (*db.Redemption, bool, error) {
	if amount <= 0 {
		return nil, false, db.ErrInvalidAmount
	}
	if nonce == "" {
		return nil, false, db.ErrMissingIdempotencyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.usedKeys["redeem:"+nonce] {
		redemption, ok := m.redemptions[nonce]
		if !ok || redemption.UserID != userID {
			return nil, false, db.ErrNonceInUse
		}
		return redemption, false, nil
	}
	user, ok := m.usersByID[userID]
	if !ok {
		return nil, false, db.ErrUserNotFound
	}
	if user.VirtualStars < amount {
		return nil, false, db.ErrInsufficientStars
	}

	_, _, err := m.applyEntry(userID, -amount, db.StarLedgerReasonRedemption, "redeem:"+nonce)
	if err != nil {
		return nil, false, err
	}
	user.RealStarsRedeemed += amount
	redemption := &db.Redemption{
		ID:           int64(len(m.redemptions) + 1),
		UserID:       userID,
		Amount:       amount,
		PaymentName:  paymentName,
		PaymentEmail: paymentEmail,
		Nonce:        nonce,
		Status:       db.RedemptionStatusPending,
	}
	m.redemptions[nonce] = redemption

	return redemption, true, nil
}

func (m *mockDatastore) StarBalance(userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.usersByID[userID]
	if !ok {
		return 0, db.ErrUserNotFound
	}
	return user.VirtualStars, nil
}

func (m *mockDatastore) StarLedgerEntriesByUser(userID int64) ([]db.StarLedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]db.StarLedgerEntry, 0)
	for _, entry := range m.entries {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (m *mockDatastore) PendingRedemptions() ([]db.Redemption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pending := make([]db.Redemption, 0)
	for _, redemption := range m.redemptions {
		if redemption.Status == db.RedemptionStatusPending {
			pending = append(pending, *redemption)
		}
	}
	return pending, nil
}

func testConfig() starCtx.Config {
	return starCtx.Config{
		Params: starCtx.ParamsConfig{
			QuestionCount:   3,
			SurveyReward:    50,
			ChannelReward:   100,
			AdWatchReward:   10,
			RedeemThreshold: 2000,
			SpendDefault:    10,
		},
		Ads: starCtx.AdsConfig{
			DirectLinkURL: "https://ads.example.com/dl",
		},
		Admin: starCtx.AdminConfig{
			Username: "admin",
			Password: "hunter2",
		},
	}
}

func newTestStarAPI(config starCtx.Config) (*StarAPI, *mockDatastore) {
	logger := logrus.New()
	logger.Out = ioutil.Discard

	apiCtx := starCtx.NewStarAPIContext(config)
	datastore := newMockDatastore()
	sa := &StarAPI{
		API:        chttp.NewAPI(apiCtx),
		APIContext: apiCtx,
		DBClient:   datastore,
		log:        logger,
	}
	sa.RegisterRoutes(apiCtx)

	return sa, datastore
}

// doRequest runs a request through the full router and decodes the
// JSON response body
func doRequest(t *testing.T, sa *StarAPI, method, target string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	sa.Router().ServeHTTP(rec, req)

	return decodeBody(t, rec)
}

// decodeBody decodes a JSON object response body; non-object bodies
// decode to an empty map
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) (int, map[string]interface{}) {
	t.Helper()

	decoded := make(map[string]interface{})
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}

	return rec.Code, decoded
}

var _ db.Datastore = (*mockDatastore)(nil)
