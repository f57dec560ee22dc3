package db

import (
	"time"

	"github.com/go-pg/pg"
)

// SurveySession represents one attempt at the fixed-length survey.
// Sessions become terminal once completed and are never reused; a user
// starting over simply gets a fresh session and the old one is
// abandoned in place.
type SurveySession struct {
	Timestamps

	ID          string     `json:"id" sql:",pk"`
	UserID      int64      `json:"user_id" sql:",notnull"`
	CurrentStep int        `json:"current_step" sql:",notnull,default:1"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Completed reports whether the session has reached its terminal state
func (s *SurveySession) Completed() bool {
	return s.CompletedAt != nil
}

// SurveyAnswer represents a single submitted answer within a session
type SurveyAnswer struct {
	Timestamps

	ID        int64  `json:"id"`
	SessionID string `json:"session_id" sql:",notnull"`
	Step      int    `json:"step" sql:",notnull"`
	Answer    string `json:"answer"`
}

// StartSurveySession creates a fresh session for the user with the
// cursor on the first question
func (c *Client) StartSurveySession(userID int64, sessionID string) (*SurveySession, error) {
	session := &SurveySession{
		ID:          sessionID,
		UserID:      userID,
		CurrentStep: 1,
		StartedAt:   time.Now(),
	}
	err := c.Add(session)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// SurveySessionByID returns a session by its id, nil if unknown
func (c *Client) SurveySessionByID(sessionID string) (*SurveySession, error) {
	var session SurveySession
	err := c.Model(&session).Where("id = ?", sessionID).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// SubmitSurveyAnswer records the answer for the session's current step
// and advances the cursor, completing the session once the cursor moves
// past the question count. The answer row and the cursor move in one
// transaction; the cursor only ever increases.
func (c *Client) SubmitSurveyAnswer(sessionID string, step int, answer string, questionCount int) (*SurveySession, error) {
	session := new(SurveySession)
	err := c.RunInTransaction(func(tx *pg.Tx) error {
		err := tx.Model(session).Where("id = ?", sessionID).For("UPDATE").Select()
		if err == pg.ErrNoRows {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		if session.Completed() {
			return ErrSessionAlreadyComplete
		}
		if step != session.CurrentStep {
			return ErrStepMismatch
		}

		err = tx.Insert(&SurveyAnswer{
			SessionID: sessionID,
			Step:      step,
			Answer:    answer,
		})
		if err != nil {
			return err
		}

		session.CurrentStep++
		if session.CurrentStep > questionCount {
			now := time.Now()
			session.CompletedAt = &now
		}
		_, err = tx.Model(session).
			Set("current_step = ?", session.CurrentStep).
			Set("completed_at = ?", session.CompletedAt).
			Where("id = ?", sessionID).
			Update()
		return err
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// SurveyAnswersBySessionID returns the answers logged for a session in
// step order
func (c *Client) SurveyAnswersBySessionID(sessionID string) ([]SurveyAnswer, error) {
	answers := make([]SurveyAnswer, 0)
	err := c.Model(&answers).Where("session_id = ?", sessionID).Order("step ASC").Select()
	if err != nil {
		return nil, err
	}

	return answers, nil
}
