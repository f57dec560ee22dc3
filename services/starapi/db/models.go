package db

import (
	"context"
	"time"

	"github.com/go-pg/pg/orm"
)

// Datastore defines all operations on the DB.
// This interface can be mocked out for tests, etc.
type Datastore interface {
	Mutations
	Queries
}

// Mutations write to the database. Every balance-affecting mutation is
// a single transaction that serializes on the user row.
type Mutations interface {
	ResolveUser(telegramID string) (*User, error)
	CreditStars(userID int64, amount int64, reason StarLedgerReason, idempotencyKey string) (int64, bool, error)
	DebitStars(userID int64, amount int64, reason StarLedgerReason, idempotencyKey string) (int64, bool, error)
	GrantSurveyReward(userID int64, amount int64, sessionID string) (int64, bool, error)
	StartSurveySession(userID int64, sessionID string) (*SurveySession, error)
	SubmitSurveyAnswer(sessionID string, step int, answer string, questionCount int) (*SurveySession, error)
	CreateRedemption(userID int64, amount int64, paymentName, paymentEmail, nonce string) (*Redemption, bool, error)
}

// Queries read from the database
type Queries interface {
	UserByTelegramID(telegramID string) (*User, error)
	SurveySessionByID(sessionID string) (*SurveySession, error)
	StarBalance(userID int64) (int64, error)
	StarLedgerEntriesByUser(userID int64) ([]StarLedgerEntry, error)
	PendingRedemptions() ([]Redemption, error)
}

// Timestamps carries the default timestamp fields for any derived model
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// BeforeInsert is the hook that fills in the created_at and updated_at fields
func (m *Timestamps) BeforeInsert(ctx context.Context, db orm.DB) error {
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
	return nil
}

// BeforeUpdate is the hook that updates the updated_at field
func (m *Timestamps) BeforeUpdate(ctx context.Context, db orm.DB) error {
	m.UpdatedAt = time.Now()
	return nil
}
