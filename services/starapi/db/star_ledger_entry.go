package db

import (
	"github.com/go-pg/pg"
)

// StarLedgerEntry represents an entry in the append-only star ledger.
// Entries are never mutated or deleted; the cached balance on the user
// row is updated in the same transaction that appends the entry.
type StarLedgerEntry struct {
	Timestamps

	ID             int64            `json:"id"`
	UserID         int64            `json:"user_id" sql:",notnull"`
	Amount         int64            `json:"amount" sql:",notnull"`
	Reason         StarLedgerReason `json:"reason" sql:",notnull"`
	IdempotencyKey string           `json:"idempotency_key" sql:",null,unique"`
}

// StarLedgerReason represents the reason for a ledger entry
type StarLedgerReason string

const (
	StarLedgerReasonSurveyComplete StarLedgerReason = "survey_complete"
	StarLedgerReasonFirstBonus     StarLedgerReason = "first_bonus"
	StarLedgerReasonChannelBonus   StarLedgerReason = "channel_bonus"
	StarLedgerReasonAdWatch        StarLedgerReason = "ad_watch"
	StarLedgerReasonSpend          StarLedgerReason = "spend"
	StarLedgerReasonRedemption     StarLedgerReason = "redemption"
)

// Valid reports whether the reason is a known ledger reason
func (r StarLedgerReason) Valid() bool {
	switch r {
	case StarLedgerReasonSurveyComplete,
		StarLedgerReasonFirstBonus,
		StarLedgerReasonChannelBonus,
		StarLedgerReasonAdWatch,
		StarLedgerReasonSpend,
		StarLedgerReasonRedemption:
		return true
	}
	return false
}

// CreditStars appends a positive ledger entry for the user and returns
// the new balance. A replayed idempotency key leaves the ledger
// untouched and returns the current balance with applied = false.
func (c *Client) CreditStars(userID int64, amount int64, reason StarLedgerReason, idempotencyKey string) (int64, bool, error) {
	if amount <= 0 {
		return 0, false, ErrInvalidAmount
	}
	return c.applyStarEntry(userID, amount, reason, idempotencyKey, nil)
}

// DebitStars appends a negative ledger entry for the user and returns
// the new balance. Plain spends carry no idempotency key, each call is
// a genuine debit; redemption debits must be keyed so that client
// retries cannot debit twice.
func (c *Client) DebitStars(userID int64, amount int64, reason StarLedgerReason, idempotencyKey string) (int64, bool, error) {
	if amount <= 0 {
		return 0, false, ErrInvalidAmount
	}
	if reason == StarLedgerReasonRedemption && idempotencyKey == "" {
		return 0, false, ErrMissingIdempotencyKey
	}
	return c.applyStarEntry(userID, -amount, reason, idempotencyKey, nil)
}

// GrantSurveyReward credits the survey completion reward, keyed by the
// session id so a completed session pays out at most once. The first
// applied grant also marks the user's first survey completed, and every
// applied grant bumps the completion counter.
func (c *Client) GrantSurveyReward(userID int64, amount int64, sessionID string) (int64, bool, error) {
	if amount <= 0 {
		return 0, false, ErrInvalidAmount
	}
	return c.applyStarEntry(userID, amount, StarLedgerReasonSurveyComplete, sessionID, func(tx *pg.Tx, user *User, balance int64) error {
		_, err := tx.Model(user).
			Set("virtual_stars = ?", balance).
			Set("surveys_completed = surveys_completed + 1").
			Set("first_survey_completed = TRUE").
			Where("id = ?", userID).
			Update()
		return err
	})
}

// applyStarEntry is the single atomic append-entry-and-update-balance
// step behind every balance mutation. The user row lock serializes
// concurrent mutations for the same user. An optional updateUser
// override replaces the default balance write when counters must move
// in the same transaction.
func (c *Client) applyStarEntry(
	userID int64,
	delta int64,
	reason StarLedgerReason,
	idempotencyKey string,
	updateUser func(tx *pg.Tx, user *User, balance int64) error,
) (int64, bool, error) {
	if !reason.Valid() {
		return 0, false, ErrInvalidAmount
	}

	var balance int64
	applied := false
	err := c.RunInTransaction(func(tx *pg.Tx) error {
		user := new(User)
		err := tx.Model(user).Where("id = ?", userID).For("UPDATE").Select()
		if err == pg.ErrNoRows {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		if delta < 0 && user.VirtualStars+delta < 0 {
			return ErrInsufficientStars
		}

		entry := &StarLedgerEntry{
			UserID:         userID,
			Amount:         delta,
			Reason:         reason,
			IdempotencyKey: idempotencyKey,
		}
		res, err := tx.Model(entry).
			OnConflict("(idempotency_key) DO NOTHING").
			Insert()
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			// replayed grant: no new entry, balance unchanged
			balance = user.VirtualStars
			return nil
		}

		applied = true
		balance = user.VirtualStars + delta
		if updateUser != nil {
			return updateUser(tx, user, balance)
		}
		_, err = tx.Model(user).
			Set("virtual_stars = ?", balance).
			Where("id = ?", userID).
			Update()
		return err
	})
	if err != nil {
		return 0, false, err
	}

	return balance, applied, nil
}

// StarBalance returns the cached balance for a user
func (c *Client) StarBalance(userID int64) (int64, error) {
	user := new(User)
	err := c.Model(user).Column("virtual_stars").Where("id = ?", userID).Select()
	if err == pg.ErrNoRows {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}

	return user.VirtualStars, nil
}

// StarBalanceFromEntries recomputes the balance as a reducer over the
// ledger. It must always agree with the cached balance on the user row.
func (c *Client) StarBalanceFromEntries(userID int64) (int64, error) {
	var sum int64
	err := c.Model((*StarLedgerEntry)(nil)).
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Select(&sum)
	if err != nil {
		return 0, err
	}

	return sum, nil
}

// StarLedgerEntriesByUser returns all ledger entries for a user,
// oldest first
func (c *Client) StarLedgerEntriesByUser(userID int64) ([]StarLedgerEntry, error) {
	entries := make([]StarLedgerEntry, 0)
	err := c.Model(&entries).Where("user_id = ?", userID).Order("id ASC").Select()
	if err != nil {
		return nil, err
	}

	return entries, nil
}
