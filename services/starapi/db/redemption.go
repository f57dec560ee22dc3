package db

import (
	"github.com/go-pg/pg"
)

// Redemption represents a request to convert virtual stars into a real
// payout, debited up front and fulfilled out of band.
type Redemption struct {
	Timestamps

	ID           int64            `json:"id"`
	UserID       int64            `json:"user_id" sql:",notnull"`
	Amount       int64            `json:"amount" sql:",notnull"`
	PaymentName  string           `json:"payment_name"`
	PaymentEmail string           `json:"payment_email"`
	Nonce        string           `json:"nonce" sql:",unique,notnull"`
	Status       RedemptionStatus `json:"status" sql:",notnull"`
}

// RedemptionStatus represents the fulfillment state of a redemption
type RedemptionStatus string

const (
	RedemptionStatusPending   RedemptionStatus = "pending"
	RedemptionStatusFulfilled RedemptionStatus = "fulfilled"
	RedemptionStatusRejected  RedemptionStatus = "rejected"
)

// CreateRedemption debits the redemption amount and records the pending
// payout request as one atomic unit, keyed by the request nonce. A
// retried nonce returns the previously created request without touching
// the ledger again.
func (c *Client) CreateRedemption(userID int64, amount int64, paymentName, paymentEmail, nonce string) (*Redemption, bool, error) {
	if amount <= 0 {
		return nil, false, ErrInvalidAmount
	}
	if nonce == "" {
		return nil, false, ErrMissingIdempotencyKey
	}

	redemption := new(Redemption)
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

		entry := &StarLedgerEntry{
			UserID:         userID,
			Amount:         -amount,
			Reason:         StarLedgerReasonRedemption,
			IdempotencyKey: "redeem:" + nonce,
		}
		res, err := tx.Model(entry).
			OnConflict("(idempotency_key) DO NOTHING").
			Insert()
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			// retried request: hand back the redemption created the first
			// time, but only to the account that created it
			err := tx.Model(redemption).
				Where("nonce = ?", nonce).
				Where("user_id = ?", userID).
				Select()
			if err == pg.ErrNoRows {
				return ErrNonceInUse
			}
			return err
		}

		if user.VirtualStars < amount {
			return ErrInsufficientStars
		}

		_, err = tx.Model(user).
			Set("virtual_stars = virtual_stars - ?", amount).
			Set("real_stars_redeemed = real_stars_redeemed + ?", amount).
			Where("id = ?", userID).
			Update()
		if err != nil {
			return err
		}

		applied = true
		redemption.UserID = userID
		redemption.Amount = amount
		redemption.PaymentName = paymentName
		redemption.PaymentEmail = paymentEmail
		redemption.Nonce = nonce
		redemption.Status = RedemptionStatusPending
		return tx.Insert(redemption)
	})
	if err != nil {
		return nil, false, err
	}

	return redemption, applied, nil
}

// PendingRedemptions returns all redemptions awaiting fulfillment,
// oldest first
func (c *Client) PendingRedemptions() ([]Redemption, error) {
	redemptions := make([]Redemption, 0)
	err := c.Model(&redemptions).
		Where("status = ?", RedemptionStatusPending).
		Order("created_at ASC").
		Select()
	if err != nil {
		return nil, err
	}

	return redemptions, nil
}
