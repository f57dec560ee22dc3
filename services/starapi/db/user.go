package db

import (
	"time"

	"github.com/go-pg/pg"
)

// User represents a mini-app user in the DB, keyed by the stable
// identifier the Telegram platform supplies. Created lazily on first
// sight; rows are soft-archived, never deleted.
type User struct {
	Timestamps

	ID                   int64     `json:"id"`
	TelegramID           string    `json:"telegram_id" sql:",unique,notnull"`
	FirstName            string    `json:"first_name"`
	VirtualStars         int64     `json:"virtual_stars" sql:",notnull,default:0"`
	SurveysCompleted     int64     `json:"surveys_completed" sql:",notnull,default:0"`
	FriendsReferred      int64     `json:"friends_referred" sql:",notnull,default:0"`
	FirstSurveyCompleted bool      `json:"first_survey_completed" sql:",notnull,default:false"`
	RealStarsRedeemed    int64     `json:"real_stars_redeemed" sql:",notnull,default:0"`
	LastActiveAt         time.Time `json:"last_active_at"`
}

// UserByTelegramID returns the user for a telegram id, nil if unseen
func (c *Client) UserByTelegramID(telegramID string) (*User, error) {
	var user User
	err := c.Model(&user).Where("telegram_id = ?", telegramID).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// ResolveUser returns the user for a telegram id, creating a
// zero-balance user on first sight. Registration is implicit; the only
// error for the caller to correct is an empty id.
func (c *Client) ResolveUser(telegramID string) (*User, error) {
	if telegramID == "" {
		return nil, ErrInvalidIdentity
	}

	user := &User{
		TelegramID:   telegramID,
		FirstName:    "Anonymous",
		LastActiveAt: time.Now(),
	}
	_, err := c.Model(user).
		OnConflict("(telegram_id) DO NOTHING").
		Insert()
	if err != nil {
		return nil, err
	}

	user, err = c.UserByTelegramID(telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	_, err = c.Model(user).
		Set("last_active_at = ?", time.Now()).
		Where("id = ?", user.ID).
		Update()
	if err != nil {
		return nil, err
	}

	return user, nil
}
