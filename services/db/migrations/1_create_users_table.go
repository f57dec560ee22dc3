package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating users table...")
		_, err := db.Exec(`CREATE TABLE users(
			id BIGSERIAL PRIMARY KEY,
			telegram_id TEXT UNIQUE NOT NULL,
			first_name TEXT DEFAULT 'Anonymous',
			virtual_stars BIGINT NOT NULL DEFAULT 0 CHECK (virtual_stars >= 0),
			surveys_completed BIGINT NOT NULL DEFAULT 0,
			friends_referred BIGINT NOT NULL DEFAULT 0,
			first_survey_completed BOOLEAN NOT NULL DEFAULT FALSE,
			real_stars_redeemed BIGINT NOT NULL DEFAULT 0,
			last_active_at TIMESTAMP DEFAULT NOW(),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		)`)
		if err != nil {
			return err
		}

		fmt.Println("indexing telegram_id column on users table...")
		_, err = db.Exec(`CREATE INDEX idx_telegram_id_on_users ON users(telegram_id)`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping users table...")
		_, err := db.Exec(`DROP TABLE users`)
		return err
	})
}
