package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating redemptions table...")
		_, err := db.Exec(`CREATE TABLE redemptions(
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			amount BIGINT NOT NULL,
			payment_name TEXT NOT NULL,
			payment_email TEXT NOT NULL,
			nonce TEXT UNIQUE NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		)`)
		if err != nil {
			return err
		}

		fmt.Println("indexing status column on redemptions table...")
		_, err = db.Exec(`CREATE INDEX idx_status_on_redemptions ON redemptions(status)`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping redemptions table...")
		_, err := db.Exec(`DROP TABLE redemptions`)
		return err
	})
}
