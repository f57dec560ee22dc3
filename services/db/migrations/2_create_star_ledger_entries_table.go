package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating star_ledger_entries table...")
		_, err := db.Exec(`CREATE TABLE star_ledger_entries(
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			amount BIGINT NOT NULL,
			reason TEXT NOT NULL,
			idempotency_key TEXT UNIQUE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		)`)
		if err != nil {
			return err
		}

		fmt.Println("indexing user_id column on star_ledger_entries table...")
		_, err = db.Exec(`CREATE INDEX idx_user_id_on_star_ledger_entries ON star_ledger_entries(user_id)`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping star_ledger_entries table...")
		_, err := db.Exec(`DROP TABLE star_ledger_entries`)
		return err
	})
}
