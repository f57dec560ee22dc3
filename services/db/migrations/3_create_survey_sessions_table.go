package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating survey_sessions table...")
		_, err := db.Exec(`CREATE TABLE survey_sessions(
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			current_step INT NOT NULL DEFAULT 1,
			started_at TIMESTAMP DEFAULT NOW(),
			completed_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		)`)
		if err != nil {
			return err
		}

		fmt.Println("creating survey_answers table...")
		_, err = db.Exec(`CREATE TABLE survey_answers(
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES survey_sessions(id),
			step INT NOT NULL,
			answer TEXT,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP,
			UNIQUE (session_id, step)
		)`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping survey_answers table...")
		_, err := db.Exec(`DROP TABLE survey_answers`)
		if err != nil {
			return err
		}

		fmt.Println("dropping survey_sessions table...")
		_, err = db.Exec(`DROP TABLE survey_sessions`)
		return err
	})
}
