package main

import (
	"github.com/joho/godotenv"

	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/cmd"
)

func main() {
	// local development keeps secrets in a .env file; absence is fine
	_ = godotenv.Load()

	cmd.Execute()
}
