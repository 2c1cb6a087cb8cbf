package main

import (
	"github.com/joho/godotenv"

	"github.com/yomanFX/vikula2/internal/cli"
)

func main() {
	// Optional .env in the working directory; missing is fine.
	godotenv.Load()
	cli.Execute()
}
