package main

import (
	"os"

	"blogd/service"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load()
	os.Exit(service.HandleCommand(os.Args[1:]))
}
