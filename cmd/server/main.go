package main

import (
	"os"

	"pocketchat/internal/app"
)

// @title        PocketChat API
// @version      1.0
// @description  Chat history and session API for a single-user AI assistant.
// @host         localhost:8000
// @BasePath     /api
func main() {
	os.Exit(app.Run())
}
