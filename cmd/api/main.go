package main

import (
	"log/slog"
	"os"

	"github.com/metinatakli/seating-session/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		slog.Error("seating session server exited", "error", err)
		os.Exit(1)
	}
}
