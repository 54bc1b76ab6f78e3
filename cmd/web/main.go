package main

import (
	"context"
	"log/slog"
	"os"

	"salesboard/internal/app"
	"salesboard/web"
)

func main() {
	application, err := app.NewApplication(web.Static)
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
