package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"zoo_roulette/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.NewApp(ctx)
	if err != nil {
		log.Fatalf("failed to init app: %s", err.Error())
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("failed to run app: %s", err.Error())
	}
}
