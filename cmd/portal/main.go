package main

import (
	"context"
	"log"

	"github.com/moncraft/portal/internal/client/cli"
	"github.com/moncraft/portal/internal/client/config"
	"github.com/moncraft/portal/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.NewDefault()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
