package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/cli"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
