package main

import (
	"context"
	"log"

	"github.com/lmwansa/studentportal/internal/server"
	"github.com/lmwansa/studentportal/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		// An absent signing secret lands here: refuse to start rather
		// than serve unsigned sessions.
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
