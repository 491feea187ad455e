package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/videotube/internal/admin"
	"github.com/dmitrijs2005/videotube/internal/logging"
)

func main() {

	ctx := context.Background()
	logger := logging.NewJSONLogger(os.Stderr, "warn")
	app := admin.NewApp(os.Stdin, os.Stdout, logger)

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}

}
