// Command clubhub serves the ClubHub members and events API.
package main

import (
	"context"
	"log"

	"github.com/dalemusser/clubhub/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
