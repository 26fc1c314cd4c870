package main

import (
	"tmdb-scraper/cmd/tmdb-scraper/commands"
	"tmdb-scraper/pkg/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	commands.Execute(ctx)
}
