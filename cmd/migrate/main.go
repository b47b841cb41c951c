package main

import (
	"flag"
	"fmt"
	"os"

	"InfiniteDbAccounts/internal/config"
	"InfiniteDbAccounts/internal/store/postgres"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.DBDSN == "" {
		fmt.Fprintln(os.Stderr, "APP_DB_DSN: required")
		os.Exit(1)
	}

	if err := postgres.Migrate(cfg.DBDSN, *direction); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("migrations %s: ok\n", *direction)
}
