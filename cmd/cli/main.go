// Command cli administers accounts directly against the database:
//
//	cli -b sqlite -d file:profiles.db createsuperuser -email root@example.com -name Root
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/profiles/internal/flagx"
	"github.com/dmitrijs2005/profiles/internal/logging"
	"github.com/dmitrijs2005/profiles/internal/server"
	"github.com/dmitrijs2005/profiles/internal/server/config"
	"github.com/dmitrijs2005/profiles/internal/server/manage"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		log.Printf("config error: %v", err)
		return 2
	}

	logger := logging.NewJSON(os.Stderr, cfg.LogLevel)

	db, accounts, err := server.OpenAccountService(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	defer db.Close()

	cmd := manage.New(accounts, os.Stdin, os.Stdout)
	if err := cmd.Run(ctx, flagx.StripArgs(args, config.FlagNames)); err != nil {
		log.Printf("%v", err)
		return 1
	}
	return 0
}
