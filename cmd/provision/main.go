// Command provision creates a company account. It reads the database DSN
// the same way the server does (-c file, JOBBOARD_* env, -d flag).
//
//	provision -d postgres://... -name "Acme" -email hr@acme.io
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/jobboard/internal/provision"
	"github.com/dmitrijs2005/jobboard/internal/server"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobboard/internal/server/services"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	opts, err := provision.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("flags: %v", err)
	}

	db, err := server.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	accounts := services.NewAccountService(db, rm, cfg)
	if _, err := provision.Run(ctx, accounts, opts, int(os.Stdin.Fd()), os.Stdin, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}
