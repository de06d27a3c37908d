package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"dtiestoque.org/internal/migrate"
	"dtiestoque.org/internal/obs"
	"dtiestoque.org/internal/store/pg"
)

func main() {
	logger := obs.Logger()
	defer func() { _ = logger.Sync() }()

	var (
		dsn     = flag.String("dsn", os.Getenv("ESTOQUE_PG_DSN"), "PostgreSQL DSN")
		timeout = flag.Duration("timeout", 30*time.Second, "Overall timeout")
	)
	flag.Parse()

	if *dsn == "" {
		logger.Fatal("missing DSN: provide via -dsn or ESTOQUE_PG_DSN")
	}
	if len(flag.Args()) == 0 {
		fmt.Fprintln(os.Stderr, "usage: migrate [up|down|seed|status]")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := pg.Open(*dsn, 2)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer store.Close()

	mgr := migrate.NewManager(store.DB(), migrate.WithLogger(logger))

	cmd := flag.Arg(0)
	switch cmd {
	case "up":
		err = mgr.Up(ctx)
	case "down":
		err = mgr.Down(ctx)
	case "seed":
		err = mgr.Seed(ctx)
	case "status":
		var states []migrate.MigrationState
		states, err = mgr.Status(ctx)
		if err == nil {
			for _, st := range states {
				fmt.Println(st)
			}
		}
	default:
		logger.Fatal("unknown command", zap.String("command", cmd))
	}
	if err != nil {
		logger.Fatal("migrate failed", zap.String("command", cmd), zap.Error(err))
	}
}
