// Command seed-db inserts the fixed user set into a store without starting
// the API server. Like the server's startup seeding it always appends, so
// every run adds another five rows.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/user-roster/internal/domain/user"
	"github.com/xenking/user-roster/internal/storage"
)

func main() {
	var databaseURL string
	flag.StringVar(&databaseURL, "database-url", "", "storage URL (or ROSTER_DATABASE_URL / DATABASE_URL env)")
	flag.Parse()

	lg, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	if databaseURL == "" {
		databaseURL = os.Getenv("ROSTER_DATABASE_URL")
	}
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		lg.Fatal("Database URL is required: set --database-url, ROSTER_DATABASE_URL or DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(zctx.Base(ctx, lg), databaseURL); err != nil {
		lg.Error("Seed failed", zap.Error(err))
		cancel()
		_ = lg.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL string) error {
	lg := zctx.From(ctx)

	store, err := storage.Open(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer store.Close()

	lg.Info("Seeding users", zap.String("backend", store.Backend()))

	created, err := user.Seed(ctx, store.Users)
	if err != nil {
		return errors.Wrap(err, "seed users")
	}

	for _, u := range created {
		lg.Info("Created user", zap.Int64("id", u.ID), zap.String("name", u.Name), zap.Int("salary", u.Salary))
	}
	return nil
}
