package user

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// SeedUsers returns the fixed records inserted on every startup, in
// insertion order.
func SeedUsers() []User {
	return []User{
		New("Jack", WithSalary(1000)),
		New("Chloe", WithSalary(2000)),
		New("Kim", WithSalary(3000)),
		New("David", WithSalary(4000)),
		New("Michelle", WithSalary(5000)),
	}
}

// Seed creates every record from SeedUsers through repo and returns them with
// their assigned IDs. It does not check for existing rows, so running it
// against a persistent store appends another copy of the set each time.
// The first error aborts seeding; rows created before it are kept.
func Seed(ctx context.Context, repo Repository) ([]User, error) {
	lg := zctx.From(ctx)

	seeds := SeedUsers()
	created := make([]User, 0, len(seeds))
	for _, u := range seeds {
		saved, err := repo.Create(ctx, u)
		if err != nil {
			return created, errors.Wrapf(err, "seed user %q", u.Name)
		}
		lg.Debug("Seeded user",
			zap.Int64("id", saved.ID),
			zap.String("name", saved.Name),
			zap.Int("salary", saved.Salary),
		)
		created = append(created, saved)
	}

	lg.Info("Seeding complete", zap.Int("count", len(created)))
	return created, nil
}
