package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/user-roster/internal/domain/user"
)

const (
	createUserSQL = `INSERT INTO users (name, salary) VALUES ($1, $2) RETURNING id`

	listUsersSQL = `SELECT id, name, salary FROM users ORDER BY id`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts u and returns it with the identity value assigned by
// PostgreSQL.
func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, createUserSQL, u.Name, u.Salary).Scan(&id); err != nil {
		return user.User{}, user.NewStorageError("create user", err)
	}
	u.ID = id
	return u, nil
}

// FindAll returns all users ordered by ID.
func (r *UserRepository) FindAll(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, listUsersSQL)
	if err != nil {
		return nil, user.NewStorageError("find users", err)
	}

	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, user.NewStorageError("find users", err)
	}
	return users, nil
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Salary)
	return u, err
}
