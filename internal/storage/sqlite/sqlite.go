// Package sqlite implements user storage on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/xenking/user-roster/db"
	"github.com/xenking/user-roster/internal/domain/user"
)

// MemoryPath opens a private in-memory database that lives as long as the
// returned *sql.DB.
const MemoryPath = ":memory:"

// Open opens the database at path and verifies it is usable.
//
// The pool holds exactly one connection that is never expired, since an
// in-memory database is private to the connection that created it. If
// database/sql discards that connection after driver.ErrBadConn, the
// replacement starts from an empty database and the seeded rows are gone;
// use a file path when the data must outlive such a reconnect.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}
	return conn, nil
}

// RunMigrations executes the embedded DDL schema.
func RunMigrations(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, db.SQLiteSchema); err != nil {
		return errors.Wrap(err, "running migrations")
	}
	return nil
}

const (
	createUserSQL = `INSERT INTO users (name, salary) VALUES (?, ?)`

	listUsersSQL = `SELECT id, name, salary FROM users ORDER BY id`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns a UserRepository that uses conn.
func NewUserRepository(conn *sql.DB) *UserRepository {
	return &UserRepository{db: conn}
}

// Create inserts u and returns it with the rowid assigned by SQLite.
func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	res, err := r.db.ExecContext(ctx, createUserSQL, u.Name, u.Salary)
	if err != nil {
		return user.User{}, user.NewStorageError("create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return user.User{}, user.NewStorageError("create user", err)
	}
	u.ID = id
	return u, nil
}

// FindAll returns all users ordered by ID.
func (r *UserRepository) FindAll(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.QueryContext(ctx, listUsersSQL)
	if err != nil {
		return nil, user.NewStorageError("find users", err)
	}
	defer func() { _ = rows.Close() }()

	users := []user.User{}
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Salary); err != nil {
			return nil, user.NewStorageError("find users", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, user.NewStorageError("find users", err)
	}
	return users, nil
}
