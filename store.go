package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
)

const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

// Store persists users and tasks over database/sql. It speaks two dialects:
// MySQL for deployments and SQLite for local runs and the test suite.
type Store struct {
	db      *sql.DB
	dialect string
}

// schemaStatements holds the bootstrap DDL per dialect. The MySQL driver
// does not run multi-statement scripts, so each statement executes on its
// own.
var schemaStatements = map[string][]string{
	DialectMySQL: {
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(150) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			first_name VARCHAR(150) NOT NULL,
			last_name TEXT NOT NULL,
			email VARCHAR(254) NOT NULL DEFAULT '',
			is_administrator BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'New',
			user_id BIGINT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
	},
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			is_administrator INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'New',
			user_id INTEGER NOT NULL REFERENCES users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks (user_id)`,
	},
}

// OpenStore opens the database, verifies the connection and applies the
// schema for the chosen dialect.
func OpenStore(ctx context.Context, dialect, dsn string) (*Store, error) {
	stmts, ok := schemaStatements[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}

	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dialect == DialectSQLite {
		// A single connection keeps in-memory databases alive across
		// queries and makes per-connection pragmas stick.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &Store{db: db, dialect: dialect}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertTask stores a new task and returns its id
func (s *Store) InsertTask(ctx context.Context, t Task) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (title, description, status, user_id) VALUES (?, ?, ?, ?)",
		t.Title, t.Description, t.Status, t.UserID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) FindTaskByID(ctx context.Context, id int64) (Task, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, description, status, user_id FROM tasks WHERE id = ?", id)

	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

// FindTasks returns the tasks matching the filter, ordered by title with id
// as tiebreak
func (s *Store) FindTasks(ctx context.Context, f TaskFilter) ([]Task, error) {
	q := "SELECT id, title, description, status, user_id FROM tasks"
	var conds []string
	var args []any
	if f.OwnerID != nil {
		conds = append(conds, "user_id = ?")
		args = append(args, *f.OwnerID)
	}
	if f.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, *f.Status)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY title, id"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTaskByID applies the supplied fields in a single UPDATE and then
// re-reads the row. MySQL reports affected rows as changed rows, so a
// no-change update is indistinguishable from a missing row; the re-read
// settles it and returns the stored state.
func (s *Store) UpdateTaskByID(ctx context.Context, id int64, p TaskPatch) (Task, error) {
	var sets []string
	var args []any
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
	}
	if len(sets) == 0 {
		return s.FindTaskByID(ctx, id)
	}
	args = append(args, id)

	q := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return Task{}, err
	}
	return s.FindTaskByID(ctx, id)
}

func (s *Store) DeleteTaskByID(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertUser stores a new account and returns its id. A username collision
// surfaces as ErrUsernameTaken on both dialects.
func (s *Store) InsertUser(ctx context.Context, u User) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, first_name, last_name, email, is_administrator) VALUES (?, ?, ?, ?, ?, ?)",
		u.UserName, u.PasswordHash, u.FirstName, u.LastName, u.Email, u.IsAdmin)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) FindUserByID(ctx context.Context, id int64) (User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, first_name, last_name, email, is_administrator FROM users WHERE id = ?", id)
	return scanUser(row)
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, first_name, last_name, email, is_administrator FROM users WHERE username = ?", username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.UserName, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Store) FindUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, password_hash, first_name, last_name, email, is_administrator FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.UserName, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetUserAdmin flips the administrator flag and returns the stored user
func (s *Store) SetUserAdmin(ctx context.Context, id int64, admin bool) (User, error) {
	if _, err := s.db.ExecContext(ctx,
		"UPDATE users SET is_administrator = ? WHERE id = ?", admin, id); err != nil {
		return User{}, err
	}
	return s.FindUserByID(ctx, id)
}

// DeleteUserByID removes the user and all of their tasks in one
// transaction, so the cascade holds on both dialects regardless of foreign
// key enforcement.
func (s *Store) DeleteUserByID(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE user_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// isUniqueViolation recognizes a unique constraint error from either
// driver: MySQL error 1062, SQLite extended codes 1555 and 2067.
func isUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == 1555 || code == 2067
	}
	return false
}
