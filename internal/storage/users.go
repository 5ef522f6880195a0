package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"expense-journal/internal/models"
)

// CreateUser inserts a user and seeds the default categories and tags in one transaction.
// It returns ErrEmailTaken when the email is already registered.
func (db *DB) CreateUser(ctx context.Context, email, name, passwordHash string) (*models.User, error) {
	u := models.User{Email: email, Name: name, PasswordHash: passwordHash, CreatedAt: now()}

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			db.q("INSERT INTO users (email, password_hash, name, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
			u.Email, u.PasswordHash, u.Name, u.CreatedAt,
		)
		if err := row.Scan(&u.ID); err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}

		for _, name := range models.DefaultCategories {
			if _, err := db.insertLabel(ctx, tx, "categories", u.ID, name); err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}
		}
		for _, name := range models.DefaultTags {
			if _, err := db.insertLabel(ctx, tx, "tags", u.ID, name); err != nil {
				return fmt.Errorf("seed tag %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		db.q("SELECT id, email, name, password_hash, created_at FROM users WHERE id = ?"),
		id,
	)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email. Matching is case-sensitive.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		db.q("SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?"),
		email,
	)
	return scanUser(row)
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
