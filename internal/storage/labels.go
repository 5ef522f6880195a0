package storage

import (
	"context"
	"errors"
	"strings"

	"expense-journal/internal/models"
)

// ErrEmptyName is returned when a category or tag name is blank.
var ErrEmptyName = errors.New("name is required")

// ListCategories returns the user's categories in creation order.
func (db *DB) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	return db.listLabels(ctx, "categories", userID)
}

// CreateCategory adds a category for the user. Duplicate names return ErrDuplicate.
func (db *DB) CreateCategory(ctx context.Context, userID int64, name string) (*models.Category, error) {
	return db.createLabel(ctx, "categories", userID, name)
}

// ListTags returns the user's tags in creation order.
func (db *DB) ListTags(ctx context.Context, userID int64) ([]models.Tag, error) {
	labels, err := db.listLabels(ctx, "tags", userID)
	if err != nil {
		return nil, err
	}
	tags := make([]models.Tag, len(labels))
	for i, l := range labels {
		tags[i] = models.Tag(l)
	}
	return tags, nil
}

// CreateTag adds a tag for the user. Duplicate names return ErrDuplicate.
func (db *DB) CreateTag(ctx context.Context, userID int64, name string) (*models.Tag, error) {
	c, err := db.createLabel(ctx, "tags", userID, name)
	if err != nil {
		return nil, err
	}
	t := models.Tag(*c)
	return &t, nil
}

// table is always one of the two constant names above, never user input.
func (db *DB) listLabels(ctx context.Context, table string, userID int64) ([]models.Category, error) {
	rows, err := db.conn.QueryContext(ctx,
		db.q("SELECT id, user_id, name, created_at FROM "+table+" WHERE user_id = ? ORDER BY id"),
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		labels = append(labels, c)
	}
	return labels, rows.Err()
}

func (db *DB) createLabel(ctx context.Context, table string, userID int64, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	c, err := db.insertLabel(ctx, db.conn, table, userID, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return c, nil
}

func (db *DB) insertLabel(ctx context.Context, q querier, table string, userID int64, name string) (*models.Category, error) {
	c := models.Category{UserID: userID, Name: name, CreatedAt: now()}
	row := q.QueryRowContext(ctx,
		db.q("INSERT INTO "+table+" (user_id, name, created_at) VALUES (?, ?, ?) RETURNING id"),
		c.UserID, c.Name, c.CreatedAt,
	)
	if err := row.Scan(&c.ID); err != nil {
		return nil, err
	}
	return &c, nil
}
