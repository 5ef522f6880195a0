package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"expense-journal/internal/models"
	"expense-journal/internal/money"
)

const transactionColumns = "id, user_id, amount_cents, description, category, created_at, updated_at"

// CreateTransaction inserts a new transaction owned by userID.
func (db *DB) CreateTransaction(ctx context.Context, userID int64, nt models.NewTransaction) (*models.Transaction, error) {
	t := &models.Transaction{
		UserID:      userID,
		Amount:      nt.Amount,
		Description: nt.Description,
		Category:    nt.Category,
		Tags:        normalizeTags(nt.Tags),
		CreatedAt:   now(),
	}

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			db.q("INSERT INTO transactions (user_id, amount_cents, description, category, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id"),
			t.UserID, t.Amount.Cents(), t.Description, t.Category, t.CreatedAt,
		)
		if err := row.Scan(&t.ID); err != nil {
			return err
		}
		return db.writeTags(ctx, tx, t.ID, t.Tags)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTransaction retrieves a transaction by ID. It returns ErrNotFound if the
// transaction does not exist or belongs to another user.
func (db *DB) GetTransaction(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	return db.getTransaction(ctx, db.conn, id, userID)
}

// ListTransactions returns one page of the user's transactions, newest first.
// Pages are 1-based.
func (db *DB) ListTransactions(ctx context.Context, userID int64, page, pageSize int) ([]models.Transaction, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	rows, err := db.conn.QueryContext(ctx,
		db.q("SELECT "+transactionColumns+" FROM transactions WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"),
		userID, pageSize, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.attachTags(ctx, db.conn, txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// UpdateTransaction applies a partial update. Fields left nil in the patch keep
// their stored values; tags are replaced only when the patch carries them.
func (db *DB) UpdateTransaction(ctx context.Context, id, userID int64, p models.TransactionPatch) (*models.Transaction, error) {
	var updated *models.Transaction
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		t, err := db.getTransaction(ctx, tx, id, userID)
		if err != nil {
			return err
		}

		if p.Amount != nil {
			t.Amount = *p.Amount
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		if p.Category != nil {
			t.Category = *p.Category
		}
		ts := now()
		t.UpdatedAt = &ts

		if _, err := tx.ExecContext(ctx,
			db.q("UPDATE transactions SET amount_cents = ?, description = ?, category = ?, updated_at = ? WHERE id = ? AND user_id = ?"),
			t.Amount.Cents(), t.Description, t.Category, ts, t.ID, userID,
		); err != nil {
			return err
		}

		if p.Tags != nil {
			t.Tags = normalizeTags(*p.Tags)
			if _, err := tx.ExecContext(ctx, db.q("DELETE FROM transaction_tags WHERE transaction_id = ?"), t.ID); err != nil {
				return err
			}
			if err := db.writeTags(ctx, tx, t.ID, t.Tags); err != nil {
				return err
			}
		}

		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction permanently removes a transaction and returns it as it was
// before deletion.
func (db *DB) DeleteTransaction(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	var deleted *models.Transaction
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		t, err := db.getTransaction(ctx, tx, id, userID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, db.q("DELETE FROM transaction_tags WHERE transaction_id = ?"), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, db.q("DELETE FROM transactions WHERE id = ? AND user_id = ?"), id, userID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		deleted = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (db *DB) getTransaction(ctx context.Context, q querier, id, userID int64) (*models.Transaction, error) {
	row := q.QueryRowContext(ctx,
		db.q("SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND user_id = ?"),
		id, userID,
	)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	txs := []models.Transaction{*t}
	if err := db.attachTags(ctx, q, txs); err != nil {
		return nil, err
	}
	return &txs[0], nil
}

func (db *DB) writeTags(ctx context.Context, q querier, txID int64, tags []string) error {
	for i, tag := range tags {
		if _, err := q.ExecContext(ctx,
			db.q("INSERT INTO transaction_tags (transaction_id, tag, position) VALUES (?, ?, ?)"),
			txID, tag, i,
		); err != nil {
			return err
		}
	}
	return nil
}

// attachTags loads the tags of every transaction in txs with a single query.
func (db *DB) attachTags(ctx context.Context, q querier, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	index := make(map[int64]int, len(txs))
	args := make([]any, len(txs))
	for i := range txs {
		txs[i].Tags = []string{}
		index[txs[i].ID] = i
		args[i] = txs[i].ID
	}

	rows, err := q.QueryContext(ctx,
		db.q("SELECT transaction_id, tag FROM transaction_tags WHERE transaction_id IN ("+placeholders(len(args))+") ORDER BY transaction_id, position"),
		args...,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var txID int64
		var tag string
		if err := rows.Scan(&txID, &tag); err != nil {
			return err
		}
		if i, ok := index[txID]; ok {
			txs[i].Tags = append(txs[i].Tags, tag)
		}
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*models.Transaction, error) {
	var (
		t       models.Transaction
		cents   int64
		updated sql.NullTime
	)
	if err := s.Scan(&t.ID, &t.UserID, &cents, &t.Description, &t.Category, &t.CreatedAt, &updated); err != nil {
		return nil, err
	}
	t.Amount = money.FromCents(cents)
	if updated.Valid {
		ts := updated.Time
		t.UpdatedAt = &ts
	}
	t.Tags = []string{}
	return &t, nil
}

// normalizeTags trims tags, drops blanks and removes duplicates while keeping
// the order of first appearance.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
