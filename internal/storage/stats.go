package storage

import (
	"context"
	"database/sql"
	"errors"

	"expense-journal/internal/models"
	"expense-journal/internal/money"

	"github.com/shopspring/decimal"
)

// recentTransactionsLimit is how many transactions the dashboard shows.
const recentTransactionsLimit = 5

// CategoryStats sums the user's transactions per category, largest total first.
func (db *DB) CategoryStats(ctx context.Context, userID int64) ([]models.CategoryStat, error) {
	rows, err := db.conn.QueryContext(ctx, db.q(`
		SELECT category, CAST(SUM(amount_cents) AS BIGINT) AS total_amount, COUNT(*) AS transaction_count
		FROM transactions
		WHERE user_id = ?
		GROUP BY category
		ORDER BY total_amount DESC, category ASC
	`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []models.CategoryStat{}
	for rows.Next() {
		var s models.CategoryStat
		var cents int64
		if err := rows.Scan(&s.Category, &cents, &s.Count); err != nil {
			return nil, err
		}
		s.Total = money.FromCents(cents)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// TagStats sums the user's transactions per tag, largest total first. Every tag
// on a transaction receives that transaction's full amount.
func (db *DB) TagStats(ctx context.Context, userID int64) ([]models.TagStat, error) {
	rows, err := db.conn.QueryContext(ctx, db.q(`
		SELECT tt.tag, CAST(SUM(t.amount_cents) AS BIGINT) AS total_amount, COUNT(*) AS transaction_count
		FROM transaction_tags tt
		JOIN transactions t ON t.id = tt.transaction_id
		WHERE t.user_id = ?
		GROUP BY tt.tag
		ORDER BY total_amount DESC, tt.tag ASC
	`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []models.TagStat{}
	for rows.Next() {
		var s models.TagStat
		var cents int64
		if err := rows.Scan(&s.Tag, &cents, &s.Count); err != nil {
			return nil, err
		}
		s.Total = money.FromCents(cents)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// DashboardStats returns the user's overall total, a naive monthly average
// (total / 12), the most frequently used category and the latest transactions.
func (db *DB) DashboardStats(ctx context.Context, userID int64) (*models.DashboardStats, error) {
	var totalCents int64
	err := db.conn.QueryRowContext(ctx,
		db.q("SELECT CAST(COALESCE(SUM(amount_cents), 0) AS BIGINT) FROM transactions WHERE user_id = ?"),
		userID,
	).Scan(&totalCents)
	if err != nil {
		return nil, err
	}

	topCategory := "No transactions"
	err = db.conn.QueryRowContext(ctx, db.q(`
		SELECT category FROM transactions
		WHERE user_id = ?
		GROUP BY category
		ORDER BY COUNT(*) DESC, category ASC
		LIMIT 1
	`), userID).Scan(&topCategory)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	recent, err := db.ListTransactions(ctx, userID, 1, recentTransactionsLimit)
	if err != nil {
		return nil, err
	}

	total := money.FromCents(totalCents)
	avg, err := money.FromDecimal(total.Decimal().Div(decimal.NewFromInt(12)))
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalSpent:         total,
		MonthlyAverage:     avg,
		TopCategory:        topCategory,
		RecentTransactions: recent,
	}, nil
}
