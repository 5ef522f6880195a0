package models

import (
	"time"

	"expense-journal/internal/money"
)

// User represents a registered account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Transaction represents a single income or expense record owned by a user.
// The sign of Amount is a client convention; it is not enforced.
type Transaction struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   *time.Time   `json:"updated_at"`
}

// NewTransaction holds the fields needed to create a transaction.
type NewTransaction struct {
	Amount      money.Amount
	Description string
	Category    string
	Tags        []string
}

// TransactionPatch is a partial update. Nil fields keep their stored value.
type TransactionPatch struct {
	Amount      *money.Amount `json:"amount"`
	Description *string       `json:"description"`
	Category    *string       `json:"category"`
	Tags        *[]string     `json:"tags"`
}

// Category is a user-scoped label for transactions.
type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Tag is a user-scoped emotional or free-form label.
type Tag struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryStat aggregates a user's transactions by category.
type CategoryStat struct {
	Category string       `json:"category"`
	Total    money.Amount `json:"total_amount"`
	Count    int          `json:"transaction_count"`
}

// TagStat aggregates a user's transactions by tag. A transaction with
// several tags contributes its full amount to each of them.
type TagStat struct {
	Tag   string       `json:"tag"`
	Total money.Amount `json:"total_amount"`
	Count int          `json:"transaction_count"`
}

// DashboardStats summarises a user's spending for the dashboard view.
type DashboardStats struct {
	TotalSpent         money.Amount  `json:"totalSpent"`
	MonthlyAverage     money.Amount  `json:"monthlyAverage"`
	TopCategory        string        `json:"topCategory"`
	RecentTransactions []Transaction `json:"recentTransactions"`
}

// DefaultCategories are seeded for every new user.
var DefaultCategories = []string{
	"Food & Dining",
	"Shopping",
	"Transportation",
	"Bills & Utilities",
	"Entertainment",
	"Health & Wellness",
	"Travel",
	"Other",
}

// DefaultTags are the emotional tags seeded for every new user.
var DefaultTags = []string{
	"Happy",
	"Stressed",
	"Impulsive",
	"Rewarding",
	"Necessary",
	"Regretful",
}
