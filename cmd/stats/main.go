package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"expense-journal/internal/models"
	"expense-journal/internal/money"
	"expense-journal/internal/storage"

	"github.com/olekukonko/tablewriter"
)

const defaultDBPath = "expenses.db"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Email of the user to report on")
	driver := fs.String("driver", storage.DriverSQLite, "Database driver: sqlite or postgres")
	dsn := fs.String("db", defaultDBPath, "Path to the SQLite file, or the Postgres connection URL")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		fmt.Fprintln(stdout, "Usage: stats -email <email> [-driver <driver>] [-db <dsn>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: email")
	}

	if *driver == storage.DriverSQLite && *dsn == defaultDBPath {
		if url := os.Getenv("DATABASE_URL"); url != "" {
			*driver, *dsn = storage.DriverPostgres, url
		} else if path := os.Getenv("DB_PATH"); path != "" {
			*dsn = path
		}
	}

	ctx := context.Background()
	db, err := storage.Open(ctx, *driver, *dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	user, err := db.GetUserByEmail(ctx, *email)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("user %s not found", *email)
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	dashboard, err := db.DashboardStats(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}
	categories, err := db.CategoryStats(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load category stats: %w", err)
	}
	tags, err := db.TagStats(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load tag stats: %w", err)
	}

	fmt.Fprintf(stdout, "Statistics for %s\n", user.Email)
	fmt.Fprintf(stdout, "Total: %s  Monthly average: %s  Top category: %s\n\n",
		dashboard.TotalSpent, dashboard.MonthlyAverage, dashboard.TopCategory)

	categoryRows := make([][]string, len(categories))
	for i, s := range categories {
		categoryRows[i] = statRow(s.Category, s.Total, s.Count)
	}
	renderTable(stdout, "Category", categoryRows)

	fmt.Fprintln(stdout)

	tagRows := make([][]string, len(tags))
	for i, s := range tags {
		tagRows[i] = statRow(s.Tag, s.Total, s.Count)
	}
	renderTable(stdout, "Tag", tagRows)

	fmt.Fprintln(stdout)
	renderRecent(stdout, dashboard.RecentTransactions)
	return nil
}

func statRow(label string, total money.Amount, count int) []string {
	return []string{label, total.String(), strconv.Itoa(count)}
}

func renderTable(w io.Writer, label string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{label, "Total", "Transactions"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	table.AppendBulk(rows)
	table.Render()
}

func renderRecent(w io.Writer, txs []models.Transaction) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date", "Description", "Category", "Amount"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, tx := range txs {
		table.Append([]string{tx.CreatedAt.Format("2006-01-02"), tx.Description, tx.Category, tx.Amount.String()})
	}
	table.Render()
}
