// Export the ledger tables into CSV files for backups and offline analysis.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/env"
	"github.com/shopspring/decimal"
)

func main() {
	env.LoadEnvironmentVariables()

	outputDir := "export"

	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	ctx := context.Background()
	conn, err := database.Connect(ctx)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %s\n", err)
		os.Exit(1)
	}

	defer conn.Close()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %s\n", err)
		os.Exit(1)
	}

	if err := exportUsers(ctx, conn, outputDir); err != nil {
		exitWithError("Export users", err)
	}

	if err := exportTransactions(ctx, conn, outputDir); err != nil {
		exitWithError("Export transactions", err)
	}
}

func exitWithError(prefix string, err error) {
	fmt.Fprintf(os.Stderr, "%s error: %s\n", prefix, err)
	os.Exit(1)
}

func createCSV(path string) (*csv.Writer, *os.File, error) {
	file, err := os.Create(path)

	if err != nil {
		return nil, nil, err
	}

	return csv.NewWriter(file), file, nil
}

func exportUsers(ctx context.Context, conn *database.Conn, outputDir string) error {
	rows, err := conn.Query(ctx, "select id, username, cash from stock_user order by id")

	if err != nil {
		return err
	}

	defer rows.Close()

	writer, file, err := createCSV(filepath.Join(outputDir, "stock_user.csv"))

	if err != nil {
		return err
	}

	defer file.Close()

	if err := writer.Write([]string{"id", "username", "cash"}); err != nil {
		return err
	}

	for rows.Next() {
		var id int64
		var username string
		var cash decimal.Decimal

		if err := rows.Scan(&id, &username, &cash); err != nil {
			return err
		}

		if err := writer.Write([]string{
			fmt.Sprintf("%d", id),
			username,
			cash.StringFixed(2),
		}); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	writer.Flush()

	return writer.Error()
}

func exportTransactions(ctx context.Context, conn *database.Conn, outputDir string) error {
	rows, err := conn.Query(
		ctx,
		"select id, user_id, symbol, shares, price, time from stock_transaction order by id",
	)

	if err != nil {
		return err
	}

	defer rows.Close()

	writer, file, err := createCSV(filepath.Join(outputDir, "stock_transaction.csv"))

	if err != nil {
		return err
	}

	defer file.Close()

	if err := writer.Write([]string{"id", "user_id", "symbol", "shares", "price", "time"}); err != nil {
		return err
	}

	for rows.Next() {
		var id int64
		var userID int64
		var symbol string
		var shares int64
		var price decimal.Decimal
		var timestamp time.Time

		if err := rows.Scan(&id, &userID, &symbol, &shares, &price, &timestamp); err != nil {
			return err
		}

		if err := writer.Write([]string{
			fmt.Sprintf("%d", id),
			fmt.Sprintf("%d", userID),
			symbol,
			fmt.Sprintf("%d", shares),
			price.StringFixed(2),
			timestamp.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	writer.Flush()

	return writer.Error()
}
