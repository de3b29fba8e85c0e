// Archive quote snapshots for every traded symbol into ClickHouse
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/env"
	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/dense-analysis/stockwarp/internal/quote"
)

func loadTradedSymbols(ctx context.Context, conn *database.Conn) ([]string, error) {
	rows, err := conn.Query(ctx, "select distinct symbol from stock_transaction order by symbol")

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var symbolList []string

	for rows.Next() {
		var symbol string

		if err := rows.Scan(&symbol); err != nil {
			return nil, err
		}

		symbolList = append(symbolList, symbol)
	}

	return symbolList, rows.Err()
}

func connectClickHouse(ctx context.Context) (clickhouse.Conn, error) {
	address := fmt.Sprintf("%s:%s", os.Getenv("CH_HOST"), os.Getenv("CH_PORT"))
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{address},
		Auth: clickhouse.Auth{
			Database: os.Getenv("CH_NAME"),
			Username: os.Getenv("CH_USERNAME"),
			Password: os.Getenv("CH_PASSWORD"),
		},
		DialTimeout: time.Second * 5,
	})

	if err != nil {
		return nil, err
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, err
	}

	return conn, nil
}

func readQuotes(ctx context.Context, quotes quote.Provider, symbolList []string) []model.Quote {
	quoteList := make([]model.Quote, 0, len(symbolList))

	for _, symbol := range symbolList {
		stockQuote, err := quotes.Lookup(ctx, symbol)

		if err != nil {
			// Delisted symbols stay in old transactions forever, so a
			// missing quote only skips that symbol's snapshot.
			if errors.Is(err, quote.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "Skipping unquotable symbol: %s\n", symbol)

				continue
			}

			fmt.Fprintf(os.Stderr, "Quote error for %s: %s\n", symbol, err)

			continue
		}

		quoteList = append(quoteList, stockQuote)
	}

	return quoteList
}

func writeSnapshots(ctx context.Context, conn clickhouse.Conn, quoteList []model.Quote) error {
	if len(quoteList) == 0 {
		return nil
	}

	batch, err := conn.PrepareBatch(
		ctx,
		`insert into stock_price_history (time, symbol, name, price)
		values (?, ?, ?, ?)`,
	)

	if err != nil {
		return err
	}

	timestamp := time.Now()

	for _, stockQuote := range quoteList {
		if err := batch.Append(
			timestamp,
			stockQuote.Symbol,
			stockQuote.Name,
			stockQuote.Price,
		); err != nil {
			return err
		}
	}

	return batch.Send()
}

func main() {
	env.LoadEnvironmentVariables()

	ctx := context.Background()
	conn, err := database.Connect(ctx)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %s\n", err)
		os.Exit(1)
	}

	defer conn.Close()

	symbolList, err := loadTradedSymbols(ctx, conn)

	if err != nil {
		fmt.Fprintf(os.Stderr, "SQL error: %s\n", err)
		os.Exit(1)
	}

	chConn, err := connectClickHouse(ctx)

	if err != nil {
		fmt.Fprintf(os.Stderr, "ClickHouse connection error: %s\n", err)
		os.Exit(1)
	}

	defer func() {
		_ = chConn.Close()
	}()

	quotes := quote.NewClient(os.Getenv("QUOTE_API_URL"))
	quoteList := readQuotes(ctx, quotes, symbolList)

	if err := writeSnapshots(ctx, chConn, quoteList); err != nil {
		fmt.Fprintf(os.Stderr, "ClickHouse error: %s\n", err)
		os.Exit(1)
	}
}
