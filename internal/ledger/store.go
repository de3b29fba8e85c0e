package ledger

import (
	"context"
	"fmt"

	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/shopspring/decimal"
)

// PostgresStore is a Store backed by the stock_user and stock_transaction
// tables.
type PostgresStore struct {
	conn *database.Conn
}

// NewPostgresStore creates a PostgresStore over a database connection.
func NewPostgresStore(conn *database.Conn) *PostgresStore {
	return &PostgresStore{conn: conn}
}

var holdingsQuery = `
select symbol, sum(shares) as total_shares
from stock_transaction
where user_id = $1
group by symbol
having sum(shares) > 0
order by symbol
`

func scanHolding(row database.Row, holding *model.Holding) error {
	return row.Scan(&holding.Symbol, &holding.Shares)
}

var transactionQuery = `
select id, user_id, symbol, shares, price, time
from stock_transaction
`

func scanTransaction(row database.Row, transaction *model.Transaction) error {
	return row.Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.Symbol,
		&transaction.Shares,
		&transaction.Price,
		&transaction.Time,
	)
}

func (store *PostgresStore) Cash(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var cash decimal.Decimal

	row := store.conn.QueryRow(ctx, "select cash from stock_user where id = $1", userID)

	if err := row.Scan(&cash); err != nil {
		if err == database.ErrNoRows {
			return cash, fmt.Errorf("unknown user: %d", userID)
		}

		return cash, err
	}

	return cash, nil
}

func (store *PostgresStore) Holdings(ctx context.Context, userID int64) ([]model.Holding, error) {
	var holdingList []model.Holding

	err := model.LoadList(ctx, store.conn, &holdingList, 8, scanHolding, holdingsQuery, userID)

	return holdingList, err
}

// One statement reads cash and holdings together, so the pair comes from a
// single database snapshot even when a trade commits mid-read.
var positionQuery = `
select stock_user.cash, coalesce(held.symbol, ''), coalesce(held.shares, 0)
from stock_user
left join (
	select user_id, symbol, sum(shares) as shares
	from stock_transaction
	group by user_id, symbol
	having sum(shares) > 0
) held on held.user_id = stock_user.id
where stock_user.id = $1
order by held.symbol
`

func (store *PostgresStore) Position(ctx context.Context, userID int64) (decimal.Decimal, []model.Holding, error) {
	var cash decimal.Decimal
	var holdingList []model.Holding

	rows, err := store.conn.Query(ctx, positionQuery, userID)

	if err != nil {
		return cash, nil, err
	}

	defer rows.Close()

	found := false

	for rows.Next() {
		var holding model.Holding

		if err := rows.Scan(&cash, &holding.Symbol, &holding.Shares); err != nil {
			return cash, nil, err
		}

		found = true

		// A user with no holdings still yields one row for their cash.
		if holding.Symbol != "" {
			holdingList = append(holdingList, holding)
		}
	}

	if err := rows.Err(); err != nil {
		return cash, nil, err
	}

	if !found {
		return cash, nil, fmt.Errorf("unknown user: %d", userID)
	}

	return cash, holdingList, nil
}

func (store *PostgresStore) HoldingShares(ctx context.Context, userID int64, symbol string) (int64, error) {
	var shares int64

	row := store.conn.QueryRow(
		ctx,
		"select coalesce(sum(shares), 0) from stock_transaction where user_id = $1 and symbol = $2",
		userID,
		symbol,
	)

	err := row.Scan(&shares)

	return shares, err
}

func (store *PostgresStore) History(ctx context.Context, userID int64) ([]model.Transaction, error) {
	var transactionList []model.Transaction

	err := model.LoadList(
		ctx,
		store.conn,
		&transactionList,
		16,
		scanTransaction,
		transactionQuery+"where user_id = $1 order by time desc, id desc",
		userID,
	)

	return transactionList, err
}

// ApplyTrade commits the cash adjustment and the transaction row together.
//
// The user row is locked for the duration of the transaction, so trades for
// one user are serialized while trades for different users proceed without
// coordination. The cash and share checks run again under the lock, which
// keeps a concurrent trade from driving either balance negative.
func (store *PostgresStore) ApplyTrade(
	ctx context.Context,
	userID int64,
	symbol string,
	shares int64,
	price decimal.Decimal,
) (model.Transaction, error) {
	var transaction model.Transaction

	err := store.conn.WithTransaction(ctx, func(tx database.Queryable) error {
		var cash decimal.Decimal

		row := tx.QueryRow(ctx, "select cash from stock_user where id = $1 for update", userID)

		if err := row.Scan(&cash); err != nil {
			if err == database.ErrNoRows {
				return fmt.Errorf("unknown user: %d", userID)
			}

			return err
		}

		cost := price.Mul(decimal.NewFromInt(shares))

		if shares > 0 {
			if cash.LessThan(cost) {
				return ErrInsufficientFunds
			}
		} else {
			var held int64

			row := tx.QueryRow(
				ctx,
				"select coalesce(sum(shares), 0) from stock_transaction where user_id = $1 and symbol = $2",
				userID,
				symbol,
			)

			if err := row.Scan(&held); err != nil {
				return err
			}

			if held < -shares {
				return fmt.Errorf("%w: %s", ErrInsufficientShares, symbol)
			}
		}

		if err := tx.Exec(
			ctx,
			"update stock_user set cash = cash - $1 where id = $2",
			cost,
			userID,
		); err != nil {
			return err
		}

		row = tx.QueryRow(
			ctx,
			`insert into stock_transaction (user_id, symbol, shares, price)
			values ($1, $2, $3, $4)
			returning id, time`,
			userID,
			symbol,
			shares,
			price,
		)

		if err := row.Scan(&transaction.ID, &transaction.Time); err != nil {
			return err
		}

		transaction.UserID = userID
		transaction.Symbol = symbol
		transaction.Shares = shares
		transaction.Price = price

		return nil
	})

	if err != nil {
		return model.Transaction{}, err
	}

	return transaction, nil
}

func (store *PostgresStore) AddCash(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var cash decimal.Decimal

	row := store.conn.QueryRow(
		ctx,
		"update stock_user set cash = cash + $1 where id = $2 returning cash",
		amount,
		userID,
	)

	if err := row.Scan(&cash); err != nil {
		if err == database.ErrNoRows {
			return cash, fmt.Errorf("unknown user: %d", userID)
		}

		return cash, err
	}

	return cash, nil
}
