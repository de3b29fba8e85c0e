package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/jackc/pgconn"
	"github.com/shopspring/decimal"
)

// Postgres error code for unique constraint violations.
const uniqueViolationCode = "23505"

// PostgresUserStore is a UserStore backed by the stock_user table.
type PostgresUserStore struct {
	conn *database.Conn
}

// NewPostgresUserStore creates a PostgresUserStore over a database connection.
func NewPostgresUserStore(conn *database.Conn) *PostgresUserStore {
	return &PostgresUserStore{conn: conn}
}

func (store *PostgresUserStore) CreateUser(
	ctx context.Context,
	username string,
	passwordHash string,
	cash decimal.Decimal,
) (int64, error) {
	var userID int64

	row := store.conn.QueryRow(
		ctx,
		"insert into stock_user (username, password, cash) values ($1, $2, $3) returning id",
		username,
		passwordHash,
		cash,
	)

	if err := row.Scan(&userID); err != nil {
		var pgError *pgconn.PgError

		if errors.As(err, &pgError) && pgError.Code == uniqueViolationCode {
			return 0, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
		}

		return 0, err
	}

	return userID, nil
}

func (store *PostgresUserStore) UserByName(ctx context.Context, username string) (model.User, string, error) {
	var user model.User
	var passwordHash string

	row := store.conn.QueryRow(
		ctx,
		"select id, username, password, cash from stock_user where username = $1",
		username,
	)

	if err := row.Scan(&user.ID, &user.Username, &passwordHash, &user.Cash); err != nil {
		if err == database.ErrNoRows {
			return user, "", ErrInvalidCredentials
		}

		return user, "", err
	}

	return user, passwordHash, nil
}
