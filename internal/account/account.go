// Package account handles user registration and authentication.
package account

import (
	"context"
	"errors"

	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingCredentials = errors.New("username and password must not be empty")
)

// StartingCash is the balance every new account begins with.
var StartingCash = decimal.RequireFromString("10000.00")

const bcryptCost = 14

// UserStore persists user credentials and balances.
type UserStore interface {
	// CreateUser inserts a user and returns the new ID. It must return
	// ErrUsernameTaken when the username already exists.
	CreateUser(ctx context.Context, username string, passwordHash string, cash decimal.Decimal) (int64, error)
	// UserByName returns a user and their password hash. It must return
	// ErrInvalidCredentials when no such user exists.
	UserByName(ctx context.Context, username string) (model.User, string, error)
}

// Service registers and authenticates users against a UserStore.
type Service struct {
	users UserStore
	cost  int
}

// NewService creates a Service over a user store.
func NewService(users UserStore) *Service {
	return &Service{users: users, cost: bcryptCost}
}

// Register creates a user with the starting cash balance.
func (service *Service) Register(ctx context.Context, username string, password string) (int64, error) {
	if len(username) == 0 || len(password) == 0 {
		return 0, ErrMissingCredentials
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), service.cost)

	if err != nil {
		return 0, err
	}

	return service.users.CreateUser(ctx, username, string(passwordHash), StartingCash)
}

// Authenticate checks a username and password and returns the user ID.
//
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (service *Service) Authenticate(ctx context.Context, username string, password string) (int64, error) {
	if len(username) == 0 || len(password) == 0 {
		return 0, ErrInvalidCredentials
	}

	user, passwordHash, err := service.users.UserByName(ctx, username)

	if err != nil {
		return 0, err
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		return 0, ErrInvalidCredentials
	}

	return user.ID, nil
}
