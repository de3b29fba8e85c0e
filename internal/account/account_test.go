package account

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// newTestService lowers the bcrypt cost so tests run quickly.
func newTestService(store UserStore) *Service {
	service := NewService(store)
	service.cost = bcrypt.MinCost

	return service
}

type memUserStore struct {
	users  map[string]model.User
	hashes map[string]string
	nextID int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		users:  map[string]model.User{},
		hashes: map[string]string{},
	}
}

func (store *memUserStore) CreateUser(
	ctx context.Context,
	username string,
	passwordHash string,
	cash decimal.Decimal,
) (int64, error) {
	if _, ok := store.users[username]; ok {
		return 0, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
	}

	store.nextID++
	store.users[username] = model.User{ID: store.nextID, Username: username, Cash: cash}
	store.hashes[username] = passwordHash

	return store.nextID, nil
}

func (store *memUserStore) UserByName(ctx context.Context, username string) (model.User, string, error) {
	user, ok := store.users[username]

	if !ok {
		return user, "", ErrInvalidCredentials
	}

	return user, store.hashes[username], nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store := newMemUserStore()
	service := newTestService(store)
	ctx := context.Background()

	userID, err := service.Register(ctx, "alice", "hunter2")

	if err != nil {
		t.Fatalf("register error: %s", err)
	}

	user := store.users["alice"]

	if !user.Cash.Equal(StartingCash) {
		t.Errorf("starting cash = %s, want %s", user.Cash, StartingCash)
	}

	if store.hashes["alice"] == "hunter2" {
		t.Error("password stored in plain text")
	}

	authenticatedID, err := service.Authenticate(ctx, "alice", "hunter2")

	if err != nil {
		t.Fatalf("authenticate error: %s", err)
	}

	if authenticatedID != userID {
		t.Errorf("authenticated ID = %d, want %d", authenticatedID, userID)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service := newTestService(newMemUserStore())
	ctx := context.Background()

	if _, err := service.Register(ctx, "alice", "hunter2"); err != nil {
		t.Fatalf("register error: %s", err)
	}

	_, err := service.Register(ctx, "alice", "different")

	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("error = %v, want ErrUsernameTaken", err)
	}
}

func TestRegisterEmptyInput(t *testing.T) {
	service := newTestService(newMemUserStore())
	ctx := context.Background()

	testCases := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "hunter2"},
		{name: "empty password", username: "alice", password: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Register(ctx, tc.username, tc.password); !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("error = %v, want ErrMissingCredentials", err)
			}
		})
	}
}

func TestAuthenticateFailures(t *testing.T) {
	service := newTestService(newMemUserStore())
	ctx := context.Background()

	if _, err := service.Register(ctx, "alice", "hunter2"); err != nil {
		t.Fatalf("register error: %s", err)
	}

	// Unknown users and wrong passwords look the same to the caller.
	testCases := []struct {
		name     string
		username string
		password string
	}{
		{name: "unknown user", username: "bob", password: "hunter2"},
		{name: "wrong password", username: "alice", password: "hunter3"},
		{name: "empty password", username: "alice", password: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Authenticate(ctx, tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}
