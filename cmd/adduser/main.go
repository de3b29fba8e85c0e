// Create a user for logging in to the trading simulator
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dense-analysis/stockwarp/internal/account"
	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/env"
)

func main() {
	env.LoadEnvironmentVariables()

	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: adduser <username> <password>\n")
		os.Exit(1)
	}

	conn, err := database.Connect(context.Background())

	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %s\n", err)
		os.Exit(1)
	}

	defer conn.Close()

	accounts := account.NewService(account.NewPostgresUserStore(conn))
	userID, err := accounts.Register(context.Background(), os.Args[1], os.Args[2])

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created user %d with %s cash\n", userID, account.StartingCash.StringFixed(2))
}
