// Package session handles saving/loading users to/from sessions
package session

import (
	"fmt"
	"net/http"
	"os"

	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/gorilla/sessions"
)

var sessionStore *sessions.CookieStore

// InitSessionStorage starts up session storage or crashes the program with an error
func InitSessionStorage() {
	secretKey := os.Getenv("SECRET_KEY")

	if len(secretKey) == 0 {
		fmt.Fprintf(os.Stderr, "No SECRET_KEY variable set!\n")
		os.Exit(1)
	}

	sessionStore = sessions.NewCookieStore([]byte(secretKey))
}

// LoadUserFromSession loads the logged-in user, returning `false` if there is none.
func LoadUserFromSession(conn *database.Conn, request *http.Request, user *model.User) (bool, error) {
	session, sessionError := sessionStore.Get(request, "sessionid")

	if sessionError != nil {
		return false, nil
	}

	userID, ok := session.Values["userID"].(int64)

	if !ok {
		return false, nil
	}

	row := conn.QueryRow(
		request.Context(),
		"select id, username, cash from stock_user where id = $1",
		userID,
	)

	if err := row.Scan(&user.ID, &user.Username, &user.Cash); err != nil {
		if err == database.ErrNoRows {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func SaveUserInSession(writer http.ResponseWriter, request *http.Request, userID int64) error {
	session, _ := sessionStore.Get(request, "sessionid")
	session.Values["userID"] = userID

	return session.Save(request, writer)
}

func ClearSession(writer http.ResponseWriter, request *http.Request) error {
	session, _ := sessionStore.Get(request, "sessionid")

	for key := range session.Values {
		delete(session.Values, key)
	}

	return session.Save(request, writer)
}
