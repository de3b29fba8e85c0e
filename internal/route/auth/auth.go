// Package auth defines routes for logging in and registering
package auth

import (
	"errors"
	"net/http"

	"github.com/dense-analysis/stockwarp/internal/account"
	"github.com/dense-analysis/stockwarp/internal/route/util"
	"github.com/dense-analysis/stockwarp/internal/session"
	"github.com/dense-analysis/stockwarp/internal/template"
)

type FormPageData struct {
	Error string
}

func HandleViewLoginForm(writer http.ResponseWriter, request *http.Request) {
	template.Render(template.Login, writer, FormPageData{})
}

func HandleLogin(accounts *account.Service, writer http.ResponseWriter, request *http.Request) {
	request.ParseForm()
	username := request.Form.Get("username")
	password := request.Form.Get("password")

	userID, err := accounts.Authenticate(request.Context(), username, password)

	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			writer.WriteHeader(http.StatusForbidden)
			template.Render(template.Login, writer, FormPageData{Error: "Invalid username or password"})
		} else {
			util.RespondInternalServerError(writer, err)
		}

		return
	}

	session.SaveUserInSession(writer, request, userID)
	http.Redirect(writer, request, "/", http.StatusFound)
}

func HandleViewRegisterForm(writer http.ResponseWriter, request *http.Request) {
	template.Render(template.Register, writer, FormPageData{})
}

func HandleRegister(accounts *account.Service, writer http.ResponseWriter, request *http.Request) {
	request.ParseForm()
	username := request.Form.Get("username")
	password := request.Form.Get("password")
	confirmation := request.Form.Get("confirmation")

	renderError := func(message string) {
		writer.WriteHeader(http.StatusBadRequest)
		template.Render(template.Register, writer, FormPageData{Error: message})
	}

	if username == "" {
		renderError("Please provide a username")

		return
	}

	if password == "" {
		renderError("Please provide a password")

		return
	}

	if password != confirmation {
		renderError("Passwords don't match")

		return
	}

	userID, err := accounts.Register(request.Context(), username, password)

	if err != nil {
		if errors.Is(err, account.ErrUsernameTaken) {
			renderError("Username already exists")
		} else {
			util.RespondInternalServerError(writer, err)
		}

		return
	}

	// Log the newly registered user straight in.
	session.SaveUserInSession(writer, request, userID)
	http.Redirect(writer, request, "/", http.StatusFound)
}

func HandleLogout(writer http.ResponseWriter, request *http.Request) {
	session.ClearSession(writer, request)
	http.Redirect(writer, request, "/login", http.StatusFound)
}
