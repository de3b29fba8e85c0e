package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dense-analysis/stockwarp/internal/account"
	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/env"
	"github.com/dense-analysis/stockwarp/internal/ledger"
	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/dense-analysis/stockwarp/internal/quote"
	"github.com/dense-analysis/stockwarp/internal/route/auth"
	"github.com/dense-analysis/stockwarp/internal/route/portfolio"
	"github.com/dense-analysis/stockwarp/internal/session"
	"github.com/dense-analysis/stockwarp/internal/template"
	"github.com/gorilla/mux"
)

func handleIndex(conn *database.Conn, engine *ledger.Engine) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		var user model.User

		found, err := session.LoadUserFromSession(conn, request, &user)

		if err != nil {
			writer.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(writer, "database connection error\n")

			return
		}

		if !found {
			http.Redirect(writer, request, "/login", http.StatusFound)

			return
		}

		portfolio.HandlePortfolio(conn, engine, writer, request)
	}
}

func main() {
	env.LoadEnvironmentVariables()
	session.InitSessionStorage()
	template.Init()

	conn, err := database.Connect(context.Background())

	if err != nil {
		log.Fatalf("database connection error: %s", err)
	}

	defer conn.Close()

	quotes := quote.NewClient(os.Getenv("QUOTE_API_URL"))
	engine := ledger.NewEngine(ledger.NewPostgresStore(conn), quotes)
	accounts := account.NewService(account.NewPostgresUserStore(conn))

	bindAuth := func(handler func(*account.Service, http.ResponseWriter, *http.Request)) http.HandlerFunc {
		return func(writer http.ResponseWriter, request *http.Request) {
			handler(accounts, writer, request)
		}
	}
	bindConn := func(handler func(*database.Conn, http.ResponseWriter, *http.Request)) http.HandlerFunc {
		return func(writer http.ResponseWriter, request *http.Request) {
			handler(conn, writer, request)
		}
	}
	bindEngine := func(handler func(*database.Conn, *ledger.Engine, http.ResponseWriter, *http.Request)) http.HandlerFunc {
		return func(writer http.ResponseWriter, request *http.Request) {
			handler(conn, engine, writer, request)
		}
	}

	router := mux.NewRouter().StrictSlash(true)

	router.HandleFunc("/", handleIndex(conn, engine)).Methods("GET")
	router.HandleFunc("/login", auth.HandleViewLoginForm).Methods("GET")
	router.HandleFunc("/login", bindAuth(auth.HandleLogin)).Methods("POST")
	router.HandleFunc("/register", auth.HandleViewRegisterForm).Methods("GET")
	router.HandleFunc("/register", bindAuth(auth.HandleRegister)).Methods("POST")
	router.HandleFunc("/logout", auth.HandleLogout).Methods("POST")
	router.HandleFunc("/quote", bindConn(portfolio.HandleViewQuoteForm)).Methods("GET")
	router.HandleFunc("/quote", func(writer http.ResponseWriter, request *http.Request) {
		portfolio.HandleQuote(conn, quotes, writer, request)
	}).Methods("POST")
	router.HandleFunc("/buy", bindConn(portfolio.HandleViewBuyForm)).Methods("GET")
	router.HandleFunc("/buy", bindEngine(portfolio.HandleBuy)).Methods("POST")
	router.HandleFunc("/sell", bindEngine(portfolio.HandleViewSellForm)).Methods("GET")
	router.HandleFunc("/sell", bindEngine(portfolio.HandleSell)).Methods("POST")
	router.HandleFunc("/history", bindEngine(portfolio.HandleHistory)).Methods("GET")
	router.HandleFunc("/add-cash", bindConn(portfolio.HandleViewAddCashForm)).Methods("GET")
	router.HandleFunc("/add-cash", bindEngine(portfolio.HandleAddCash)).Methods("POST")

	fileServer := http.FileServer(http.Dir("./static/"))
	router.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", fileServer))

	port := os.Getenv("PORT")

	if port == "" {
		port = "8000"
	}

	server := http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %s \n", err)
		}
	}()

	log.Println("Server started")
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shut down failed: %+v", err)
	}

	log.Println("Server shut down successfully")
}
