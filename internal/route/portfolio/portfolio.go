// Package portfolio defines routes for trading and viewing the portfolio
package portfolio

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dense-analysis/stockwarp/internal/database"
	"github.com/dense-analysis/stockwarp/internal/ledger"
	"github.com/dense-analysis/stockwarp/internal/model"
	"github.com/dense-analysis/stockwarp/internal/quote"
	"github.com/dense-analysis/stockwarp/internal/route/util"
	"github.com/dense-analysis/stockwarp/internal/session"
	"github.com/dense-analysis/stockwarp/internal/template"
)

func loadUser(conn *database.Conn, writer http.ResponseWriter, request *http.Request, user *model.User) bool {
	found, err := session.LoadUserFromSession(conn, request, user)

	if err != nil {
		util.RespondInternalServerError(writer, err)

		return false
	}

	return found
}

type PortfolioPageData struct {
	User      model.User
	Valuation ledger.Valuation
}

// HandlePortfolio shows the cash and priced holdings a user has.
func HandlePortfolio(conn *database.Conn, engine *ledger.Engine, writer http.ResponseWriter, request *http.Request) {
	data := PortfolioPageData{}

	if !loadUser(conn, writer, request, &data.User) {
		http.Redirect(writer, request, "/login", http.StatusFound)

		return
	}

	valuation, err := engine.Valuation(request.Context(), data.User.ID)

	if err != nil {
		if errors.Is(err, ledger.ErrQuoteUnavailable) {
			util.RespondQuoteUnavailable(writer, err)
		} else {
			util.RespondInternalServerError(writer, err)
		}

		return
	}

	data.Valuation = valuation
	template.Render(template.Portfolio, writer, data)
}

type QuotePageData struct {
	User     model.User
	Quote    model.Quote
	HasQuote bool
	Error    string
}

// HandleViewQuoteForm shows the symbol lookup form.
func HandleViewQuoteForm(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	data := QuotePageData{}

	if !loadUser(conn, writer, request, &data.User) {
		http.Redirect(writer, request, "/login", http.StatusFound)

		return
	}

	template.Render(template.Quote, writer, data)
}

// HandleQuote looks up the current price for a symbol.
func HandleQuote(conn *database.Conn, quotes quote.Provider, writer http.ResponseWriter, request *http.Request) {
	data := QuotePageData{}

	if !loadUser(conn, writer, request, &data.User) {
		util.RespondForbidden(writer)

		return
	}

	request.ParseForm()

	symbol := strings.ToUpper(strings.TrimSpace(request.Form.Get("symbol")))

	if symbol == "" {
		util.RespondValidationError(writer, "Please provide a symbol")

		return
	}

	stockQuote, err := quotes.Lookup(request.Context(), symbol)

	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			data.Error = "Sorry, but the symbol is wrong."
			writer.WriteHeader(http.StatusBadRequest)
			template.Render(template.Quote, writer, data)
		} else {
			util.RespondQuoteUnavailable(writer, err)
		}

		return
	}

	data.Quote = stockQuote
	data.HasQuote = true
	template.Render(template.Quote, writer, data)
}

type tradeRequest struct {
	Symbol string
	Shares int64
}

// parseTradeForm validates the symbol and share count of a buy or sell form.
//
// The engine only ever sees typed, already-validated values. Share counts
// must be positive whole numbers: fractional shares are unsupported.
func parseTradeForm(writer http.ResponseWriter, request *http.Request) (tradeRequest, bool) {
	request.ParseForm()

	trade := tradeRequest{
		Symbol: strings.ToUpper(strings.TrimSpace(request.Form.Get("symbol"))),
	}

	if trade.Symbol == "" {
		util.RespondValidationError(writer, "Please provide a symbol")

		return trade, false
	}

	shares, err := strconv.ParseInt(request.Form.Get("shares"), 10, 64)

	if err != nil || shares <= 0 {
		util.RespondValidationError(writer, "Please provide a valid number of shares")

		return trade, false
	}

	trade.Shares = shares

	return trade, true
}

func respondTradeError(writer http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrSymbolNotFound):
		util.RespondValidationError(writer, "Symbol not found")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		util.RespondValidationError(writer, "Insufficient cash")
	case errors.Is(err, ledger.ErrInsufficientShares):
		util.RespondValidationError(writer, "You can't sell more shares than you have")
	case errors.Is(err, ledger.ErrUnknownSymbol):
		util.RespondValidationError(writer, "You don't hold any shares of that symbol")
	case errors.Is(err, ledger.ErrInvalidShares), errors.Is(err, ledger.ErrInvalidSymbol):
		util.RespondValidationError(writer, err.Error())
	case errors.Is(err, ledger.ErrQuoteUnavailable):
		util.RespondQuoteUnavailable(writer, err)
	default:
		util.RespondInternalServerError(writer, err)
	}
}

type TradePageData struct {
	User model.User
}

// HandleViewBuyForm shows the buy form.
func HandleViewBuyForm(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	data := TradePageData{}

	if !loadUser(conn, writer, request, &data.User) {
		http.Redirect(writer, request, "/login", http.StatusFound)

		return
	}

	template.Render(template.Buy, writer, data)
}

// HandleBuy swaps some cash for shares at the current quote.
func HandleBuy(conn *database.Conn, engine *ledger.Engine, writer http.ResponseWriter, request *http.Request) {
	var user model.User

	if !loadUser(conn, writer, request, &user) {
		util.RespondForbidden(writer)

		return
	}

	trade, ok := parseTradeForm(writer, request)

	if !ok {
		return
	}

	if _, err := engine.Buy(request.Context(), user.ID, trade.Symbol, trade.Shares); err != nil {
		respondTradeError(writer, err)

		return
	}

	http.Redirect(writer, request, "/", http.StatusFound)
}

type SellPageData struct {
	User        model.User
	HoldingList []model.Holding
}

// HandleViewSellForm shows the sell form with the user's active holdings.
func HandleViewSellForm(conn *database.Conn, engine *ledger.Engine, writer http.ResponseWriter, request *http.Request) {
	data := SellPageData{}

	if !loadUser(conn, writer, request, &data.User) {
		http.Redirect(writer, request, "/login", http.StatusFound)

		return
	}

	holdingList, err := engine.Holdings(request.Context(), data.User.ID)

	if err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	data.HoldingList = holdingList
	template.Render(template.Sell, writer, data)
}

// HandleSell swaps some shares for cash at the current quote.
func HandleSell(conn *database.Conn, engine *ledger.Engine, writer http.ResponseWriter, request *http.Request) {
	var user model.User

	if !loadUser(conn, writer, request, &user) {
		util.RespondForbidden(writer)

		return
	}

	trade, ok := parseTradeForm(writer, request)

	if !ok {
		return
	}

	if _, err := engine.Sell(request.Context(), user.ID, trade.Symbol, trade.Shares); err != nil {
		respondTradeError(writer, err)

		return
	}

	http.Redirect(writer, request, "/", http.StatusFound)
}

type HistoryPageData struct {
	User            model.User
	TransactionList []model.Transaction
}

// HandleHistory shows all of the user's transactions, most recent first.
func HandleHistory(conn *database.Conn, engine *ledger.Engine, writer http.ResponseWriter, request *http.Request) {
	data := HistoryPageData{}

	if !loadUser(conn, writer, request, &data.User) {
		http.Redirect(writer, request, "/login", http.StatusFound)

		return
	}

	transactionList, err := engine.History(request.Context(), data.User.ID)

	if err != nil {
		util.RespondInternalServerError(writer, err)

		return
	}

	data.TransactionList = transactionList
	template.Render(template.History, writer, data)
}

// HandleViewAddCashForm shows the deposit form.
func HandleViewAddCashForm(conn *database.Conn, writer http.ResponseWriter, request *http.Request) {
	data := TradePageData{}

	if !loadUser(conn, writer, request, &data.User) {
		http.Redirect(writer, request, "/login", http.StatusFound)

		return
	}

	template.Render(template.AddCash, writer, data)
}

// HandleAddCash credits extra cash to the user's balance.
func HandleAddCash(conn *database.Conn, engine *ledger.Engine, writer http.ResponseWriter, request *http.Request) {
	var user model.User

	if !loadUser(conn, writer, request, &user) {
		util.RespondForbidden(writer)

		return
	}

	request.ParseForm()

	amount, err := strconv.ParseInt(request.Form.Get("amount"), 10, 64)

	if err != nil || amount <= 0 {
		util.RespondValidationError(writer, "Please provide a valid amount")

		return
	}

	if _, err := engine.AddCash(request.Context(), user.ID, amount); err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) {
			util.RespondValidationError(writer, "Please provide a valid amount")
		} else {
			util.RespondInternalServerError(writer, err)
		}

		return
	}

	http.Redirect(writer, request, "/", http.StatusFound)
}
