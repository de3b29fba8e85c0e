package template

import (
	"html/template"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

var Login *template.Template
var Register *template.Template
var Portfolio *template.Template
var Quote *template.Template
var Buy *template.Template
var Sell *template.Template
var History *template.Template
var AddCash *template.Template

var funcMap = template.FuncMap{
	"usd": USD,
}

func parse(files ...string) *template.Template {
	paths := make([]string, 0, len(files)+1)
	paths = append(paths, "template/base.tmpl")

	for _, file := range files {
		paths = append(paths, "template/"+file)
	}

	return template.Must(template.New("base.tmpl").Funcs(funcMap).ParseFiles(paths...))
}

func Init() {
	Login = parse("login.tmpl")
	Register = parse("register.tmpl")
	Portfolio = parse("portfolio.tmpl")
	Quote = parse("quote.tmpl")
	Buy = parse("buy.tmpl")
	Sell = parse("sell.tmpl")
	History = parse("history.tmpl")
	AddCash = parse("add-cash.tmpl")
}

func Render(tmpl *template.Template, writer io.Writer, data interface{}) {
	tmpl.ExecuteTemplate(writer, "base", data)
}

// USD formats a decimal as a dollar amount with two decimal places.
//
// Only display formatting rounds values. All arithmetic stays exact.
func USD(value decimal.Decimal) string {
	text := value.Abs().StringFixed(2)
	whole := text[:len(text)-3]
	fraction := text[len(text)-3:]

	var builder strings.Builder

	if value.IsNegative() {
		builder.WriteByte('-')
	}

	builder.WriteByte('$')

	leading := len(whole) % 3

	if leading > 0 {
		builder.WriteString(whole[:leading])

		if len(whole) > leading {
			builder.WriteByte(',')
		}
	}

	for i := leading; i < len(whole); i += 3 {
		builder.WriteString(whole[i : i+3])

		if i+3 < len(whole) {
			builder.WriteByte(',')
		}
	}

	builder.WriteString(fraction)

	return builder.String()
}
