package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vibeprint/storefront/internal/app/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// TaxRate is applied to every order. It is not configurable.
var TaxRate = decimal.New(8, -2)

const (
	currencyLabel       = "KSh"
	whatsAppBaseURL     = "https://wa.me/"
	orderSummaryOpening = "Hello! I would like to order the following products:"
	orderSummaryClosing = "Please let me know how to proceed."
)

type CartTotals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"count"`
}

// CalculateTotals sums effective price times quantity and applies tax.
func CalculateTotals(items []model.CartItem) CartTotals {
	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		line := decimal.NewFromInt(item.EffectivePrice()).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
		count += item.Quantity
	}

	tax := subtotal.Mul(TaxRate)
	return CartTotals{
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal.Add(tax),
		ItemCount: count,
	}
}

// ToPaymentAmount is the order total in whole shillings, rounded half away
// from zero.
func ToPaymentAmount(items []model.CartItem) int64 {
	return CalculateTotals(items).Total.Round(0).IntPart()
}

// ToMessageSummary renders the order as the plain-text message handed to the
// messaging service.
func ToMessageSummary(items []model.CartItem) string {
	totals := CalculateTotals(items)

	rows := make([]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, fmt.Sprintf("- %s: %s %s x %d",
			item.DisplayName(),
			currencyLabel,
			FormatAmount(decimal.NewFromInt(item.EffectivePrice())),
			item.Quantity,
		))
	}

	var b strings.Builder
	b.WriteString(orderSummaryOpening)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Subtotal: %s %s\n", currencyLabel, FormatAmount(totals.Subtotal))
	fmt.Fprintf(&b, "Tax: %s %s\n", currencyLabel, FormatAmount(totals.Tax))
	fmt.Fprintf(&b, "Total: %s %s\n\n", currencyLabel, FormatAmount(totals.Total))
	b.WriteString(orderSummaryClosing)
	return b.String()
}

// WhatsAppOrderLink builds a wa.me deep link with text pre-filled.
func WhatsAppOrderLink(number, text string) string {
	return whatsAppBaseURL + number + "?text=" + EncodeURIComponent(text)
}

var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes s for use in a query value. Spaces become
// %20 and the marks !'()* are left as is.
func EncodeURIComponent(s string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(s))
}

// FormatAmount prints d with thousands separators and at most two fraction
// digits, e.g. 3456 -> "3,456", 1234.5 -> "1,234.5".
func FormatAmount(d decimal.Decimal) string {
	r := d.Round(2)
	p := message.NewPrinter(language.English)
	if r.IsInteger() {
		return p.Sprintf("%d", r.IntPart())
	}
	f, _ := r.Float64()
	return p.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}
