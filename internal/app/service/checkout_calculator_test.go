package service

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibeprint/storefront/internal/app/model"
)

func scenarioItems() []model.CartItem {
	return []model.CartItem{
		{Product: ecoTote(), Quantity: 2, SelectedVariation: mediumNatural()},
		{Product: ceramicMug(), Quantity: 1},
	}
}

func TestCalculateTotals_Scenario(t *testing.T) {
	totals := CalculateTotals(scenarioItems())

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(3200)))
	assert.True(t, totals.Tax.Equal(decimal.NewFromInt(256)))
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(3456)))
	assert.Equal(t, 3, totals.ItemCount)
	assert.Equal(t, int64(3456), ToPaymentAmount(scenarioItems()))
}

func TestCalculateTotals_Empty(t *testing.T) {
	totals := CalculateTotals(nil)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Total.IsZero())
	assert.Equal(t, int64(0), ToPaymentAmount(nil))
}

func TestCalculateTotals_VariationPriceSupersedesBase(t *testing.T) {
	items := []model.CartItem{
		{Product: ecoTote(), Quantity: 3, SelectedVariation: largeNatural()},
	}
	totals := CalculateTotals(items)
	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(4500)))
}

func TestCalculateTotals_TotalIsSubtotalTimesRate(t *testing.T) {
	prices := []int64{1, 7, 99, 850, 1300, 1799, 12345}
	for _, price := range prices {
		for qty := 1; qty <= 4; qty++ {
			items := []model.CartItem{{Product: model.Product{ID: price, Price: price}, Quantity: qty}}
			totals := CalculateTotals(items)

			expectedSubtotal := decimal.NewFromInt(price * int64(qty))
			assert.True(t, totals.Subtotal.Equal(expectedSubtotal))
			assert.True(t, totals.Total.Equal(expectedSubtotal.Mul(decimal.RequireFromString("1.08"))))
		}
	}
}

func TestToPaymentAmount_RoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		want  int64
	}{
		{name: "Exact", price: 100, want: 108},
		{name: "Fraction below half rounds down", price: 1, want: 1},
		{name: "Fraction above half rounds up", price: 7, want: 8},
		{name: "Forty cents", price: 5, want: 5},
		{name: "Ninety six cents", price: 1262, want: 1363},
		{name: "Whole result", price: 1850, want: 1998},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []model.CartItem{{Product: model.Product{ID: 1, Price: tt.price}, Quantity: 1}}
			total := CalculateTotals(items).Total
			assert.Equal(t, total.Round(0).IntPart(), ToPaymentAmount(items))
			assert.Equal(t, tt.want, ToPaymentAmount(items))
		})
	}
}

func TestToPaymentAmount_ExactHalf(t *testing.T) {
	// A whole price times 1.08 never ends in exactly .5, so check the
	// rounding rule on the decimal directly.
	assert.Equal(t, int64(7), decimal.RequireFromString("6.5").Round(0).IntPart())
	assert.Equal(t, int64(3), decimal.RequireFromString("2.5").Round(0).IntPart())
}

func TestToMessageSummary(t *testing.T) {
	items := []model.CartItem{
		{
			Product:  ecoTote(),
			Quantity: 2,
			SelectedVariation: &model.ProductVariation{
				ID: 4, Name: "Medium - Blue", Price: 1300, InStock: true,
				Attributes: model.NewAttributes("Size", "Medium", "Color", "Blue"),
			},
		},
		{Product: ceramicMug(), Quantity: 1},
	}

	want := "Hello! I would like to order the following products:\n\n" +
		"- Eco Canvas Tote (Medium, Blue): KSh 1,300 x 2\n" +
		"- Custom Ceramic Mug: KSh 800 x 1\n\n" +
		"Subtotal: KSh 3,400\n" +
		"Tax: KSh 272\n" +
		"Total: KSh 3,672\n\n" +
		"Please let me know how to proceed."

	assert.Equal(t, want, ToMessageSummary(items))
}

func TestToMessageSummary_FractionalTax(t *testing.T) {
	items := []model.CartItem{{Product: model.Product{ID: 1, Name: "Sticker", Price: 15}, Quantity: 1}}
	summary := ToMessageSummary(items)

	assert.Contains(t, summary, "Tax: KSh 1.2\n")
	assert.Contains(t, summary, "Total: KSh 16.2\n")
}

func TestWhatsAppOrderLink(t *testing.T) {
	summary := ToMessageSummary(scenarioItems())
	link := WhatsAppOrderLink("254701643555", summary)

	require.True(t, strings.HasPrefix(link, "https://wa.me/254701643555?text="))
	assert.NotContains(t, link, " ")
	assert.NotContains(t, link, "\n")
	assert.Contains(t, link, "?text=Hello!%20I%20would%20like")
	assert.Contains(t, link, "%0A%0ASubtotal%3A%20KSh%203%2C200")
}

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "a b", want: "a%20b"},
		{in: "line\nbreak", want: "line%0Abreak"},
		{in: "Hello!", want: "Hello!"},
		{in: "(Medium, Blue)", want: "(Medium%2C%20Blue)"},
		{in: "1+1=2", want: "1%2B1%3D2"},
		{in: "KSh 3,456", want: "KSh%203%2C456"},
		{in: "it's *new* ~ok_", want: "it's%20*new*%20~ok_"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := EncodeURIComponent(tt.in)
			assert.Equal(t, tt.want, got)

			decoded, err := url.QueryUnescape(got)
			require.NoError(t, err)
			assert.Equal(t, tt.in, decoded)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "0"},
		{in: "800", want: "800"},
		{in: "1000", want: "1,000"},
		{in: "3456", want: "3,456"},
		{in: "1234567", want: "1,234,567"},
		{in: "256.00", want: "256"},
		{in: "1234.5", want: "1,234.5"},
		{in: "99.999", want: "100"},
		{in: "-1500", want: "-1,500"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}
