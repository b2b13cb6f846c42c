package fiscal_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/autonomo-api/internal/domain/fiscal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(qty, price string) fiscal.LineItem {
	return fiscal.LineItem{Quantity: d(qty), UnitPrice: d(price)}
}

func pct(name, amount string) fiscal.AdditionalTax {
	return fiscal.AdditionalTax{Name: name, Amount: d(amount), IsPercentage: true}
}

func fixed(name, amount string) fiscal.AdditionalTax {
	return fiscal.AdditionalTax{Name: name, Amount: d(amount)}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []fiscal.LineItem
		taxes        []fiscal.AdditionalTax
		wantSubtotal string
		wantTax      string
		wantTotal    string
	}{
		{
			name:         "documento vacío",
			wantSubtotal: "0", wantTax: "0", wantTotal: "0",
		},
		{
			name:         "una línea con IVA 21",
			items:        []fiscal.LineItem{line("1", "100")},
			taxes:        []fiscal.AdditionalTax{pct("IVA", "21")},
			wantSubtotal: "100", wantTax: "21", wantTotal: "121",
		},
		{
			name:         "varias líneas sin impuestos",
			items:        []fiscal.LineItem{line("8", "120"), line("2", "100"), line("1", "500")},
			wantSubtotal: "1660", wantTax: "0", wantTotal: "1660",
		},
		{
			name:         "IVA 21 más retención IRPF -15",
			items:        []fiscal.LineItem{line("1", "1000")},
			taxes:        []fiscal.AdditionalTax{pct("IVA", "21"), pct("IRPF", "-15")},
			wantSubtotal: "1000", wantTax: "60", wantTotal: "1060",
		},
		{
			name:         "solo retención: el total queda bajo el subtotal",
			items:        []fiscal.LineItem{line("1", "1000")},
			taxes:        []fiscal.AdditionalTax{pct("IRPF", "-15")},
			wantSubtotal: "1000", wantTax: "-150", wantTotal: "850",
		},
		{
			name:         "importe fijo negativo y positivo",
			items:        []fiscal.LineItem{line("2", "50")},
			taxes:        []fiscal.AdditionalTax{fixed("Suplido", "10"), fixed("Descuento pactado", "-5")},
			wantSubtotal: "100", wantTax: "5", wantTotal: "105",
		},
		{
			name:         "redondeo único a la salida",
			items:        []fiscal.LineItem{line("3", "33.333")},
			taxes:        []fiscal.AdditionalTax{pct("IVA", "21")},
			wantSubtotal: "100", wantTax: "21", wantTotal: "121",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fiscal.ComputeTotals(tt.items, tt.taxes)
			assert.True(t, got.Subtotal.Equal(d(tt.wantSubtotal)), "subtotal: %s", got.Subtotal)
			assert.True(t, got.TaxTotal.Equal(d(tt.wantTax)), "taxTotal: %s", got.TaxTotal)
			assert.True(t, got.Total.Equal(d(tt.wantTotal)), "total: %s", got.Total)
		})
	}
}

// TestComputeTotals_Aditividad verifica el invariante estructural
// total == subtotal + taxTotal para combinaciones variadas.
func TestComputeTotals_Aditividad(t *testing.T) {
	cases := [][]fiscal.AdditionalTax{
		nil,
		{pct("IVA", "21")},
		{pct("IVA", "10"), pct("IRPF", "-15")},
		{fixed("Tasa fija", "3.07"), pct("IVA", "4")},
	}
	items := []fiscal.LineItem{line("3", "19.99"), line("1.5", "7.33")}

	for _, taxes := range cases {
		got := fiscal.ComputeTotals(items, taxes)
		assert.True(t, got.Total.Equal(got.Subtotal.Add(got.TaxTotal)),
			"total (%s) debe ser subtotal (%s) + impuestos (%s)", got.Total, got.Subtotal, got.TaxTotal)
	}
}

// TestComputeTotals_Idempotente: misma entrada, misma salida; el cálculo no
// guarda estado entre invocaciones.
func TestComputeTotals_Idempotente(t *testing.T) {
	items := []fiscal.LineItem{line("2", "49.95")}
	taxes := []fiscal.AdditionalTax{pct("IVA", "21"), pct("IRPF", "-7")}

	first := fiscal.ComputeTotals(items, taxes)
	second := fiscal.ComputeTotals(items, taxes)

	require.True(t, first.Subtotal.Equal(second.Subtotal))
	require.True(t, first.TaxTotal.Equal(second.TaxTotal))
	require.True(t, first.Total.Equal(second.Total))
}

func TestComputeTotalsFromBase(t *testing.T) {
	// Formularios simplificados: la base la introduce el usuario directamente.
	got := fiscal.ComputeTotalsFromBase(d("1000"), []fiscal.AdditionalTax{pct("IVA", "21"), pct("IRPF", "-15")})
	assert.True(t, got.Subtotal.Equal(d("1000")))
	assert.True(t, got.TaxTotal.Equal(d("60")))
	assert.True(t, got.Total.Equal(d("1060")))
}

func TestAdditionalTax_Contribution(t *testing.T) {
	subtotal := d("1000")

	irpf := pct("IRPF", "-15")
	assert.True(t, irpf.Contribution(subtotal).Equal(d("-150")),
		"IRPF -15%% sobre 1000 debe aportar -150")

	fija := fixed("Tasa", "40")
	assert.True(t, fija.Contribution(subtotal).Equal(d("40")),
		"un importe fijo no depende del subtotal")
	assert.True(t, fija.Contribution(decimal.Zero).Equal(d("40")))
}
