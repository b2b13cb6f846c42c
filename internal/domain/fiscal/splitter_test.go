package fiscal_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/autonomo-api/internal/domain/fiscal"
)

func TestSplitGross_CasoTipico(t *testing.T) {
	// 121.00 con IVA 21% → base 100.00, IVA 21.00
	got, err := fiscal.SplitGross(d("121.00"), d("21"), nil)
	require.NoError(t, err)

	assert.True(t, got.Base.Equal(d("100.00")), "base: %s", got.Base)
	assert.True(t, got.VATAmount.Equal(d("21.00")), "iva: %s", got.VATAmount)
	assert.True(t, got.IRPFAmount.IsZero())
}

func TestSplitGross_ConIRPF(t *testing.T) {
	irpf := d("15")
	got, err := fiscal.SplitGross(d("121.00"), d("21"), &irpf)
	require.NoError(t, err)

	assert.True(t, got.Base.Equal(d("100.00")))
	assert.True(t, got.IRPFAmount.Equal(d("15.00")))
}

// TestSplitGross_RoundTrip: recomponer base*(1+iva/100) debe reproducir el
// bruto con una tolerancia de ±0.01 (garantía de ida y vuelta, no igualdad
// exacta).
func TestSplitGross_RoundTrip(t *testing.T) {
	cases := []struct{ gross, rate string }{
		{"121.00", "21"},
		{"100.00", "21"},
		{"59.99", "10"},
		{"1.04", "4"},
		{"1234.56", "21"},
		{"0.03", "21"},
	}
	tolerance := d("0.01")
	hundred := decimal.NewFromInt(100)

	for _, c := range cases {
		gross, rate := d(c.gross), d(c.rate)
		got, err := fiscal.SplitGross(gross, rate, nil)
		require.NoError(t, err, "gross=%s rate=%s", c.gross, c.rate)

		recomposed := got.Base.Mul(decimal.NewFromInt(1).Add(rate.Div(hundred))).Round(2)
		diff := recomposed.Sub(gross).Abs()
		assert.True(t, diff.LessThanOrEqual(tolerance),
			"gross=%s rate=%s: recompuesto %s difiere en %s", c.gross, c.rate, recomposed, diff)

		sum := got.Base.Add(got.VATAmount).Round(2)
		assert.True(t, sum.Sub(gross).Abs().LessThanOrEqual(tolerance),
			"base+iva=%s debe aproximar el bruto %s", sum, gross)
	}
}

func TestSplitGross_IVACero(t *testing.T) {
	got, err := fiscal.SplitGross(d("50"), decimal.Zero, nil)
	require.NoError(t, err)
	assert.True(t, got.Base.Equal(d("50")))
	assert.True(t, got.VATAmount.IsZero())
}

// TestSplitGross_TipoInvalido: un IVA ≤ -100 anula el denominador y debe
// rechazarse como error de dominio, nunca dividir ni devolver NaN.
func TestSplitGross_TipoInvalido(t *testing.T) {
	for _, rate := range []string{"-100", "-150"} {
		_, err := fiscal.SplitGross(d("121.00"), d(rate), nil)
		require.Error(t, err, "rate=%s", rate)
		assert.ErrorIs(t, err, fiscal.ErrInvalidTaxRate)
	}
}
