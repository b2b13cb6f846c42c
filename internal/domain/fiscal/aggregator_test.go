package fiscal_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/autonomo-api/internal/domain/fiscal"
)

func mustPeriod(t *testing.T, token string) fiscal.Period {
	t.Helper()
	p, err := fiscal.ParsePeriod(token)
	require.NoError(t, err)
	return p
}

func taxJSON() []byte {
	return []byte(`[{"name":"IVA","amount":21,"isPercentage":true},{"name":"IRPF","amount":-15,"isPercentage":true}]`)
}

// TestAggregate_EjemploReferencia reproduce el escenario de referencia del
// resumen fiscal: una factura pagada de base 1000 con IVA 21% e IRPF -15%, y
// un gasto de base 100 con IVA 21%.
func TestAggregate_EjemploReferencia(t *testing.T) {
	period := mustPeriod(t, "2025-all")

	invoices := []fiscal.InvoiceDoc{{
		ID:       "inv-1",
		Date:     date(2025, 3, 10),
		Status:   fiscal.StatusPaid,
		Subtotal: d("1000"),
		RawTaxes: taxJSON(),
	}}
	transactions := []fiscal.TransactionDoc{{
		ID:       "tx-1",
		Date:     date(2025, 5, 2),
		Type:     fiscal.TransactionExpense,
		Amount:   d("100"),
		RawTaxes: []byte(`[{"name":"IVA","amount":21,"isPercentage":true}]`),
	}}

	s, err := fiscal.Aggregate(transactions, invoices, period, fiscal.AggregateOptions{})
	require.NoError(t, err)

	assert.True(t, s.Income.Equal(d("1000")), "income: %s", s.Income)
	assert.True(t, s.Expenses.Equal(d("100")), "expenses: %s", s.Expenses)
	assert.True(t, s.IVARepercutido.Equal(d("210")), "ivaRepercutido: %s", s.IVARepercutido)
	assert.True(t, s.IVASoportado.Equal(d("21")), "ivaSoportado: %s", s.IVASoportado)
	assert.True(t, s.IRPFRetenidoIngresos.Equal(d("150")), "irpfRetenido: %s", s.IRPFRetenidoIngresos)
	assert.True(t, s.BaseImponible.Equal(d("900")), "baseImponible: %s", s.BaseImponible)
	assert.True(t, s.Taxes.IVAALiquidar.Equal(d("189")), "ivaALiquidar: %s", s.Taxes.IVAALiquidar)
	assert.True(t, s.Taxes.VAT.Equal(s.Taxes.IVAALiquidar))
	assert.True(t, s.Taxes.IncomeTax.Equal(s.IRPFRetenidoIngresos))
}

// TestAggregate_Invariantes: baseImponible == income − expenses y
// ivaALiquidar == repercutido − soportado, por construcción.
func TestAggregate_Invariantes(t *testing.T) {
	period := mustPeriod(t, "2025-q1")
	transactions := []fiscal.TransactionDoc{
		{ID: "a", Date: date(2025, 1, 5), Type: fiscal.TransactionIncome, Amount: d("350.40")},
		{ID: "b", Date: date(2025, 2, 9), Type: fiscal.TransactionExpense, Amount: d("99.95"), RawTaxes: []byte(`[{"name":"IVA","amount":10,"isPercentage":true}]`)},
		{ID: "c", Date: date(2025, 3, 30), Type: fiscal.TransactionExpense, Amount: d("12.10")},
	}

	s, err := fiscal.Aggregate(transactions, nil, period, fiscal.AggregateOptions{})
	require.NoError(t, err)

	assert.True(t, s.BaseImponible.Equal(s.Income.Sub(s.Expenses)))
	assert.True(t, s.Taxes.IVAALiquidar.Equal(s.IVARepercutido.Sub(s.IVASoportado)))
}

func TestAggregate_FiltraPorPeriodo(t *testing.T) {
	period := mustPeriod(t, "2025-q2")

	invoices := []fiscal.InvoiceDoc{
		{ID: "dentro", Date: date(2025, 4, 1), Status: fiscal.StatusPaid, Subtotal: d("100"), RawTaxes: []byte("[]")},
		{ID: "fuera-antes", Date: date(2025, 3, 31), Status: fiscal.StatusPaid, Subtotal: d("999"), RawTaxes: []byte("[]")},
		{ID: "fuera-borde", Date: date(2025, 7, 1), Status: fiscal.StatusPaid, Subtotal: d("999"), RawTaxes: []byte("[]")},
	}

	s, err := fiscal.Aggregate(nil, invoices, period, fiscal.AggregateOptions{})
	require.NoError(t, err)
	assert.True(t, s.Income.Equal(d("100")), "solo la factura del periodo computa (intervalo semiabierto)")
}

func TestAggregate_EstadosDeFactura(t *testing.T) {
	period := mustPeriod(t, "2025-all")
	invoices := []fiscal.InvoiceDoc{
		{ID: "pagada", Date: date(2025, 2, 1), Status: fiscal.StatusPaid, Subtotal: d("1000"), RawTaxes: taxJSON()},
		{ID: "emitida", Date: date(2025, 2, 2), Status: "sent", Subtotal: d("500"), RawTaxes: taxJSON()},
		{ID: "anulada", Date: date(2025, 2, 3), Status: fiscal.StatusCancelled, Subtotal: d("400"), RawTaxes: taxJSON()},
	}

	s, err := fiscal.Aggregate(nil, invoices, period, fiscal.AggregateOptions{})
	require.NoError(t, err)

	// Solo la pagada computa como ingreso e IVA repercutido.
	assert.True(t, s.Income.Equal(d("1000")))
	assert.True(t, s.IVARepercutido.Equal(d("210")))
	// La retención se informa sobre las facturas del periodo no anuladas.
	assert.True(t, s.IRPFRetenidoIngresos.Equal(d("225")), "irpf: %s", s.IRPFRetenidoIngresos)
}

// TestAggregate_MetadatosRotos_Tolerante: un documento con impuestos mal
// formados pierde sus impuestos (con aviso) pero conserva su importe; el
// resumen del dashboard no se cae entero.
func TestAggregate_MetadatosRotos_Tolerante(t *testing.T) {
	period := mustPeriod(t, "2025-all")
	logger := zerolog.Nop()

	transactions := []fiscal.TransactionDoc{
		{ID: "roto", Date: date(2025, 1, 1), Type: fiscal.TransactionExpense, Amount: d("100"), RawTaxes: []byte(`[{`)},
		{ID: "sano", Date: date(2025, 1, 2), Type: fiscal.TransactionExpense, Amount: d("50"), RawTaxes: []byte(`[{"name":"IVA","amount":21,"isPercentage":true}]`)},
	}

	s, err := fiscal.Aggregate(transactions, nil, period, fiscal.AggregateOptions{Logger: &logger})
	require.NoError(t, err)

	assert.True(t, s.Expenses.Equal(d("150")), "el importe del documento roto se conserva")
	assert.True(t, s.IVASoportado.Equal(d("10.5")), "solo el documento sano aporta IVA")
}

// TestAggregate_MetadatosRotos_Estricto: el paso previo a una declaración
// falla alto ante cualquier dato coaccionado.
func TestAggregate_MetadatosRotos_Estricto(t *testing.T) {
	period := mustPeriod(t, "2025-all")
	transactions := []fiscal.TransactionDoc{
		{ID: "roto", Date: date(2025, 1, 1), Type: fiscal.TransactionExpense, Amount: d("100"), RawTaxes: []byte(`[{`)},
	}

	_, err := fiscal.Aggregate(transactions, nil, period, fiscal.AggregateOptions{Strict: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, fiscal.ErrStrictAggregation)
}

func TestAggregate_EstimacionPlana(t *testing.T) {
	period := mustPeriod(t, "2025-all")
	opts := fiscal.AggregateOptions{
		FlatRateFallback: true,
		FallbackVATRate:  d("21"),
		FallbackIRPFRate: d("15"),
	}

	transactions := []fiscal.TransactionDoc{
		// Sin metadatos: aplica la estimación plana.
		{ID: "sin-meta", Date: date(2025, 1, 1), Type: fiscal.TransactionExpense, Amount: d("100")},
		// Con metadatos: los metadatos mandan, nunca la estimación.
		{ID: "con-meta", Date: date(2025, 1, 2), Type: fiscal.TransactionExpense, Amount: d("100"), RawTaxes: []byte(`[{"name":"IVA","amount":10,"isPercentage":true}]`)},
	}

	s, err := fiscal.Aggregate(transactions, nil, period, opts)
	require.NoError(t, err)

	assert.True(t, s.IVASoportado.Equal(d("31")), "21 estimado + 10 de metadatos: %s", s.IVASoportado)
	assert.True(t, s.TotalWithholdings.Equal(d("15")))

	// El modo estricto rechaza la estimación de plano.
	opts.Strict = true
	_, err = fiscal.Aggregate(transactions, nil, period, opts)
	assert.ErrorIs(t, err, fiscal.ErrStrictAggregation)
}

func TestAggregate_SinDocumentos(t *testing.T) {
	s, err := fiscal.Aggregate(nil, nil, mustPeriod(t, "2025-all"), fiscal.AggregateOptions{})
	require.NoError(t, err)
	assert.True(t, s.Income.IsZero())
	assert.True(t, s.BaseImponible.IsZero())
	assert.True(t, s.Taxes.IVAALiquidar.IsZero())
}

func TestBreakdownByCategory(t *testing.T) {
	period := mustPeriod(t, "2025-all")
	transactions := []fiscal.TransactionDoc{
		{ID: "1", Date: date(2025, 1, 1), Type: fiscal.TransactionExpense, Amount: d("300"), CategoryID: "cat-a", CategoryName: "Material"},
		{ID: "2", Date: date(2025, 2, 1), Type: fiscal.TransactionExpense, Amount: d("100"), CategoryID: "cat-a", CategoryName: "Material"},
		{ID: "3", Date: date(2025, 3, 1), Type: fiscal.TransactionExpense, Amount: d("80"), CategoryName: "Dietas"}, // sin ID: agrupa por nombre
		{ID: "4", Date: date(2025, 4, 1), Type: fiscal.TransactionExpense, Amount: d("20")},                        // sin nada: Sin categoría
		{ID: "5", Date: date(2025, 5, 1), Type: fiscal.TransactionIncome, Amount: d("999")},                       // los ingresos no entran
	}

	groups := fiscal.BreakdownByCategory(transactions, period)
	require.Len(t, groups, 3)

	assert.Equal(t, "Material", groups[0].CategoryName)
	assert.True(t, groups[0].Amount.Equal(d("400")))
	assert.Equal(t, 2, groups[0].Count)
	assert.True(t, groups[0].Percentage.Equal(d("80")), "400/500: %s", groups[0].Percentage)

	assert.Equal(t, "Dietas", groups[1].CategoryName)
	assert.Equal(t, fiscal.UncategorizedLabel, groups[2].CategoryName)

	// Los porcentajes suman 100 (tolerancia de redondeo ≤ 0.1).
	var sum decimal.Decimal
	for _, g := range groups {
		sum = sum.Add(g.Percentage)
	}
	assert.True(t, sum.Sub(d("100")).Abs().LessThanOrEqual(d("0.1")), "suma de porcentajes: %s", sum)
}

func TestBreakdownByCategory_SinGastos(t *testing.T) {
	groups := fiscal.BreakdownByCategory(nil, mustPeriod(t, "2025-all"))
	assert.Empty(t, groups)
}

