package fiscal

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Tipos de movimiento de tesorería.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Estados de documento relevantes para la agregación.
const (
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Nombre del cubo de gastos sin categoría resoluble.
const UncategorizedLabel = "Sin categoría"

// InvoiceDoc es la vista mínima de una factura para la agregación: fecha,
// estado, subtotal (sin IVA) y la columna de impuestos tal como se persiste.
type InvoiceDoc struct {
	ID       string
	Date     time.Time
	Status   string
	Subtotal decimal.Decimal
	RawTaxes []byte // JSON de additional_taxes sin parsear
}

// TransactionDoc es la vista de un movimiento (ingreso o gasto). Amount se
// almacena siempre sin IVA (la base derivada por SplitGross).
type TransactionDoc struct {
	ID           string
	Date         time.Time
	Type         string // income | expense
	Amount       decimal.Decimal
	CategoryID   string
	CategoryName string
	RawTaxes     []byte
}

// SummaryTaxes agrupa las cifras de liquidación del resumen.
type SummaryTaxes struct {
	VAT          decimal.Decimal // igual a IVAALiquidar
	IncomeTax    decimal.Decimal // IRPF retenido en ingresos (informativo)
	IVAALiquidar decimal.Decimal // repercutido − soportado
}

// FiscalSummary es el resumen fiscal de un periodo. Se deriva siempre desde
// los documentos fuente en cada consulta, nunca desde totales acumulados, por
// lo que sobrevive a ediciones y borrados sin invalidar cachés.
//
// Invariantes: BaseImponible == Income − Expenses (ambos sin IVA) y
// Taxes.IVAALiquidar == IVARepercutido − IVASoportado.
type FiscalSummary struct {
	Income               decimal.Decimal
	Expenses             decimal.Decimal
	BaseImponible        decimal.Decimal
	IVARepercutido       decimal.Decimal
	IVASoportado         decimal.Decimal
	IRPFRetenidoIngresos decimal.Decimal
	TotalWithholdings    decimal.Decimal
	Taxes                SummaryTaxes
}

// AggregateOptions controla el modo de agregación.
//
// En modo tolerante (por defecto) los metadatos de impuestos mal formados de
// un documento se omiten con un aviso en el log: un documento corrupto no
// tumba el resumen entero del dashboard. En modo estricto (cifras destinadas
// a una declaración) cualquier dato coaccionado o por defecto devuelve
// ErrStrictAggregation en lugar de degradar a cero en silencio.
//
// FlatRateFallback habilita la estimación plana (FallbackVATRate /
// FallbackIRPFRate sobre el importe) SOLO para gastos sin ningún metadato de
// impuestos; nunca sustituye a metadatos parseables y el modo estricto lo
// rechaza de plano.
type AggregateOptions struct {
	Strict           bool
	FlatRateFallback bool
	FallbackVATRate  decimal.Decimal // ej. 21
	FallbackIRPFRate decimal.Decimal // ej. 15
	Logger           *zerolog.Logger // opcional; avisos del modo tolerante
}

// Aggregate calcula el resumen fiscal del periodo a partir del snapshot de
// movimientos y facturas. Ambas colecciones deben provenir de una misma
// lectura consistente; para informes oficiales el caller debe obtenerlas
// dentro de una única transacción de solo lectura.
//
// Reglas (sobre documentos cuya fecha cae en el periodo):
//   - Income: movimientos income + subtotal (sin IVA) de facturas pagadas.
//   - Expenses: movimientos expense (almacenados sin IVA).
//   - IVARepercutido: aportaciones de impuestos IVA de facturas pagadas.
//   - IVASoportado: aportaciones IVA de los metadatos de los gastos.
//   - IRPFRetenidoIngresos: aportaciones IRPF negativas de las facturas del
//     periodo (no canceladas), con el signo invertido.
//   - TotalWithholdings: análogo sobre los gastos (retenciones a proveedores).
func Aggregate(transactions []TransactionDoc, invoices []InvoiceDoc, period Period, opts AggregateOptions) (FiscalSummary, error) {
	if opts.Strict && opts.FlatRateFallback {
		return FiscalSummary{}, fmt.Errorf("%w: la estimación plana no está permitida en modo estricto", ErrStrictAggregation)
	}

	var s FiscalSummary

	for _, inv := range invoices {
		if !period.Contains(inv.Date) || inv.Status == StatusCancelled {
			continue
		}
		taxes, err := parseDocTaxes(inv.RawTaxes, opts, "invoice", inv.ID)
		if err != nil {
			return FiscalSummary{}, err
		}
		for _, tax := range taxes {
			c := tax.Contribution(inv.Subtotal)
			if tax.IsVAT() && inv.Status == StatusPaid {
				s.IVARepercutido = s.IVARepercutido.Add(c)
			}
			// La retención se guarda como aportación negativa; se expone en
			// positivo (importe retenido), también en ambas direcciones para
			// los modelos informativos.
			if tax.IsIRPF() && c.IsNegative() {
				s.IRPFRetenidoIngresos = s.IRPFRetenidoIngresos.Add(c.Neg())
			}
		}
		if inv.Status == StatusPaid {
			// El subtotal sin IVA computa como ingreso; usar el total bruto
			// duplicaría el IVA como facturación.
			s.Income = s.Income.Add(inv.Subtotal)
		}
	}

	for _, tx := range transactions {
		if !period.Contains(tx.Date) {
			continue
		}
		switch tx.Type {
		case TransactionIncome:
			s.Income = s.Income.Add(tx.Amount)
		case TransactionExpense:
			s.Expenses = s.Expenses.Add(tx.Amount)

			taxes, err := parseDocTaxes(tx.RawTaxes, opts, "transaction", tx.ID)
			if err != nil {
				return FiscalSummary{}, err
			}
			if len(taxes) == 0 && opts.FlatRateFallback && noTaxMetadata(tx.RawTaxes) {
				// Estimación plana documentada: solo ante ausencia total de
				// metadatos, nunca como camino principal.
				hundred := decimal.NewFromInt(100)
				s.IVASoportado = s.IVASoportado.Add(tx.Amount.Mul(opts.FallbackVATRate).Div(hundred))
				s.TotalWithholdings = s.TotalWithholdings.Add(tx.Amount.Mul(opts.FallbackIRPFRate).Div(hundred))
				continue
			}
			for _, tax := range taxes {
				c := tax.Contribution(tx.Amount)
				if tax.IsVAT() {
					s.IVASoportado = s.IVASoportado.Add(c)
				}
				if tax.IsIRPF() && c.IsNegative() {
					s.TotalWithholdings = s.TotalWithholdings.Add(c.Neg())
				}
			}
		}
	}

	s.Income = s.Income.Round(2)
	s.Expenses = s.Expenses.Round(2)
	s.BaseImponible = s.Income.Sub(s.Expenses).Round(2)
	s.IVARepercutido = s.IVARepercutido.Round(2)
	s.IVASoportado = s.IVASoportado.Round(2)
	s.IRPFRetenidoIngresos = s.IRPFRetenidoIngresos.Round(2)
	s.TotalWithholdings = s.TotalWithholdings.Round(2)
	s.Taxes = SummaryTaxes{
		VAT:          s.IVARepercutido.Sub(s.IVASoportado).Round(2),
		IncomeTax:    s.IRPFRetenidoIngresos,
		IVAALiquidar: s.IVARepercutido.Sub(s.IVASoportado).Round(2),
	}
	return s, nil
}

// parseDocTaxes aplica el parser que corresponde al modo. En tolerante, un
// documento mal formado pierde sus impuestos (no sus importes) con un aviso.
func parseDocTaxes(raw []byte, opts AggregateOptions, kind, id string) ([]AdditionalTax, error) {
	if opts.Strict {
		taxes, err := ParseAdditionalTaxes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s: %v", ErrStrictAggregation, kind, id, err)
		}
		return taxes, nil
	}
	taxes, err := parseTaxes(raw, true)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Warn().Str(kind, id).Err(err).
				Msg("metadatos de impuestos mal formados; se omiten en el resumen")
		}
		return CoerceAdditionalTaxes(raw), nil
	}
	return taxes, nil
}

// noTaxMetadata distingue "sin columna / null" de "array vacío legítimo":
// la estimación plana solo aplica al primer caso... y también al array vacío,
// que es como los formularios antiguos persistían la ausencia de metadatos.
func noTaxMetadata(raw []byte) bool {
	s := string(raw)
	return s == "" || s == "null" || s == "[]"
}

// CategoryBreakdown es un grupo del desglose de gastos por categoría.
type CategoryBreakdown struct {
	CategoryID   string
	CategoryName string
	Amount       decimal.Decimal
	Count        int
	Percentage   decimal.Decimal // Amount / totalGastos × 100
}

// BreakdownByCategory agrupa los gastos del periodo por categoría (por ID,
// con fallback al nombre y después al cubo "Sin categoría"), suma importes y
// número de movimientos, calcula el porcentaje sobre el total y ordena de
// mayor a menor importe.
func BreakdownByCategory(transactions []TransactionDoc, period Period) []CategoryBreakdown {
	type group struct {
		id, name string
		amount   decimal.Decimal
		count    int
	}
	groups := make(map[string]*group)
	var total decimal.Decimal

	for _, tx := range transactions {
		if tx.Type != TransactionExpense || !period.Contains(tx.Date) {
			continue
		}
		key := tx.CategoryID
		name := tx.CategoryName
		if key == "" {
			key = name
		}
		if key == "" {
			key = UncategorizedLabel
			name = UncategorizedLabel
		}
		if name == "" {
			name = key
		}
		g, ok := groups[key]
		if !ok {
			g = &group{id: tx.CategoryID, name: name}
			groups[key] = g
		}
		g.amount = g.amount.Add(tx.Amount)
		g.count++
		total = total.Add(tx.Amount)
	}

	result := make([]CategoryBreakdown, 0, len(groups))
	hundred := decimal.NewFromInt(100)
	for _, g := range groups {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = g.amount.Div(total).Mul(hundred).Round(2)
		}
		result = append(result, CategoryBreakdown{
			CategoryID:   g.id,
			CategoryName: g.name,
			Amount:       g.amount.Round(2),
			Count:        g.count,
			Percentage:   pct,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Amount.Equal(result[j].Amount) {
			return result[i].Amount.GreaterThan(result[j].Amount)
		}
		return result[i].CategoryName < result[j].CategoryName
	})
	return result
}
