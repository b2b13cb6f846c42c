package fiscal

import "github.com/shopspring/decimal"

// LineItem es una línea de documento (factura o presupuesto) a efectos de
// cálculo. El IVA no se aplica por línea: los impuestos del documento van en
// AdditionalTax sobre el subtotal.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// Subtotal de la línea: cantidad × precio unitario (sin redondear; el
// redondeo a 2 decimales se hace una sola vez al emitir los totales).
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// DocumentTotals es la proyección derivada de un documento. Nunca se edita a
// mano: siempre se recalcula completa ante cualquier mutación de líneas o
// impuestos, y cumple por construcción Total == Subtotal + TaxTotal.
type DocumentTotals struct {
	Subtotal decimal.Decimal
	TaxTotal decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals calcula los totales de un documento con líneas.
//
// Subtotal = round2(Σ cantidad×precio); cada impuesto aporta
// subtotal×amount/100 (porcentual) o amount (fijo); TaxTotal = round2(Σ
// aportaciones) y Total = round2(Subtotal + TaxTotal). El redondeo se aplica
// una única vez por cifra de salida para que ediciones repetidas no acumulen
// error. Con retenciones altas el Total puede quedar por debajo del Subtotal:
// no se trunca a cero.
func ComputeTotals(items []LineItem, taxes []AdditionalTax) DocumentTotals {
	var subtotal decimal.Decimal
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal())
	}
	return ComputeTotalsFromBase(subtotal.Round(2), taxes)
}

// ComputeTotalsFromBase calcula los totales para los formularios
// simplificados de importe único, donde el subtotal es la base introducida
// por el usuario en lugar de la suma de líneas.
func ComputeTotalsFromBase(base decimal.Decimal, taxes []AdditionalTax) DocumentTotals {
	subtotal := base.Round(2)
	var taxTotal decimal.Decimal
	for _, tax := range taxes {
		taxTotal = taxTotal.Add(tax.Contribution(subtotal))
	}
	taxTotal = taxTotal.Round(2)
	return DocumentTotals{
		Subtotal: subtotal,
		TaxTotal: taxTotal,
		Total:    subtotal.Add(taxTotal).Round(2),
	}
}
