package fiscal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GrossSplit es el desglose de un importe bruto (IVA incluido) en base
// imponible y componentes impositivos.
type GrossSplit struct {
	Base       decimal.Decimal
	VATAmount  decimal.Decimal
	IRPFAmount decimal.Decimal
}

// SplitGross deriva la base imponible y los impuestos a partir de un importe
// total con IVA incluido. Se usa al registrar un gasto desde el total del
// ticket o factura del proveedor.
//
//	base = round2(gross / (1 + vatRate/100))
//	iva  = round2(base * vatRate / 100)
//	irpf = round2(base * irpfRate / 100)   (0 si irpfRate es nil)
//
// Por redondeo, base+iva reproduce gross con una tolerancia de ±0.01; el
// caller no debe asumir igualdad exacta. Un vatRate ≤ -100 anula o invierte
// el denominador y se rechaza como ErrInvalidTaxRate.
func SplitGross(gross, vatRatePercent decimal.Decimal, irpfRatePercent *decimal.Decimal) (GrossSplit, error) {
	hundred := decimal.NewFromInt(100)
	denom := decimal.NewFromInt(1).Add(vatRatePercent.Div(hundred))
	if denom.LessThanOrEqual(decimal.Zero) {
		return GrossSplit{}, fmt.Errorf("%w: IVA %s%%", ErrInvalidTaxRate, vatRatePercent.String())
	}

	base := gross.Div(denom).Round(2)
	vat := base.Mul(vatRatePercent).Div(hundred).Round(2)
	irpf := decimal.Zero
	if irpfRatePercent != nil {
		irpf = base.Mul(*irpfRatePercent).Div(hundred).Round(2)
	}
	return GrossSplit{Base: base, VATAmount: vat, IRPFAmount: irpf}, nil
}
