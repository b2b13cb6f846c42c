// Package fiscal contiene el motor de cálculo fiscal del sistema: totales de
// documento (subtotal / impuestos / total), desglose de importes brutos en
// base + IVA + IRPF, validación consultiva de numeración de facturas,
// resolución de periodos fiscales y agregación de resúmenes (IVA a liquidar,
// retenciones IRPF, base imponible).
//
// Todo el paquete es cómputo puro y síncrono: sin I/O, sin goroutines y sin
// estado interno. La consistencia de lectura (snapshot de facturas y
// movimientos) es responsabilidad del caller.
package fiscal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores del motor fiscal.
var (
	ErrInvalidTaxes      = errors.New("impuestos adicionales mal formados")
	ErrInvalidTaxRate    = errors.New("tipo impositivo inválido")
	ErrInvalidPeriod     = errors.New("periodo fiscal inválido")
	ErrStrictAggregation = errors.New("agregación estricta: dato coaccionado o por defecto")
)

// AdditionalTax es un impuesto adicional con nombre aplicado sobre el subtotal
// del documento. Amount positivo incrementa el total (ej. IVA +21), negativo lo
// reduce (ej. retención IRPF -15). Si IsPercentage es true, Amount es un
// porcentaje del subtotal; si no, un importe fijo en EUR.
type AdditionalTax struct {
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	IsPercentage bool            `json:"isPercentage"`
}

// Contribution devuelve la aportación efectiva del impuesto al total:
// subtotal*Amount/100 si es porcentual, Amount si es importe fijo.
func (t AdditionalTax) Contribution(subtotal decimal.Decimal) decimal.Decimal {
	if t.IsPercentage {
		return subtotal.Mul(t.Amount).Div(decimal.NewFromInt(100))
	}
	return t.Amount
}

// IsVAT clasifica el impuesto como IVA por su nombre ("IVA", "VAT").
func (t AdditionalTax) IsVAT() bool {
	name := strings.ToLower(t.Name)
	return strings.Contains(name, "iva") || strings.Contains(name, "vat")
}

// IsIRPF clasifica el impuesto como retención IRPF por su nombre
// ("IRPF", "Retención ...").
func (t AdditionalTax) IsIRPF() bool {
	name := strings.ToLower(t.Name)
	return strings.Contains(name, "irpf") || strings.Contains(name, "retenc")
}

// rawTax permite decodificar Amount tanto numérico como string ("21" / 21),
// formatos que conviven en la columna additional_taxes.
type rawTax struct {
	Name         string          `json:"name"`
	Amount       json.RawMessage `json:"amount"`
	IsPercentage bool            `json:"isPercentage"`
}

// ParseAdditionalTaxes decodifica la columna additional_taxes en modo estricto.
//
// Tolera las variantes de encoding que llegan de la capa de persistencia:
// null/ausente (⇒ lista vacía), array JSON, o el array re-encodeado como
// string JSON ("[{...}]" entre comillas). Cualquier otra irregularidad
// (entrada sin nombre, importe no numérico) devuelve ErrInvalidTaxes: este es
// el parser que usan los caminos de declaración oficial.
func ParseAdditionalTaxes(raw []byte) ([]AdditionalTax, error) {
	return parseTaxes(raw, true)
}

// CoerceAdditionalTaxes decodifica en modo tolerante (dashboards): las
// entradas sin nombre se descartan, los importes no numéricos se coaccionan a
// 0 y un JSON irrecuperable produce lista vacía. Nunca devuelve error: un
// NaN o un string basura jamás debe propagarse a un total persistido.
func CoerceAdditionalTaxes(raw []byte) []AdditionalTax {
	taxes, _ := parseTaxes(raw, false)
	return taxes
}

// EncodeAdditionalTaxes serializa la lista para la columna JSON del documento.
// Lista vacía o nil se persiste como array vacío, nunca como null.
func EncodeAdditionalTaxes(taxes []AdditionalTax) []byte {
	if len(taxes) == 0 {
		return []byte("[]")
	}
	b, err := json.Marshal(taxes)
	if err != nil {
		return []byte("[]")
	}
	return b
}

func parseTaxes(raw []byte, strict bool) ([]AdditionalTax, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	// Doble encoding: el array llega como string JSON. Se desenvuelve una vez.
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			if strict {
				return nil, fmt.Errorf("%w: string JSON inválido: %v", ErrInvalidTaxes, err)
			}
			return nil, nil
		}
		trimmed = strings.TrimSpace(inner)
		if trimmed == "" || trimmed == "null" {
			return nil, nil
		}
	}

	var entries []rawTax
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		if strict {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTaxes, err)
		}
		return nil, nil
	}

	taxes := make([]AdditionalTax, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			if strict {
				return nil, fmt.Errorf("%w: impuesto #%d sin nombre", ErrInvalidTaxes, i)
			}
			continue
		}
		amount, err := parseAmount(e.Amount)
		if err != nil {
			if strict {
				return nil, fmt.Errorf("%w: impuesto %q: importe %q no numérico", ErrInvalidTaxes, e.Name, string(e.Amount))
			}
			amount = decimal.Zero // coacción documentada: sin efecto fiscal
		}
		taxes = append(taxes, AdditionalTax{
			Name:         strings.TrimSpace(e.Name),
			Amount:       amount,
			IsPercentage: e.IsPercentage,
		})
	}
	return taxes, nil
}

// parseAmount acepta el importe como número JSON o como string numérico.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero, nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
