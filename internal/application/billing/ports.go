package billing

import (
	"context"

	"github.com/facturio/autonomo-api/internal/domain/entity"
	"github.com/facturio/autonomo-api/internal/domain/fiscal"
	"github.com/facturio/autonomo-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye
// los repos de facturación. Se usa en la conversión presupuesto → factura:
// o se crean la factura y el cambio de estado, o no se crea nada.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		quoteRepo repository.QuoteRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación gráfica (PDF) de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		inv *entity.Invoice,
		issuer *entity.User,
		client *entity.Client,
		lines []*entity.InvoiceLine,
		taxes []fiscal.AdditionalTax,
	) ([]byte, error)
}

// FacturaeBuilder construye el XML Facturae 3.2.2 de una factura emitida.
type FacturaeBuilder interface {
	Build(
		inv *entity.Invoice,
		issuer *entity.User,
		client *entity.Client,
		lines []*entity.InvoiceLine,
		taxes []fiscal.AdditionalTax,
	) ([]byte, error)
}
