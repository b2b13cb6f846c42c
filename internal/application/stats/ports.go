package stats

import (
	"context"

	"github.com/facturio/autonomo-api/internal/domain/repository"
)

// ReportTxRunner ejecuta una función con repos ligados a una única
// transacción de solo lectura. El informe estricto lee facturas y
// movimientos sobre la misma instantánea de la base de datos.
type ReportTxRunner interface {
	RunReport(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		txRepo repository.TransactionRepository,
	) error) error
}
