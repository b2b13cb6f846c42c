// Package stats contiene los casos de uso de agregación fiscal: el resumen
// del dashboard, el informe para presentación y el desglose por categorías.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/facturio/autonomo-api/internal/application/dto"
	"github.com/facturio/autonomo-api/internal/domain/entity"
	"github.com/facturio/autonomo-api/internal/domain/fiscal"
	"github.com/facturio/autonomo-api/internal/domain/repository"
)

// FallbackConfig tipos planos a aplicar cuando un documento no trae
// metadatos de impuestos. Solo actúa en el modo tolerante del dashboard.
type FallbackConfig struct {
	Enabled  bool
	VATRate  decimal.Decimal // ej. 21
	IRPFRate decimal.Decimal // ej. 15
}

// StatsUseCase agrega facturas y movimientos en resúmenes fiscales.
//
// Dos modos con garantías distintas:
//   - dashboard: tolerante, un documento corrupto se salta con un aviso.
//   - informe: estricto y transaccional, cualquier dato dudoso es error.
type StatsUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	txRepo       repository.TransactionRepository
	reportRunner ReportTxRunner
	fallback     FallbackConfig
	log          zerolog.Logger
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(
	invoiceRepo repository.InvoiceRepository,
	txRepo repository.TransactionRepository,
	reportRunner ReportTxRunner,
	fallback FallbackConfig,
	log zerolog.Logger,
) *StatsUseCase {
	return &StatsUseCase{
		invoiceRepo:  invoiceRepo,
		txRepo:       txRepo,
		reportRunner: reportRunner,
		fallback:     fallback,
		log:          log,
	}
}

// GetDashboard construye el resumen fiscal tolerante del periodo. Con token
// vacío se usa el año natural en curso.
//
// Las dos consultas (facturas y movimientos) van en paralelo.
func (uc *StatsUseCase) GetDashboard(ctx context.Context, userID, periodToken string) (*dto.FiscalSummaryDTO, error) {
	period, err := resolvePeriod(periodToken)
	if err != nil {
		return nil, err
	}

	type invoicesResult struct {
		invoices []*entity.Invoice
		err      error
	}
	type txResult struct {
		txs []*repository.TransactionWithCategory
		err error
	}
	invCh := make(chan invoicesResult, 1)
	txCh := make(chan txResult, 1)

	go func() {
		invoices, err := uc.invoiceRepo.ListByPeriod(ctx, userID, period.Start, period.End)
		invCh <- invoicesResult{invoices, err}
	}()
	go func() {
		txs, err := uc.txRepo.ListByPeriod(ctx, userID, period.Start, period.End)
		txCh <- txResult{txs, err}
	}()

	inv := <-invCh
	txs := <-txCh
	if inv.err != nil {
		return nil, fmt.Errorf("dashboard: facturas del periodo: %w", inv.err)
	}
	if txs.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos del periodo: %w", txs.err)
	}

	logger := uc.log.With().Str("period", period.Token()).Logger()
	summary, err := fiscal.Aggregate(toTransactionDocs(txs.txs), toInvoiceDocs(inv.invoices), period, fiscal.AggregateOptions{
		Strict:           false,
		FlatRateFallback: uc.fallback.Enabled,
		FallbackVATRate:  uc.fallback.VATRate,
		FallbackIRPFRate: uc.fallback.IRPFRate,
		Logger:           &logger,
	})
	if err != nil {
		return nil, err
	}
	return toSummaryDTO(period, summary), nil
}

// GetFiscalReport construye el resumen estricto para presentación de
// impuestos. Las dos lecturas comparten una transacción de solo lectura y
// cualquier metadato corrupto o coaccionado aborta el informe.
func (uc *StatsUseCase) GetFiscalReport(ctx context.Context, userID, periodToken string) (*dto.FiscalSummaryDTO, error) {
	period, err := fiscal.ParsePeriod(periodToken)
	if err != nil {
		return nil, err
	}

	var invoices []*entity.Invoice
	var txs []*repository.TransactionWithCategory
	err = uc.reportRunner.RunReport(ctx, func(invoiceRepo repository.InvoiceRepository, txRepo repository.TransactionRepository) error {
		var err error
		if invoices, err = invoiceRepo.ListByPeriod(ctx, userID, period.Start, period.End); err != nil {
			return err
		}
		txs, err = txRepo.ListByPeriod(ctx, userID, period.Start, period.End)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("informe fiscal: %w", err)
	}

	summary, err := fiscal.Aggregate(toTransactionDocs(txs), toInvoiceDocs(invoices), period, fiscal.AggregateOptions{
		Strict: true,
	})
	if err != nil {
		return nil, err
	}
	return toSummaryDTO(period, summary), nil
}

// GetCategoryBreakdown desglosa los gastos del periodo por categoría.
func (uc *StatsUseCase) GetCategoryBreakdown(ctx context.Context, userID, periodToken string) ([]dto.CategoryBreakdownDTO, error) {
	period, err := resolvePeriod(periodToken)
	if err != nil {
		return nil, err
	}
	txs, err := uc.txRepo.ListByPeriod(ctx, userID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("desglose por categoría: %w", err)
	}
	groups := fiscal.BreakdownByCategory(toTransactionDocs(txs), period)
	out := make([]dto.CategoryBreakdownDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.CategoryBreakdownDTO{
			CategoryID:   g.CategoryID,
			CategoryName: g.CategoryName,
			Amount:       g.Amount,
			Count:        g.Count,
			Percentage:   g.Percentage,
		})
	}
	return out, nil
}

// resolvePeriod interpreta el token del query. Vacío cae al año en curso;
// un token presente pero mal formado es error, nunca se enmascara.
func resolvePeriod(token string) (fiscal.Period, error) {
	if token == "" {
		return fiscal.FallbackPeriod(time.Now()), nil
	}
	return fiscal.ParsePeriod(token)
}

func toInvoiceDocs(invoices []*entity.Invoice) []fiscal.InvoiceDoc {
	docs := make([]fiscal.InvoiceDoc, 0, len(invoices))
	for _, inv := range invoices {
		docs = append(docs, fiscal.InvoiceDoc{
			ID:       inv.ID,
			Date:     inv.IssueDate,
			Status:   inv.Status,
			Subtotal: inv.Subtotal,
			RawTaxes: inv.AdditionalTaxes,
		})
	}
	return docs
}

func toTransactionDocs(txs []*repository.TransactionWithCategory) []fiscal.TransactionDoc {
	docs := make([]fiscal.TransactionDoc, 0, len(txs))
	for _, tx := range txs {
		docs = append(docs, fiscal.TransactionDoc{
			ID:           tx.ID,
			Date:         tx.Date,
			Type:         tx.Type,
			Amount:       tx.Amount,
			CategoryID:   tx.CategoryID,
			CategoryName: tx.CategoryName,
			RawTaxes:     tx.AdditionalTaxes,
		})
	}
	return docs
}

func toSummaryDTO(period fiscal.Period, s fiscal.FiscalSummary) *dto.FiscalSummaryDTO {
	return &dto.FiscalSummaryDTO{
		Period:               period.Token(),
		Income:               s.Income,
		Expenses:             s.Expenses,
		BaseImponible:        s.BaseImponible,
		IVARepercutido:       s.IVARepercutido,
		IVASoportado:         s.IVASoportado,
		IRPFRetenidoIngresos: s.IRPFRetenidoIngresos,
		TotalWithholdings:    s.TotalWithholdings,
		Taxes: dto.SummaryTaxesDTO{
			VAT:          s.Taxes.VAT,
			IncomeTax:    s.Taxes.IncomeTax,
			IVAALiquidar: s.Taxes.IVAALiquidar,
		},
	}
}
