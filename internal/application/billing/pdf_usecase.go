package billing

import (
	"context"
	"fmt"

	"github.com/facturio/autonomo-api/internal/domain"
	"github.com/facturio/autonomo-api/internal/domain/entity"
	"github.com/facturio/autonomo-api/internal/domain/fiscal"
	"github.com/facturio/autonomo-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura. No se
// genera PDF de borradores: primero hay que emitir la factura.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	userRepo    repository.UserRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		userRepo:    userRepo,
		generator:   generator,
	}
}

// DownloadInvoicePDF recupera todos los datos de la factura y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece al usuario del token.
//   - domain.ErrInvalidInput     si la factura sigue en borrador.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, userID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, client, lines, taxes, err := uc.loadInvoice(userID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	issuer, err := uc.userRepo.GetByID(userID)
	if err != nil || issuer == nil {
		return nil, "", fmt.Errorf("pdf: obtener emisor: %w", domain.ErrUserNotFound)
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, issuer, client, lines, taxes)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", inv.Number), nil
}

func (uc *PDFUseCase) loadInvoice(userID, invoiceID string) (*entity.Invoice, *entity.Client, []*entity.InvoiceLine, []fiscal.AdditionalTax, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, nil, nil, nil, domain.ErrNotFound
	}
	if inv.UserID != userID {
		return nil, nil, nil, nil, domain.ErrForbidden
	}
	if inv.Status == entity.InvoiceStatusDraft {
		return nil, nil, nil, nil, fmt.Errorf("%w: la factura está en borrador, emítala antes de descargarla", domain.ErrInvalidInput)
	}
	client, err := uc.clientRepo.GetByID(inv.ClientID)
	if err != nil || client == nil {
		return nil, nil, nil, nil, fmt.Errorf("pdf: obtener cliente: %w", domain.ErrNotFound)
	}
	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(invoiceID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("pdf: obtener líneas: %w", err)
	}
	return inv, client, lines, fiscal.CoerceAdditionalTaxes(inv.AdditionalTaxes), nil
}
