package billing

import (
	"fmt"

	"github.com/facturio/autonomo-api/internal/domain"
	"github.com/facturio/autonomo-api/internal/domain/entity"
	"github.com/facturio/autonomo-api/internal/domain/fiscal"
	"github.com/facturio/autonomo-api/internal/domain/repository"
)

// FacturaeUseCase exporta una factura emitida como XML Facturae 3.2.2
// (formato de factura electrónica de la administración española). El XML
// sale sin firmar; la firma XAdES se hace con herramienta externa.
type FacturaeUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	userRepo    repository.UserRepository
	builder     FacturaeBuilder
}

// NewFacturaeUseCase construye el caso de uso.
func NewFacturaeUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	builder FacturaeBuilder,
) *FacturaeUseCase {
	return &FacturaeUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		userRepo:    userRepo,
		builder:     builder,
	}
}

// DownloadFacturae genera el XML Facturae de la factura indicada.
func (uc *FacturaeUseCase) DownloadFacturae(userID, invoiceID string) (xmlBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("facturae: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.UserID != userID {
		return nil, "", domain.ErrForbidden
	}
	if inv.Status == entity.InvoiceStatusDraft {
		return nil, "", fmt.Errorf("%w: la factura está en borrador, emítala antes de exportarla", domain.ErrInvalidInput)
	}
	issuer, err := uc.userRepo.GetByID(userID)
	if err != nil || issuer == nil {
		return nil, "", fmt.Errorf("facturae: obtener emisor: %w", domain.ErrUserNotFound)
	}
	if issuer.TaxID == "" {
		return nil, "", fmt.Errorf("%w: complete el NIF en su perfil antes de exportar Facturae", domain.ErrInvalidInput)
	}
	client, err := uc.clientRepo.GetByID(inv.ClientID)
	if err != nil || client == nil {
		return nil, "", fmt.Errorf("facturae: obtener cliente: %w", domain.ErrNotFound)
	}
	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("facturae: obtener líneas: %w", err)
	}
	taxes := fiscal.CoerceAdditionalTaxes(inv.AdditionalTaxes)
	xmlBytes, err = uc.builder.Build(inv, issuer, client, lines, taxes)
	if err != nil {
		return nil, "", fmt.Errorf("facturae: generación fallida: %w", err)
	}
	return xmlBytes, fmt.Sprintf("facturae_%s.xml", inv.Number), nil
}
