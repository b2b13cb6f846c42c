// Package billing contiene los casos de uso de facturación: facturas,
// presupuestos y sus representaciones (PDF y Facturae).
package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturio/autonomo-api/internal/application/dto"
	"github.com/facturio/autonomo-api/internal/domain"
	"github.com/facturio/autonomo-api/internal/domain/entity"
	"github.com/facturio/autonomo-api/internal/domain/fiscal"
	"github.com/facturio/autonomo-api/internal/domain/repository"
)

// InvoiceUseCase gestiona el ciclo de vida de las facturas. Los totales se
// recalculan siempre en servidor a partir de líneas e impuestos adicionales.
type InvoiceUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(txRunner BillingTxRunner, invoiceRepo repository.InvoiceRepository, clientRepo repository.ClientRepository) *InvoiceUseCase {
	return &InvoiceUseCase{txRunner: txRunner, invoiceRepo: invoiceRepo, clientRepo: clientRepo}
}

// CreateInvoice crea una factura con sus líneas en una sola transacción y
// adjunta, si procede, el aviso consultivo de numeración. El aviso nunca
// bloquea la creación.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.Number == "" || in.ClientID == "" {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.ownedClient(userID, in.ClientID)
	if err != nil {
		return nil, err
	}
	issueDate, err := time.Parse("2006-01-02", in.IssueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.InvoiceStatusDraft
	}
	if !entity.ValidInvoiceStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	items, taxes, totals, err := buildDocument(in.Items, in.AdditionalTaxes, in.BaseAmount)
	if err != nil {
		return nil, err
	}

	// Validación consultiva de secuencia, fuera de la transacción.
	warning := ""
	if prior, err := uc.invoiceRepo.ListNumbersByUser(userID); err == nil {
		if check := fiscal.CheckSequence(in.Number, prior); !check.Valid {
			warning = check.Message
		}
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		UserID:          userID,
		ClientID:        in.ClientID,
		Number:          in.Number,
		IssueDate:       issueDate,
		Status:          status,
		Subtotal:        totals.Subtotal,
		TaxTotal:        totals.TaxTotal,
		Total:           totals.Total,
		AdditionalTaxes: fiscal.EncodeAdditionalTaxes(taxes),
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	lines := toInvoiceLines(inv.ID, items)

	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.QuoteRepository) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, line := range lines {
			if err := invoiceRepo.CreateLine(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toInvoiceResponse(inv, client.Name, lines, taxes)
	resp.SequenceWarning = warning
	return resp, nil
}

// UpdateInvoice reemplaza cabecera y líneas de la factura recalculando
// totales desde cero.
func (uc *InvoiceUseCase) UpdateInvoice(ctx context.Context, userID, id string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(userID, id)
	if err != nil {
		return nil, err
	}
	client, err := uc.ownedClient(userID, firstNonEmpty(in.ClientID, inv.ClientID))
	if err != nil {
		return nil, err
	}
	if in.IssueDate != "" {
		issueDate, err := time.Parse("2006-01-02", in.IssueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		inv.IssueDate = issueDate
	}
	if in.Status != "" {
		if !entity.ValidInvoiceStatus(in.Status) {
			return nil, domain.ErrInvalidStatus
		}
		inv.Status = in.Status
	}
	if in.Number != "" {
		inv.Number = in.Number
	}

	items, taxes, totals, err := buildDocument(in.Items, in.AdditionalTaxes, in.BaseAmount)
	if err != nil {
		return nil, err
	}
	inv.ClientID = client.ID
	inv.Subtotal = totals.Subtotal
	inv.TaxTotal = totals.TaxTotal
	inv.Total = totals.Total
	inv.AdditionalTaxes = fiscal.EncodeAdditionalTaxes(taxes)
	inv.Notes = in.Notes
	inv.UpdatedAt = time.Now()
	lines := toInvoiceLines(inv.ID, items)

	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.QuoteRepository) error {
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		return invoiceRepo.ReplaceLines(inv.ID, lines)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, client.Name, lines, taxes), nil
}

// UpdateStatus cambia el estado de la factura.
func (uc *InvoiceUseCase) UpdateStatus(userID, id, status string) error {
	if !entity.ValidInvoiceStatus(status) {
		return domain.ErrInvalidStatus
	}
	inv, err := uc.ownedInvoice(userID, id)
	if err != nil {
		return err
	}
	return uc.invoiceRepo.UpdateStatus(inv.ID, status, time.Now())
}

// GetInvoice obtiene una factura por ID con sus líneas.
func (uc *InvoiceUseCase) GetInvoice(userID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(userID, id)
	if err != nil {
		return nil, err
	}
	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	clientName := ""
	if client, _ := uc.clientRepo.GetByID(inv.ClientID); client != nil {
		clientName = client.Name
	}
	taxes := fiscal.CoerceAdditionalTaxes(inv.AdditionalTaxes)
	return toInvoiceResponse(inv, clientName, lines, taxes), nil
}

// ListInvoices lista las facturas del usuario, paginadas.
func (uc *InvoiceUseCase) ListInvoices(userID string, page dto.PageRequest) ([]dto.InvoiceResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.ListByUser(userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		taxes := fiscal.CoerceAdditionalTaxes(inv.AdditionalTaxes)
		out = append(out, *toInvoiceResponse(inv, "", nil, taxes))
	}
	return out, nil
}

// DeleteInvoice elimina la factura. Las facturas pagadas no se borran, se
// cancelan.
func (uc *InvoiceUseCase) DeleteInvoice(userID, id string) error {
	inv, err := uc.ownedInvoice(userID, id)
	if err != nil {
		return err
	}
	if inv.Status == entity.InvoiceStatusPaid {
		return domain.ErrConflict
	}
	return uc.invoiceRepo.Delete(id)
}

func (uc *InvoiceUseCase) ownedInvoice(userID, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func (uc *InvoiceUseCase) ownedClient(userID, id string) (*entity.Client, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	if client.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return client, nil
}

// buildDocument traduce la petición al modelo del motor fiscal y calcula los
// totales. Con BaseAmount (formulario simplificado) no se admiten líneas.
func buildDocument(items []dto.LineItemRequest, taxes []dto.AdditionalTaxRequest, base *decimal.Decimal) ([]fiscal.LineItem, []fiscal.AdditionalTax, fiscal.DocumentTotals, error) {
	fiscalTaxes := make([]fiscal.AdditionalTax, 0, len(taxes))
	for _, t := range taxes {
		if t.Name == "" {
			return nil, nil, fiscal.DocumentTotals{}, domain.ErrInvalidInput
		}
		fiscalTaxes = append(fiscalTaxes, fiscal.AdditionalTax{
			Name:         t.Name,
			Amount:       t.Amount,
			IsPercentage: t.IsPercentage,
		})
	}
	if base != nil {
		if len(items) > 0 {
			return nil, nil, fiscal.DocumentTotals{}, domain.ErrInvalidInput
		}
		return nil, fiscalTaxes, fiscal.ComputeTotalsFromBase(*base, fiscalTaxes), nil
	}
	if len(items) == 0 {
		return nil, nil, fiscal.DocumentTotals{}, domain.ErrInvalidInput
	}
	fiscalItems := make([]fiscal.LineItem, 0, len(items))
	for _, it := range items {
		if it.Quantity.LessThanOrEqual(decimal.Zero) || it.UnitPrice.LessThan(decimal.Zero) {
			return nil, nil, fiscal.DocumentTotals{}, domain.ErrInvalidInput
		}
		fiscalItems = append(fiscalItems, fiscal.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		})
	}
	return fiscalItems, fiscalTaxes, fiscal.ComputeTotals(fiscalItems, fiscalTaxes), nil
}

func toInvoiceLines(invoiceID string, items []fiscal.LineItem) []*entity.InvoiceLine {
	lines := make([]*entity.InvoiceLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, &entity.InvoiceLine{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Subtotal:    it.Subtotal(),
		})
	}
	return lines
}

func toInvoiceResponse(inv *entity.Invoice, clientName string, lines []*entity.InvoiceLine, taxes []fiscal.AdditionalTax) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:              inv.ID,
		ClientID:        inv.ClientID,
		ClientName:      clientName,
		Number:          inv.Number,
		IssueDate:       inv.IssueDate.Format("2006-01-02"),
		Status:          inv.Status,
		Subtotal:        inv.Subtotal,
		TaxTotal:        inv.TaxTotal,
		Total:           inv.Total,
		Items:           make([]dto.LineItemResponse, 0, len(lines)),
		AdditionalTaxes: make([]dto.AdditionalTaxRequest, 0, len(taxes)),
		Notes:           inv.Notes,
	}
	for _, l := range lines {
		resp.Items = append(resp.Items, dto.LineItemResponse{
			ID:          l.ID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			Subtotal:    l.Subtotal,
		})
	}
	for _, t := range taxes {
		resp.AdditionalTaxes = append(resp.AdditionalTaxes, dto.AdditionalTaxRequest{
			Name:         t.Name,
			Amount:       t.Amount,
			IsPercentage: t.IsPercentage,
		})
	}
	return resp
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
