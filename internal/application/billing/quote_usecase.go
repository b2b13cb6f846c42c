package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/facturio/autonomo-api/internal/application/dto"
	"github.com/facturio/autonomo-api/internal/domain"
	"github.com/facturio/autonomo-api/internal/domain/entity"
	"github.com/facturio/autonomo-api/internal/domain/fiscal"
	"github.com/facturio/autonomo-api/internal/domain/repository"
)

// QuoteUseCase gestiona presupuestos y su conversión a factura.
type QuoteUseCase struct {
	txRunner    BillingTxRunner
	quoteRepo   repository.QuoteRepository
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
}

// NewQuoteUseCase construye el caso de uso.
func NewQuoteUseCase(txRunner BillingTxRunner, quoteRepo repository.QuoteRepository, invoiceRepo repository.InvoiceRepository, clientRepo repository.ClientRepository) *QuoteUseCase {
	return &QuoteUseCase{txRunner: txRunner, quoteRepo: quoteRepo, invoiceRepo: invoiceRepo, clientRepo: clientRepo}
}

// CreateQuote crea un presupuesto con sus líneas. Los presupuestos no entran
// en la serie de facturación, así que no hay validación de secuencia.
func (uc *QuoteUseCase) CreateQuote(ctx context.Context, userID string, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
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
		status = entity.QuoteStatusDraft
	}
	if !entity.ValidQuoteStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	items, taxes, totals, err := buildDocument(in.Items, in.AdditionalTaxes, in.BaseAmount)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	q := &entity.Quote{
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
	lines := toQuoteLines(q.ID, items)

	err = uc.txRunner.RunBilling(ctx, func(_ repository.InvoiceRepository, quoteRepo repository.QuoteRepository) error {
		if err := quoteRepo.Create(q); err != nil {
			return err
		}
		for _, line := range lines {
			if err := quoteRepo.CreateLine(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(q, client.Name, lines, taxes), nil
}

// UpdateQuote reemplaza cabecera y líneas del presupuesto recalculando totales.
func (uc *QuoteUseCase) UpdateQuote(ctx context.Context, userID, id string, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	q, err := uc.ownedQuote(userID, id)
	if err != nil {
		return nil, err
	}
	client, err := uc.ownedClient(userID, firstNonEmpty(in.ClientID, q.ClientID))
	if err != nil {
		return nil, err
	}
	if in.IssueDate != "" {
		issueDate, err := time.Parse("2006-01-02", in.IssueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		q.IssueDate = issueDate
	}
	if in.Status != "" {
		if !entity.ValidQuoteStatus(in.Status) {
			return nil, domain.ErrInvalidStatus
		}
		q.Status = in.Status
	}
	if in.Number != "" {
		q.Number = in.Number
	}

	items, taxes, totals, err := buildDocument(in.Items, in.AdditionalTaxes, in.BaseAmount)
	if err != nil {
		return nil, err
	}
	q.ClientID = client.ID
	q.Subtotal = totals.Subtotal
	q.TaxTotal = totals.TaxTotal
	q.Total = totals.Total
	q.AdditionalTaxes = fiscal.EncodeAdditionalTaxes(taxes)
	q.Notes = in.Notes
	q.UpdatedAt = time.Now()
	lines := toQuoteLines(q.ID, items)

	err = uc.txRunner.RunBilling(ctx, func(_ repository.InvoiceRepository, quoteRepo repository.QuoteRepository) error {
		if err := quoteRepo.Update(q); err != nil {
			return err
		}
		return quoteRepo.ReplaceLines(q.ID, lines)
	})
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(q, client.Name, lines, taxes), nil
}

// UpdateStatus cambia el estado del presupuesto.
func (uc *QuoteUseCase) UpdateStatus(userID, id, status string) error {
	if !entity.ValidQuoteStatus(status) {
		return domain.ErrInvalidStatus
	}
	q, err := uc.ownedQuote(userID, id)
	if err != nil {
		return err
	}
	return uc.quoteRepo.UpdateStatus(q.ID, status, time.Now())
}

// GetQuote obtiene un presupuesto por ID con sus líneas.
func (uc *QuoteUseCase) GetQuote(userID, id string) (*dto.QuoteResponse, error) {
	q, err := uc.ownedQuote(userID, id)
	if err != nil {
		return nil, err
	}
	lines, err := uc.quoteRepo.GetLinesByQuoteID(id)
	if err != nil {
		return nil, err
	}
	clientName := ""
	if client, _ := uc.clientRepo.GetByID(q.ClientID); client != nil {
		clientName = client.Name
	}
	taxes := fiscal.CoerceAdditionalTaxes(q.AdditionalTaxes)
	return toQuoteResponse(q, clientName, lines, taxes), nil
}

// ListQuotes lista los presupuestos del usuario, paginados.
func (uc *QuoteUseCase) ListQuotes(userID string, page dto.PageRequest) ([]dto.QuoteResponse, error) {
	page.DefaultPage()
	quotes, err := uc.quoteRepo.ListByUser(userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		taxes := fiscal.CoerceAdditionalTaxes(q.AdditionalTaxes)
		out = append(out, *toQuoteResponse(q, "", nil, taxes))
	}
	return out, nil
}

// DeleteQuote elimina el presupuesto.
func (uc *QuoteUseCase) DeleteQuote(userID, id string) error {
	if _, err := uc.ownedQuote(userID, id); err != nil {
		return err
	}
	return uc.quoteRepo.Delete(id)
}

// ConvertToInvoice convierte un presupuesto aceptado en una factura en
// borrador con el número indicado. La factura nueva y el marcado del
// presupuesto se hacen en la misma transacción.
func (uc *QuoteUseCase) ConvertToInvoice(ctx context.Context, userID, quoteID, invoiceNumber string) (*dto.InvoiceResponse, error) {
	if invoiceNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	q, err := uc.ownedQuote(userID, quoteID)
	if err != nil {
		return nil, err
	}
	if q.Status != entity.QuoteStatusAccepted {
		return nil, domain.ErrInvalidStatus
	}
	quoteLines, err := uc.quoteRepo.GetLinesByQuoteID(quoteID)
	if err != nil {
		return nil, err
	}

	warning := ""
	if prior, err := uc.invoiceRepo.ListNumbersByUser(userID); err == nil {
		if check := fiscal.CheckSequence(invoiceNumber, prior); !check.Valid {
			warning = check.Message
		}
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		UserID:          userID,
		ClientID:        q.ClientID,
		Number:          invoiceNumber,
		IssueDate:       now,
		Status:          entity.InvoiceStatusDraft,
		Subtotal:        q.Subtotal,
		TaxTotal:        q.TaxTotal,
		Total:           q.Total,
		AdditionalTaxes: q.AdditionalTaxes,
		Notes:           q.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	invLines := make([]*entity.InvoiceLine, 0, len(quoteLines))
	for _, l := range quoteLines {
		invLines = append(invLines, &entity.InvoiceLine{
			ID:          uuid.New().String(),
			InvoiceID:   inv.ID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			Subtotal:    l.Subtotal,
		})
	}

	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, quoteRepo repository.QuoteRepository) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, line := range invLines {
			if err := invoiceRepo.CreateLine(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	clientName := ""
	if client, _ := uc.clientRepo.GetByID(inv.ClientID); client != nil {
		clientName = client.Name
	}
	taxes := fiscal.CoerceAdditionalTaxes(inv.AdditionalTaxes)
	resp := toInvoiceResponse(inv, clientName, invLines, taxes)
	resp.SequenceWarning = warning
	return resp, nil
}

func (uc *QuoteUseCase) ownedQuote(userID, id string) (*entity.Quote, error) {
	q, err := uc.quoteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	if q.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return q, nil
}

func (uc *QuoteUseCase) ownedClient(userID, id string) (*entity.Client, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	if client.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return client, nil
}

func toQuoteLines(quoteID string, items []fiscal.LineItem) []*entity.QuoteLine {
	lines := make([]*entity.QuoteLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, &entity.QuoteLine{
			ID:          uuid.New().String(),
			QuoteID:     quoteID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Subtotal:    it.Subtotal(),
		})
	}
	return lines
}

func toQuoteResponse(q *entity.Quote, clientName string, lines []*entity.QuoteLine, taxes []fiscal.AdditionalTax) *dto.QuoteResponse {
	resp := &dto.QuoteResponse{
		ID:              q.ID,
		ClientID:        q.ClientID,
		ClientName:      clientName,
		Number:          q.Number,
		IssueDate:       q.IssueDate.Format("2006-01-02"),
		Status:          q.Status,
		Subtotal:        q.Subtotal,
		TaxTotal:        q.TaxTotal,
		Total:           q.Total,
		Items:           make([]dto.LineItemResponse, 0, len(lines)),
		AdditionalTaxes: make([]dto.AdditionalTaxRequest, 0, len(taxes)),
		Notes:           q.Notes,
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
