// Package expenses contiene el caso de uso de movimientos de tesorería:
// ingresos y gastos con sus metadatos fiscales.
package expenses

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturio/autonomo-api/internal/application/dto"
	"github.com/facturio/autonomo-api/internal/domain"
	"github.com/facturio/autonomo-api/internal/domain/entity"
	"github.com/facturio/autonomo-api/internal/domain/fiscal"
	"github.com/facturio/autonomo-api/internal/domain/repository"
)

// TransactionUseCase gestiona movimientos. El importe almacenado es siempre
// la base sin IVA; los impuestos viajan como metadatos adicionales.
type TransactionUseCase struct {
	txRepo       repository.TransactionRepository
	categoryRepo repository.CategoryRepository
}

// NewTransactionUseCase construye el caso de uso.
func NewTransactionUseCase(txRepo repository.TransactionRepository, categoryRepo repository.CategoryRepository) *TransactionUseCase {
	return &TransactionUseCase{txRepo: txRepo, categoryRepo: categoryRepo}
}

// CreateTransaction registra un movimiento. Para gastos admite dos formas de
// importe: la base directa (Amount) o el total del ticket (GrossAmount), del
// que el motor fiscal deriva base, IVA e IRPF.
func (uc *TransactionUseCase) CreateTransaction(userID string, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if in.Type != fiscal.TransactionIncome && in.Type != fiscal.TransactionExpense {
		return nil, domain.ErrInvalidInput
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if in.CategoryID != "" {
		if _, err := uc.ownedCategory(userID, in.CategoryID); err != nil {
			return nil, err
		}
	}
	base, taxes, err := resolveAmount(in)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx := &entity.Transaction{
		ID:              uuid.New().String(),
		UserID:          userID,
		Type:            in.Type,
		Description:     in.Description,
		Amount:          base,
		Date:            date,
		CategoryID:      in.CategoryID,
		AdditionalTaxes: fiscal.EncodeAdditionalTaxes(taxes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.txRepo.Create(tx); err != nil {
		return nil, err
	}
	return toTransactionResponse(tx, taxes), nil
}

// UpdateTransaction edita un movimiento propio recalculando los metadatos.
func (uc *TransactionUseCase) UpdateTransaction(userID, id string, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	tx, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if in.Type != "" {
		if in.Type != fiscal.TransactionIncome && in.Type != fiscal.TransactionExpense {
			return nil, domain.ErrInvalidInput
		}
		tx.Type = in.Type
	}
	if in.Date != "" {
		date, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		tx.Date = date
	}
	if in.CategoryID != "" {
		if _, err := uc.ownedCategory(userID, in.CategoryID); err != nil {
			return nil, err
		}
	}
	base, taxes, err := resolveAmount(in)
	if err != nil {
		return nil, err
	}
	tx.Description = in.Description
	tx.Amount = base
	tx.CategoryID = in.CategoryID
	tx.AdditionalTaxes = fiscal.EncodeAdditionalTaxes(taxes)
	tx.UpdatedAt = time.Now()
	if err := uc.txRepo.Update(tx); err != nil {
		return nil, err
	}
	return toTransactionResponse(tx, taxes), nil
}

// GetTransaction obtiene un movimiento propio por ID.
func (uc *TransactionUseCase) GetTransaction(userID, id string) (*dto.TransactionResponse, error) {
	tx, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx, fiscal.CoerceAdditionalTaxes(tx.AdditionalTaxes)), nil
}

// ListTransactions lista los movimientos del usuario, paginados.
func (uc *TransactionUseCase) ListTransactions(userID string, page dto.PageRequest) ([]dto.TransactionResponse, error) {
	page.DefaultPage()
	txs, err := uc.txRepo.ListByUser(userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, *toTransactionResponse(tx, fiscal.CoerceAdditionalTaxes(tx.AdditionalTaxes)))
	}
	return out, nil
}

// DeleteTransaction elimina un movimiento propio.
func (uc *TransactionUseCase) DeleteTransaction(userID, id string) error {
	if _, err := uc.owned(userID, id); err != nil {
		return err
	}
	return uc.txRepo.Delete(id)
}

func (uc *TransactionUseCase) owned(userID, id string) (*entity.Transaction, error) {
	tx, err := uc.txRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	if tx.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return tx, nil
}

func (uc *TransactionUseCase) ownedCategory(userID, id string) (*entity.Category, error) {
	cat, err := uc.categoryRepo.GetByID(id)
	if err != nil || cat == nil {
		return nil, domain.ErrNotFound
	}
	if cat.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return cat, nil
}

// resolveAmount obtiene la base y los impuestos del movimiento según la forma
// de la petición. Las dos formas de importe son excluyentes.
func resolveAmount(in dto.CreateTransactionRequest) (decimal.Decimal, []fiscal.AdditionalTax, error) {
	if in.GrossAmount != nil {
		if in.Amount != nil || in.VATRate == nil {
			return decimal.Zero, nil, domain.ErrInvalidInput
		}
		split, err := fiscal.SplitGross(*in.GrossAmount, *in.VATRate, in.IRPFRate)
		if err != nil {
			return decimal.Zero, nil, err
		}
		taxes := []fiscal.AdditionalTax{
			{Name: "IVA", Amount: *in.VATRate, IsPercentage: true},
		}
		if in.IRPFRate != nil && !in.IRPFRate.IsZero() {
			taxes = append(taxes, fiscal.AdditionalTax{Name: "IRPF", Amount: in.IRPFRate.Neg(), IsPercentage: true})
		}
		return split.Base, taxes, nil
	}
	if in.Amount == nil {
		return decimal.Zero, nil, domain.ErrInvalidInput
	}
	taxes := make([]fiscal.AdditionalTax, 0, len(in.AdditionalTaxes))
	for _, t := range in.AdditionalTaxes {
		if t.Name == "" {
			return decimal.Zero, nil, domain.ErrInvalidInput
		}
		taxes = append(taxes, fiscal.AdditionalTax{Name: t.Name, Amount: t.Amount, IsPercentage: t.IsPercentage})
	}
	return *in.Amount, taxes, nil
}

func toTransactionResponse(tx *entity.Transaction, taxes []fiscal.AdditionalTax) *dto.TransactionResponse {
	resp := &dto.TransactionResponse{
		ID:              tx.ID,
		Type:            tx.Type,
		Description:     tx.Description,
		Amount:          tx.Amount,
		Date:            tx.Date.Format("2006-01-02"),
		CategoryID:      tx.CategoryID,
		AdditionalTaxes: make([]dto.AdditionalTaxRequest, 0, len(taxes)),
	}
	for _, t := range taxes {
		resp.AdditionalTaxes = append(resp.AdditionalTaxes, dto.AdditionalTaxRequest{
			Name:         t.Name,
			Amount:       t.Amount,
			IsPercentage: t.IsPercentage,
		})
		contribution := t.Contribution(tx.Amount)
		switch {
		case t.IsVAT():
			resp.VATAmount = resp.VATAmount.Add(contribution).Round(2)
		case t.IsIRPF():
			resp.IRPFAmount = resp.IRPFAmount.Add(contribution.Abs()).Round(2)
		}
	}
	return resp
}
