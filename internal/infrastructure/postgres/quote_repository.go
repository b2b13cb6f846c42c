package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/facturio/autonomo-api/internal/domain"
	"github.com/facturio/autonomo-api/internal/domain/entity"
	"github.com/facturio/autonomo-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación de QuoteRepository (usable con pool o tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteColumns = `id, user_id, client_id, number, issue_date, status,
	subtotal, tax_total, total, additional_taxes, notes, created_at, updated_at`

// Create persiste la cabecera de un presupuesto.
func (r *QuoteRepo) Create(quote *entity.Quote) error {
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		quote.ID, quote.UserID, quote.ClientID, quote.Number, quote.IssueDate, quote.Status,
		quote.Subtotal, quote.TaxTotal, quote.Total, quote.AdditionalTaxes,
		nullIfEmpty(quote.Notes), quote.CreatedAt, quote.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de presupuesto.
func (r *QuoteRepo) CreateLine(line *entity.QuoteLine) error {
	query := `
		INSERT INTO quote_lines (id, quote_id, description, quantity, unit_price, tax_rate, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.QuoteID, line.Description, line.Quantity, line.UnitPrice, line.TaxRate, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert quote line: %w", err)
	}
	return nil
}

// GetByID obtiene un presupuesto por ID.
func (r *QuoteRepo) GetByID(id string) (*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`
	q, err := scanQuote(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

// GetLinesByQuoteID obtiene las líneas del presupuesto en orden de inserción.
func (r *QuoteRepo) GetLinesByQuoteID(quoteID string) ([]*entity.QuoteLine, error) {
	query := `
		SELECT id, quote_id, description, quantity, unit_price, tax_rate, subtotal
		FROM quote_lines WHERE quote_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.QuoteLine
	for rows.Next() {
		var l entity.QuoteLine
		if err := rows.Scan(&l.ID, &l.QuoteID, &l.Description, &l.Quantity, &l.UnitPrice, &l.TaxRate, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan quote line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// Update actualiza la cabecera del presupuesto.
func (r *QuoteRepo) Update(quote *entity.Quote) error {
	query := `
		UPDATE quotes SET client_id = $2, number = $3, issue_date = $4, status = $5,
			subtotal = $6, tax_total = $7, total = $8, additional_taxes = $9, notes = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		quote.ID, quote.ClientID, quote.Number, quote.IssueDate, quote.Status,
		quote.Subtotal, quote.TaxTotal, quote.Total, quote.AdditionalTaxes,
		nullIfEmpty(quote.Notes), quote.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update quote: %w", err)
	}
	return nil
}

// ReplaceLines borra y reinserta las líneas del presupuesto.
func (r *QuoteRepo) ReplaceLines(quoteID string, lines []*entity.QuoteLine) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM quote_lines WHERE quote_id = $1`, quoteID); err != nil {
		return fmt.Errorf("delete quote lines: %w", err)
	}
	for _, line := range lines {
		if err := r.CreateLine(line); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatus cambia solo el estado del presupuesto.
func (r *QuoteRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE quotes SET status = $2, updated_at = $3 WHERE id = $1`, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	return nil
}

// Delete elimina el presupuesto y sus líneas (ON DELETE CASCADE).
func (r *QuoteRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	return nil
}

// ListByUser lista presupuestos del usuario, más recientes primero.
func (r *QuoteRepo) ListByUser(userID string, limit, offset int) ([]*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + `
		FROM quotes WHERE user_id = $1 ORDER BY issue_date DESC, number DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var q entity.Quote
	var notes *string
	err := row.Scan(
		&q.ID, &q.UserID, &q.ClientID, &q.Number, &q.IssueDate, &q.Status,
		&q.Subtotal, &q.TaxTotal, &q.Total, &q.AdditionalTaxes,
		&notes, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.Notes = orEmpty(notes)
	return &q, nil
}
