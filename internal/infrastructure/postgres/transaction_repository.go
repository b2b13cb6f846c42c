package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/facturio/autonomo-api/internal/domain/entity"
	"github.com/facturio/autonomo-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de TransactionRepository (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste un nuevo movimiento.
func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, type, description, amount, date, category_id, additional_taxes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.UserID, tx.Type, tx.Description, tx.Amount, tx.Date,
		nullIfEmpty(tx.CategoryID), tx.AdditionalTaxes, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	query := `
		SELECT id, user_id, type, description, amount, date, category_id, additional_taxes, created_at, updated_at
		FROM transactions WHERE id = $1`
	var t entity.Transaction
	var categoryID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.UserID, &t.Type, &t.Description, &t.Amount, &t.Date,
		&categoryID, &t.AdditionalTaxes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	t.CategoryID = orEmpty(categoryID)
	return &t, nil
}

// Update actualiza un movimiento.
func (r *TransactionRepo) Update(tx *entity.Transaction) error {
	query := `
		UPDATE transactions SET type = $2, description = $3, amount = $4, date = $5,
			category_id = $6, additional_taxes = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.Type, tx.Description, tx.Amount, tx.Date,
		nullIfEmpty(tx.CategoryID), tx.AdditionalTaxes, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

// Delete elimina un movimiento.
func (r *TransactionRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// ListByUser lista movimientos del usuario, más recientes primero.
func (r *TransactionRepo) ListByUser(userID string, limit, offset int) ([]*entity.Transaction, error) {
	query := `
		SELECT id, user_id, type, description, amount, date, category_id, additional_taxes, created_at, updated_at
		FROM transactions WHERE user_id = $1 ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		var categoryID *string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Description, &t.Amount, &t.Date,
			&categoryID, &t.AdditionalTaxes, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.CategoryID = orEmpty(categoryID)
		list = append(list, &t)
	}
	return list, rows.Err()
}

// ListByPeriod devuelve los movimientos con fecha en [start, end) junto con
// el nombre de su categoría, para la agregación fiscal y los desgloses.
func (r *TransactionRepo) ListByPeriod(ctx context.Context, userID string, start, end time.Time) ([]*repository.TransactionWithCategory, error) {
	query := `
		SELECT t.id, t.user_id, t.type, t.description, t.amount, t.date,
			t.category_id, t.additional_taxes, t.created_at, t.updated_at, c.name
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date < $3
		ORDER BY t.date`
	rows, err := r.q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list transactions by period: %w", err)
	}
	defer rows.Close()
	var list []*repository.TransactionWithCategory
	for rows.Next() {
		var t repository.TransactionWithCategory
		var categoryID, categoryName *string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Description, &t.Amount, &t.Date,
			&categoryID, &t.AdditionalTaxes, &t.CreatedAt, &t.UpdatedAt, &categoryName); err != nil {
			return nil, fmt.Errorf("scan transaction with category: %w", err)
		}
		t.CategoryID = orEmpty(categoryID)
		t.CategoryName = orEmpty(categoryName)
		list = append(list, &t)
	}
	return list, rows.Err()
}
