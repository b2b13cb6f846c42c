package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturio/autonomo-api/internal/application/dto"
	"github.com/facturio/autonomo-api/internal/application/expenses"
)

// TransactionHandler maneja las peticiones HTTP de movimientos.
type TransactionHandler struct {
	uc *expenses.TransactionUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *expenses.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// Create POST /api/transactions
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.uc.CreateTransaction(GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

// List GET /api/transactions?limit=20&offset=0
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	list, err := h.uc.ListTransactions(GetUserID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetByID GET /api/transactions/:id
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	tx, err := h.uc.GetTransaction(GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tx)
}

// Update PUT /api/transactions/:id
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.uc.UpdateTransaction(GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tx)
}

// Delete DELETE /api/transactions/:id
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteTransaction(GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
