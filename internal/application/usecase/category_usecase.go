package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/facturio/autonomo-api/internal/application/dto"
	"github.com/facturio/autonomo-api/internal/domain"
	"github.com/facturio/autonomo-api/internal/domain/entity"
	"github.com/facturio/autonomo-api/internal/domain/repository"
)

// CategoryUseCase gestiona las categorías de gasto del usuario.
type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categoryRepo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo}
}

// CreateCategory da de alta una categoría. El nombre es único por usuario.
func (uc *CategoryUseCase) CreateCategory(userID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.categoryRepo.GetByName(userID, in.Name)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	cat := &entity.Category{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      in.Name,
		Color:     in.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.categoryRepo.Create(cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// UpdateCategory edita nombre o color de una categoría propia.
func (uc *CategoryUseCase) UpdateCategory(userID, id string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != cat.Name {
		if existing, _ := uc.categoryRepo.GetByName(userID, in.Name); existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	cat.Name = in.Name
	cat.Color = in.Color
	cat.UpdatedAt = time.Now()
	if err := uc.categoryRepo.Update(cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// ListCategories lista todas las categorías del usuario.
func (uc *CategoryUseCase) ListCategories(userID string) ([]dto.CategoryResponse, error) {
	cats, err := uc.categoryRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// DeleteCategory elimina una categoría propia. Los movimientos que la usaban
// quedan sin categoría y pasan al grupo "Sin categoría" en los desgloses.
func (uc *CategoryUseCase) DeleteCategory(userID, id string) error {
	if _, err := uc.owned(userID, id); err != nil {
		return err
	}
	return uc.categoryRepo.Delete(id)
}

func (uc *CategoryUseCase) owned(userID, id string) (*entity.Category, error) {
	cat, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrNotFound
	}
	if cat.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return cat, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Color: c.Color}
}
