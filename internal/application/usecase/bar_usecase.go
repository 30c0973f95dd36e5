package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/barstock-api/internal/application/dto"
	"github.com/tu-usuario/barstock-api/internal/domain"
	"github.com/tu-usuario/barstock-api/internal/domain/entity"
	"github.com/tu-usuario/barstock-api/internal/domain/repository"
)

// BarUseCase casos de uso CRUD para barras.
type BarUseCase struct {
	repo repository.BarRepository
}

// NewBarUseCase construye el caso de uso.
func NewBarUseCase(repo repository.BarRepository) *BarUseCase {
	return &BarUseCase{repo: repo}
}

// Create crea una nueva barra.
func (uc *BarUseCase) Create(in dto.CreateBarRequest) (*dto.BarResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	bar := &entity.Bar{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Location:  in.Location,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(bar); err != nil {
		return nil, err
	}
	return toBarResponse(bar), nil
}

// GetByID obtiene una barra por ID.
func (uc *BarUseCase) GetByID(id string) (*dto.BarResponse, error) {
	bar, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bar == nil {
		return nil, nil
	}
	return toBarResponse(bar), nil
}

// Update actualiza una barra.
func (uc *BarUseCase) Update(id string, in dto.UpdateBarRequest) (*dto.BarResponse, error) {
	bar, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bar == nil {
		return nil, nil
	}
	if in.Name != nil {
		bar.Name = *in.Name
	}
	if in.Location != nil {
		bar.Location = *in.Location
	}
	if in.IsActive != nil {
		bar.IsActive = *in.IsActive
	}
	bar.UpdatedAt = time.Now()
	if err := uc.repo.Update(bar); err != nil {
		return nil, err
	}
	return toBarResponse(bar), nil
}

// List lista barras con paginación.
func (uc *BarUseCase) List(limit, offset int) (*dto.BarListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BarResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBarResponse(b))
	}
	return &dto.BarListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toBarResponse(b *entity.Bar) *dto.BarResponse {
	if b == nil {
		return nil
	}
	return &dto.BarResponse{
		ID:        b.ID,
		Name:      b.Name,
		Location:  b.Location,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
