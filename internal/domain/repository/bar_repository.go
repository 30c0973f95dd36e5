package repository

import "github.com/tu-usuario/barstock-api/internal/domain/entity"

// BarRepository define el puerto de persistencia para Bar (DIP).
type BarRepository interface {
	Create(bar *entity.Bar) error
	GetByID(id string) (*entity.Bar, error)
	Update(bar *entity.Bar) error
	List(limit, offset int) ([]*entity.Bar, error)
}
