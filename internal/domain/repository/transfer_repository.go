package repository

import "github.com/tu-usuario/barstock-api/internal/domain/entity"

// TransferRepository define el puerto de persistencia para traslados entre barras.
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	List(limit, offset int) ([]*entity.Transfer, error)
}
