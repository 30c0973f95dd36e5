package entity

import "time"

// Bar representa una barra o punto de almacenamiento de inventario (multi-barra).
type Bar struct {
	ID        string
	Name      string
	Location  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
