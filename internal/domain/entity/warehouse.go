package entity

import "time"

// Warehouse representa un almacén o sucursal donde se guarda inventario.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
