package entity

// Roles con permiso para autorizar o rechazar movimientos.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleBodeguero  = "bodeguero"
	RoleVendedor   = "vendedor"
)

// User es la vista mínima del usuario que necesita el KARDEX (creador y autorizador).
// La gestión de usuarios y sesiones vive fuera de este servicio.
type User struct {
	ID    string
	Name  string
	Email string
}
