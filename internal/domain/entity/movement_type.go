package entity

// Dirección de un tipo de movimiento.
const (
	OperationEntrada       = "ENTRADA"
	OperationSalida        = "SALIDA"
	OperationTransferencia = "TRANSFERENCIA"
)

// MovementType es dato de referencia inmutable: se crea por configuración, nunca
// desde el flujo transaccional. Por convención los códigos van prefijados con
// ENTRADA_, SALIDA_ o TRANSFERENCIA_, pero la señal autoritativa es Operation.
type MovementType struct {
	Code                  string
	Name                  string
	Operation             string
	AffectsStock          bool
	RequiresAuthorization bool
	RequiresDocument      bool
	Active                bool
}

// IsEntrada indica si el tipo incrementa stock.
func (t MovementType) IsEntrada() bool { return t.Operation == OperationEntrada }

// IsSalida indica si el tipo decrementa stock.
func (t MovementType) IsSalida() bool { return t.Operation == OperationSalida }

// IsTransfer indica si el tipo mueve stock entre almacenes.
func (t MovementType) IsTransfer() bool { return t.Operation == OperationTransferencia }
