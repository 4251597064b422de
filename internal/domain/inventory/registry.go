package inventory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Registry es el catálogo de tipos de movimiento. Lectura concurrente segura;
// Replace permite recargarlo desde configuración.
type Registry struct {
	mu    sync.RWMutex
	types map[string]entity.MovementType
}

// NewRegistry construye el catálogo con los tipos indicados.
func NewRegistry(types ...entity.MovementType) *Registry {
	r := &Registry{}
	r.Replace(types)
	return r
}

// Replace sustituye el catálogo completo.
func (r *Registry) Replace(types []entity.MovementType) {
	m := make(map[string]entity.MovementType, len(types))
	for _, t := range types {
		m[strings.ToUpper(strings.TrimSpace(t.Code))] = t
	}
	r.mu.Lock()
	r.types = m
	r.mu.Unlock()
}

// Resolve devuelve el tipo por código. Códigos desconocidos o inactivos
// devuelven domain.ErrUnknownMovementType.
func (r *Registry) Resolve(code string) (entity.MovementType, error) {
	key := strings.ToUpper(strings.TrimSpace(code))
	r.mu.RLock()
	t, ok := r.types[key]
	r.mu.RUnlock()
	if !ok || !t.Active {
		return entity.MovementType{}, fmt.Errorf("%w: %q", domain.ErrUnknownMovementType, code)
	}
	return t, nil
}

// List devuelve los tipos activos ordenados por código.
func (r *Registry) List() []entity.MovementType {
	r.mu.RLock()
	out := make([]entity.MovementType, 0, len(r.types))
	for _, t := range r.types {
		if t.Active {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// DefaultMovementTypes es el catálogo con el que arranca el servicio cuando la tabla
// tipos_movimiento está vacía. cmd/seed_kardex genera el SQL a partir de esta lista.
func DefaultMovementTypes() []entity.MovementType {
	in := func(code, name string, auth, doc bool) entity.MovementType {
		return entity.MovementType{Code: code, Name: name, Operation: entity.OperationEntrada, AffectsStock: true, RequiresAuthorization: auth, RequiresDocument: doc, Active: true}
	}
	out := func(code, name string, auth, doc bool) entity.MovementType {
		return entity.MovementType{Code: code, Name: name, Operation: entity.OperationSalida, AffectsStock: true, RequiresAuthorization: auth, RequiresDocument: doc, Active: true}
	}
	return []entity.MovementType{
		in("ENTRADA_COMPRA", "Entrada por compra", false, true),
		in("ENTRADA_AJUSTE_POSITIVO", "Ajuste positivo de inventario", false, false),
		in("ENTRADA_DEVOLUCION_CLIENTE", "Devolución de cliente", true, true),
		in("ENTRADA_INVENTARIO_INICIAL", "Inventario inicial", true, false),
		out("SALIDA_VENTA", "Salida por venta", false, true),
		out("SALIDA_AJUSTE_NEGATIVO", "Ajuste negativo de inventario", true, false),
		out("SALIDA_MERMA", "Merma", true, false),
		out("SALIDA_DEVOLUCION_PROVEEDOR", "Devolución a proveedor", true, true),
		out("SALIDA_CONSUMO_INTERNO", "Consumo interno", true, false),
		{
			Code:         "TRANSFERENCIA_ALMACEN",
			Name:         "Traslado entre almacenes",
			Operation:    entity.OperationTransferencia,
			AffectsStock: true,
			Active:       true,
		},
		{
			Code:      "ENTRADA_CONSIGNACION_INFORMATIVA",
			Name:      "Registro informativo de mercancía en consignación",
			Operation: entity.OperationEntrada,
			Active:    true,
		},
	}
}

// producerTypeCodes son los tipos que registran ventas, compras y traslados; el resto
// se consideran ajustes manuales (listado de ajustes-inventario).
var producerTypeCodes = []string{"ENTRADA_COMPRA", "SALIDA_VENTA", "TRANSFERENCIA_ALMACEN"}

// ProducerTypeCodes devuelve una copia de los códigos que no son ajustes.
func ProducerTypeCodes() []string {
	return append([]string(nil), producerTypeCodes...)
}

// IsAdjustment indica si el código corresponde a un ajuste manual de inventario.
func IsAdjustment(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range producerTypeCodes {
		if c == code {
			return false
		}
	}
	return true
}
