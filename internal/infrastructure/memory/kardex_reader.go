package memory

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var _ repository.KardexReader = (*KardexReader)(nil)

// KardexReader consultas de solo lectura sobre el store.
type KardexReader struct {
	store *Store
}

// NewKardexReader construye el lector.
func NewKardexReader(store *Store) *KardexReader {
	return &KardexReader{store: store}
}

// ListMovements filtra el log, más recientes primero.
func (r *KardexReader) ListMovements(ctx context.Context, f repository.MovementFilter) ([]repository.MovementView, int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := fold(f.Search)
	var matched []repository.MovementView
	for i := len(s.order) - 1; i >= 0; i-- {
		m := s.movements[s.order[i]]
		if !matchesMovement(m, f) {
			continue
		}
		v := s.view(m)
		if search != "" && !matchesSearch(v, search) {
			continue
		}
		matched = append(matched, v)
	}

	total := len(matched)
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Offset >= total {
		return []repository.MovementView{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}

// GetMovement devuelve el movimiento con sus datos anidados, o nil.
func (r *KardexReader) GetMovement(ctx context.Context, id string) (*repository.MovementView, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movements[id]
	if !ok {
		return nil, nil
	}
	v := s.view(m)
	return &v, nil
}

// Summary agrega por tipo. Un traslado cuenta una vez (su mitad de salida).
func (r *KardexReader) Summary(ctx context.Context, f repository.SummaryFilter) (*repository.SummaryResult, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := &repository.SummaryResult{}
	byType := make(map[string]*repository.TypeTotal)
	for _, id := range s.order {
		m := s.movements[id]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if !inRange(m.Date, f.From, f.To) {
			continue
		}
		if m.IsTransfer() && m.Operation == entity.OperationEntrada {
			continue
		}
		switch m.Status {
		case entity.MovementStatusPending:
			res.Pending++
		case entity.MovementStatusRejected:
			res.Rejected++
		case entity.MovementStatusApproved:
			res.Approved++
			tt, ok := byType[m.TypeCode]
			if !ok {
				tt = &repository.TypeTotal{TypeCode: m.TypeCode, Operation: m.Operation, TotalCost: decimal.Zero}
				byType[m.TypeCode] = tt
			}
			tt.Count++
			tt.Quantity += m.Quantity
			tt.TotalCost = tt.TotalCost.Add(m.TotalCost)
		}
	}
	for _, tt := range byType {
		res.ByType = append(res.ByType, *tt)
	}
	sort.Slice(res.ByType, func(i, j int) bool { return res.ByType[i].TypeCode < res.ByType[j].TypeCode })
	return res, nil
}

// ProductCard movimientos APROBADOS del producto en orden de finalización.
func (r *KardexReader) ProductCard(ctx context.Context, f repository.CardFilter) ([]entity.InventoryMovement, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []entity.InventoryMovement
	for _, m := range s.movements {
		if m.ProductID != f.ProductID || m.Status != entity.MovementStatusApproved {
			continue
		}
		if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
			continue
		}
		if !inRange(m.Date, f.From, f.To) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

// view arma el movimiento con producto y usuarios. Requiere s.mu tomado.
func (s *Store) view(m entity.InventoryMovement) repository.MovementView {
	v := repository.MovementView{
		Movement:  m,
		Product:   s.products[m.ProductID],
		CreatedBy: s.user(m.CreatedBy),
	}
	if m.AuthorizedBy != "" {
		u := s.user(m.AuthorizedBy)
		v.AuthorizedBy = &u
	}
	return v
}

func (s *Store) user(id string) entity.User {
	if u, ok := s.users[id]; ok {
		return u
	}
	return entity.User{ID: id}
}

func matchesMovement(m entity.InventoryMovement, f repository.MovementFilter) bool {
	switch {
	case f.ProductID != "" && m.ProductID != f.ProductID:
		return false
	case f.WarehouseID != "" && m.WarehouseID != f.WarehouseID:
		return false
	case f.TypeCode != "" && m.TypeCode != f.TypeCode:
		return false
	case f.Status != "" && m.Status != f.Status:
		return false
	case f.Operation != "" && m.Operation != f.Operation:
		return false
	case f.AdjustmentsOnly && !inventory.IsAdjustment(m.TypeCode):
		return false
	}
	return inRange(m.Date, f.From, f.To)
}

func matchesSearch(v repository.MovementView, needle string) bool {
	for _, field := range []string{
		v.Product.Name,
		v.Product.SKU,
		v.Movement.TypeCode,
		v.Movement.Reason,
		v.Movement.Notes,
		v.Movement.DocumentNumber,
		v.CreatedBy.Name,
	} {
		if field != "" && strings.Contains(fold(field), needle) {
			return true
		}
	}
	return false
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// fold normaliza para búsqueda: sin tildes y sin distinción de mayúsculas
// ("Azúcar" y "AZUCAR" coinciden).
func fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}
