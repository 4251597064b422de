package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseDateRange lee fecha_inicio y fecha_fin. Una fecha_fin sin hora cubre el día completo.
func parseDateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, _, err = parseDate(c.Query("fecha_inicio"), "fecha_inicio"); err != nil {
		return nil, nil, err
	}
	var dateOnly bool
	if to, dateOnly, err = parseDate(c.Query("fecha_fin"), "fecha_fin"); err != nil {
		return nil, nil, err
	}
	if to != nil && dateOnly {
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

func parseDate(raw, field string) (*time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false, nil
	}
	for i, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return &t, i == len(dateLayouts)-1, nil
		}
	}
	return nil, false, domain.NewValidationError(field, "fecha no válida, use AAAA-MM-DD: "+raw)
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 20)}
}
