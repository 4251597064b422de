// seed_kardex genera el script SQL que puebla tipos_movimiento.
//
// Uso: go run ./cmd/seed_kardex [ruta/tipos.csv]
// Sin argumentos usa el catálogo por defecto del servicio. El CSV (separado por ';', con
// encabezado) trae: codigo;nombre;tipo_operacion;afecta_stock;requiere_autorizacion;requiere_documento;activo
// Los CSV exportados desde Excel en ISO-8859-1 se convierten a UTF-8.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_tipos_movimiento.sql
package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-api/internal/domain/inventory"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	types := domaininv.DefaultMovementTypes()
	source := "catálogo por defecto"
	if len(os.Args) > 1 {
		var err error
		if types, err = readCSV(os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
			os.Exit(1)
		}
		source = os.Args[1]
	}
	for _, t := range types {
		if err := validateType(t); err != nil {
			fmt.Fprintf(os.Stderr, "Tipo inválido %q: %v\n", t.Code, err)
			os.Exit(1)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Code < types[j].Code })

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_tipos_movimiento.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, types, source); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d tipos de movimiento\n", outPath, len(types))
}

func writeSQL(w io.Writer, types []entity.MovementType, source string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "-- Catálogo tipos_movimiento\n-- Generado por cmd/seed_kardex desde %s\n\n", source)
	bw.WriteString("INSERT INTO tipos_movimiento (codigo, nombre, tipo_operacion, afecta_stock, requiere_autorizacion, requiere_documento, activo) VALUES\n")
	for i, t := range types {
		sep := ","
		if i == len(types)-1 {
			sep = ""
		}
		fmt.Fprintf(bw, "  ('%s', '%s', '%s', %t, %t, %t, %t)%s\n",
			escapeSQL(t.Code), escapeSQL(t.Name), t.Operation,
			t.AffectsStock, t.RequiresAuthorization, t.RequiresDocument, t.Active, sep)
	}
	bw.WriteString("ON CONFLICT (codigo) DO UPDATE SET\n")
	bw.WriteString("  nombre = EXCLUDED.nombre,\n")
	bw.WriteString("  tipo_operacion = EXCLUDED.tipo_operacion,\n")
	bw.WriteString("  afecta_stock = EXCLUDED.afecta_stock,\n")
	bw.WriteString("  requiere_autorizacion = EXCLUDED.requiere_autorizacion,\n")
	bw.WriteString("  requiere_documento = EXCLUDED.requiere_documento,\n")
	bw.WriteString("  activo = EXCLUDED.activo;\n")
	return bw.Flush()
}

func readCSV(path string) ([]entity.MovementType, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r io.Reader = strings.NewReader(string(raw))
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	var types []entity.MovementType
	for i, rec := range records {
		if i == 0 {
			continue // encabezado
		}
		if len(rec) < 7 {
			return nil, fmt.Errorf("línea %d: se esperaban 7 columnas, hay %d", i+1, len(rec))
		}
		flags := make([]bool, 4)
		for j := range flags {
			if flags[j], err = strconv.ParseBool(strings.TrimSpace(rec[3+j])); err != nil {
				return nil, fmt.Errorf("línea %d columna %d: %w", i+1, 4+j, err)
			}
		}
		types = append(types, entity.MovementType{
			Code:                  strings.ToUpper(strings.TrimSpace(rec[0])),
			Name:                  strings.TrimSpace(rec[1]),
			Operation:             strings.ToUpper(strings.TrimSpace(rec[2])),
			AffectsStock:          flags[0],
			RequiresAuthorization: flags[1],
			RequiresDocument:      flags[2],
			Active:                flags[3],
		})
	}
	return types, nil
}

func validateType(t entity.MovementType) error {
	if t.Code == "" || t.Name == "" {
		return fmt.Errorf("codigo y nombre son requeridos")
	}
	switch t.Operation {
	case entity.OperationEntrada, entity.OperationSalida, entity.OperationTransferencia:
	default:
		return fmt.Errorf("tipo_operacion %q (ENTRADA|SALIDA|TRANSFERENCIA)", t.Operation)
	}
	if t.Operation == entity.OperationTransferencia && !t.AffectsStock {
		return fmt.Errorf("un traslado siempre afecta stock")
	}
	return nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
