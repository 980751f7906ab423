package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/almacen-fh/internal/application/catalogo"
	"github.com/jhoicas/almacen-fh/internal/application/dto"
	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Columnas del CSV de saldos iniciales. peso_por_bulto y rol son opcionales.
var seedColumns = []string{"categoria", "rol", "producto", "stock_kg", "peso_por_bulto"}

type seedRow struct {
	linea     int
	categoria string
	rol       entity.CategoriaRol
	producto  string
	stockKg   decimal.Decimal
	peso      *decimal.Decimal
}

type seedResult struct {
	Categorias int
	Productos  int
	Entradas   int
	Omitidos   int
}

// readSeed lee el CSV completo antes de tocar la base. Con latin1 decodifica ISO-8859-1
// (exportaciones de hojas de cálculo antiguas).
func readSeed(r io.Reader, latin1 bool) ([]seedRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range []string{"categoria", "producto", "stock_kg"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q (esperadas: %s)", col, strings.Join(seedColumns, ","))
		}
	}
	field := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []seedRow
	for linea := 2; ; linea++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", linea, err)
		}
		row := seedRow{
			linea:     linea,
			categoria: field(rec, "categoria"),
			rol:       entity.CategoriaRol(strings.ToUpper(field(rec, "rol"))),
			producto:  field(rec, "producto"),
		}
		if row.categoria == "" || row.producto == "" {
			return nil, fmt.Errorf("línea %d: categoria y producto son obligatorios", linea)
		}
		if row.rol == "" {
			row.rol = entity.RolGeneral
		}
		if !row.rol.Valid() {
			return nil, fmt.Errorf("línea %d: rol %q inválido", linea, row.rol)
		}
		row.stockKg, err = decimal.NewFromString(field(rec, "stock_kg"))
		if err != nil || row.stockKg.IsNegative() || !row.stockKg.Equal(row.stockKg.Truncate(2)) {
			return nil, fmt.Errorf("línea %d: stock_kg %q inválido", linea, field(rec, "stock_kg"))
		}
		if s := field(rec, "peso_por_bulto"); s != "" {
			peso, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("línea %d: peso_por_bulto %q inválido", linea, s)
			}
			row.peso = &peso
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// seeder da de alta categorías y productos y registra el saldo inicial como entrada INICIAL,
// de modo que el kardex cuadre desde el primer día.
type seeder struct {
	catalogo *catalogo.UseCase
	ledger   *inventory.Ledger
	usuario  string
	log      *logger.Logger
}

func (s *seeder) apply(ctx context.Context, rows []seedRow) (seedResult, error) {
	var res seedResult

	cats, err := s.catalogo.ListCategories(ctx)
	if err != nil {
		return res, err
	}
	byName := make(map[string]dto.CategoryResponse, len(cats))
	for _, c := range cats {
		byName[strings.ToLower(c.Name)] = c
	}
	existing, err := s.productNames(ctx)
	if err != nil {
		return res, err
	}

	for _, row := range rows {
		cat, ok := byName[strings.ToLower(row.categoria)]
		if !ok {
			created, err := s.catalogo.CreateCategory(ctx, dto.CreateCategoryRequest{Name: row.categoria, Role: string(row.rol)})
			if err != nil {
				return res, fmt.Errorf("línea %d: categoría %q: %w", row.linea, row.categoria, err)
			}
			cat = *created
			byName[strings.ToLower(cat.Name)] = cat
			res.Categorias++
		} else if cat.Role != string(row.rol) {
			return res, fmt.Errorf("línea %d: la categoría %q ya existe con rol %s", row.linea, cat.Name, cat.Role)
		}

		key := strings.ToLower(row.producto)
		if existing[key] {
			s.log.Warn().Int("linea", row.linea).Str("producto", row.producto).Msg("producto ya existe, se omite")
			res.Omitidos++
			continue
		}
		p, err := s.catalogo.Create(ctx, dto.CreateProductRequest{
			Name:         row.producto,
			CategoryID:   cat.ID,
			PesoPorBulto: row.peso,
		})
		if err != nil {
			return res, fmt.Errorf("línea %d: producto %q: %w", row.linea, row.producto, err)
		}
		existing[key] = true
		res.Productos++

		if !row.stockKg.IsPositive() {
			continue
		}
		if _, err := s.ledger.RegistrarEntrada(ctx, inventory.EntradaInput{
			ProductID: p.ID,
			Origen:    entity.OrigenInicial,
			Cantidad:  entity.EnKg(row.stockKg),
			UsuarioID: s.usuario,
		}); err != nil {
			return res, fmt.Errorf("línea %d: saldo inicial de %q: %w", row.linea, row.producto, err)
		}
		res.Entradas++
	}
	return res, nil
}

func (s *seeder) productNames(ctx context.Context) (map[string]bool, error) {
	const pageSize = 200
	names := map[string]bool{}
	for offset := 0; ; offset += pageSize {
		page, err := s.catalogo.List(ctx, "", false, pageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range page.Items {
			names[strings.ToLower(p.Name)] = true
		}
		if len(page.Items) < pageSize {
			return names, nil
		}
	}
}
