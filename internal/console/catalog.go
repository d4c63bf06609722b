package console

import (
	"context"
	"fmt"
	"net/http"

	"github.com/telar-erp/telar-admin/internal/erp"
)

// Productos lists the finished-goods catalog.
func (h *Handler) Productos(w http.ResponseWriter, r *http.Request) {
	items, err := h.erp.ListProductos(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		rows = append(rows, []string{p.Nombre, p.Codigo, p.Size, p.Color, fmt.Sprintf("$%.2f", p.Precio), boolLabel(p.Activo)})
	}
	h.sortRows(rows)
	h.render(w, r, "pages/table.html", "Productos", tableData{
		Columns: []string{"Nombre", "Código", "Size", "Color", "Precio", "Activo"},
		Rows:    rows,
		Empty:   "Sin productos registrados",
	})
}

// Materiales lists the raw-material catalog.
func (h *Handler) Materiales(w http.ResponseWriter, r *http.Request) {
	items, err := h.erp.ListMateriales(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([][]string, 0, len(items))
	for _, m := range items {
		rows = append(rows, []string{m.Nombre, m.Codigo, m.Unidad, fmt.Sprintf("$%.2f", m.Costo)})
	}
	h.sortRows(rows)
	h.render(w, r, "pages/table.html", "Materias primas", tableData{
		Columns: []string{"Nombre", "Código", "Unidad", "Costo"},
		Rows:    rows,
		Empty:   "Sin materias primas registradas",
	})
}

// Sizes lists the size lookup table.
func (h *Handler) Sizes(w http.ResponseWriter, r *http.Request) {
	h.lookupTable(w, r, "Sizes", "Sin sizes registrados", h.erp.ListSizes)
}

// Colores lists the color lookup table.
func (h *Handler) Colores(w http.ResponseWriter, r *http.Request) {
	h.lookupTable(w, r, "Colores", "Sin colores registrados", h.erp.ListColores)
}

// Unidades lists the unit-of-measure lookup table.
func (h *Handler) Unidades(w http.ResponseWriter, r *http.Request) {
	h.lookupTable(w, r, "Unidades", "Sin unidades registradas", h.erp.ListUnidades)
}

func (h *Handler) lookupTable(w http.ResponseWriter, r *http.Request, title, empty string, fetch func(context.Context) ([]erp.CatalogItem, error)) {
	items, err := fetch(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Nombre, boolLabel(item.Activo)})
	}
	h.sortRows(rows)
	h.render(w, r, "pages/table.html", title, tableData{
		Columns: []string{"Nombre", "Activo"},
		Rows:    rows,
		Empty:   empty,
	})
}
