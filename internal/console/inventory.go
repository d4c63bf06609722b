package console

import (
	"context"
	"net/http"

	"github.com/telar-erp/telar-admin/internal/erp"
)

// Almacenes lists the warehouses.
func (h *Handler) Almacenes(w http.ResponseWriter, r *http.Request) {
	items, err := h.erp.ListAlmacenes(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{a.Nombre, a.Direccion, boolLabel(a.Activo)})
	}
	h.sortRows(rows)
	h.render(w, r, "pages/table.html", "Almacenes", tableData{
		Columns: []string{"Nombre", "Dirección", "Activo"},
		Rows:    rows,
		Empty:   "Sin almacenes registrados",
	})
}

// Movimientos lists recent stock movements, newest first as the backend
// returns them; no re-sorting here.
func (h *Handler) Movimientos(w http.ResponseWriter, r *http.Request) {
	items, err := h.erp.ListMovimientos(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([][]string, 0, len(items))
	for _, m := range items {
		rows = append(rows, []string{
			m.Fecha.Format("02 Jan 2006 15:04"),
			m.Tipo,
			m.Articulo,
			formatQty(m.Cantidad),
			m.Almacen,
			m.Nota,
		})
	}
	h.render(w, r, "pages/table.html", "Movimientos", tableData{
		Columns: []string{"Fecha", "Tipo", "Artículo", "Cantidad", "Almacén", "Nota"},
		Rows:    rows,
		Empty:   "Sin movimientos registrados",
	})
}

// InventarioMateriaPrima lists on-hand raw material stock.
func (h *Handler) InventarioMateriaPrima(w http.ResponseWriter, r *http.Request) {
	h.stockTable(w, r, "Inventario · Materia prima", h.erp.ListExistenciasMateriaPrima)
}

// InventarioProductoTerminado lists on-hand finished goods stock.
func (h *Handler) InventarioProductoTerminado(w http.ResponseWriter, r *http.Request) {
	h.stockTable(w, r, "Inventario · Producto terminado", h.erp.ListExistenciasProductoTerminado)
}

func (h *Handler) stockTable(w http.ResponseWriter, r *http.Request, title string, fetch func(context.Context) ([]erp.Existencia, error)) {
	items, err := fetch(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([][]string, 0, len(items))
	for _, e := range items {
		rows = append(rows, []string{e.Articulo, e.Almacen, formatQty(e.Cantidad), e.Unidad})
	}
	h.sortRows(rows)
	h.render(w, r, "pages/table.html", title, tableData{
		Columns: []string{"Artículo", "Almacén", "Cantidad", "Unidad"},
		Rows:    rows,
		Empty:   "Sin existencias",
	})
}
