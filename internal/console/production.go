package console

import (
	"fmt"
	"net/http"
)

// Ordenes lists production orders.
func (h *Handler) Ordenes(w http.ResponseWriter, r *http.Request) {
	items, err := h.erp.ListOrdenes(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([][]string, 0, len(items))
	for _, o := range items {
		rows = append(rows, []string{
			o.Folio,
			o.Producto,
			formatQty(o.Cantidad),
			o.Estado,
			o.Creada.Format("02 Jan 2006"),
		})
	}
	h.render(w, r, "pages/table.html", "Órdenes de producción", tableData{
		Columns: []string{"Folio", "Producto", "Cantidad", "Estado", "Creada"},
		Rows:    rows,
		Empty:   "Sin órdenes registradas",
	})
}

// Recetas lists recipe headers with their component counts.
func (h *Handler) Recetas(w http.ResponseWriter, r *http.Request) {
	items, err := h.erp.ListRecetas(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([][]string, 0, len(items))
	for _, rec := range items {
		rows = append(rows, []string{rec.Nombre, rec.Producto, fmt.Sprintf("%d componentes", len(rec.Lineas))})
	}
	h.sortRows(rows)
	h.render(w, r, "pages/table.html", "Recetas", tableData{
		Columns: []string{"Nombre", "Producto", "Componentes"},
		Rows:    rows,
		Empty:   "Sin recetas registradas",
	})
}
