package erp

import (
	"context"
	"time"
)

// Almacen is a warehouse.
type Almacen struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion,omitempty"`
	Activo    bool   `json:"activo"`
}

// Movimiento is a stock movement posted by the backend.
type Movimiento struct {
	ID        int64     `json:"id"`
	Tipo      string    `json:"tipo"`
	AlmacenID int64     `json:"almacen_id"`
	Almacen   string    `json:"almacen,omitempty"`
	Articulo  string    `json:"articulo"`
	Cantidad  float64   `json:"cantidad"`
	Nota      string    `json:"nota,omitempty"`
	Fecha     time.Time `json:"fecha"`
}

// Existencia is an on-hand stock row.
type Existencia struct {
	ID       int64   `json:"id"`
	Articulo string  `json:"articulo"`
	Almacen  string  `json:"almacen"`
	Cantidad float64 `json:"cantidad"`
	Unidad   string  `json:"unidad,omitempty"`
}

// ListAlmacenes fetches the warehouses.
func (c *Client) ListAlmacenes(ctx context.Context) ([]Almacen, error) {
	var out []Almacen
	if err := c.get(ctx, "/almacenes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMovimientos fetches recent stock movements.
func (c *Client) ListMovimientos(ctx context.Context) ([]Movimiento, error) {
	var out []Movimiento
	if err := c.get(ctx, "/movimientos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListExistenciasMateriaPrima fetches on-hand raw material stock.
func (c *Client) ListExistenciasMateriaPrima(ctx context.Context) ([]Existencia, error) {
	var out []Existencia
	if err := c.get(ctx, "/inventario/materia-prima", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListExistenciasProductoTerminado fetches on-hand finished goods stock.
func (c *Client) ListExistenciasProductoTerminado(ctx context.Context) ([]Existencia, error) {
	var out []Existencia
	if err := c.get(ctx, "/inventario/producto-terminado", &out); err != nil {
		return nil, err
	}
	return out, nil
}
