package erp

import (
	"context"
	"time"
)

// Orden is a production order.
type Orden struct {
	ID       int64     `json:"id"`
	Folio    string    `json:"folio"`
	Producto string    `json:"producto"`
	Cantidad float64   `json:"cantidad"`
	Estado   string    `json:"estado"`
	Creada   time.Time `json:"creada"`
}

// Receta is a bill of materials for one product.
type Receta struct {
	ID         int64         `json:"id"`
	Nombre     string        `json:"nombre"`
	ProductoID int64         `json:"producto_id"`
	Producto   string        `json:"producto,omitempty"`
	Lineas     []RecetaLinea `json:"lineas,omitempty"`
}

// RecetaLinea is one component line of a recipe.
type RecetaLinea struct {
	MaterialID int64   `json:"material_id"`
	Material   string  `json:"material,omitempty"`
	Cantidad   float64 `json:"cantidad"`
	Unidad     string  `json:"unidad,omitempty"`
}

// ListOrdenes fetches production orders.
func (c *Client) ListOrdenes(ctx context.Context) ([]Orden, error) {
	var out []Orden
	if err := c.get(ctx, "/ordenes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecetas fetches recipe headers.
func (c *Client) ListRecetas(ctx context.Context) ([]Receta, error) {
	var out []Receta
	if err := c.get(ctx, "/recetas", &out); err != nil {
		return nil, err
	}
	return out, nil
}
