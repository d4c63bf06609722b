package erp

import "context"

// Producto is a finished-goods catalog entry.
type Producto struct {
	ID     int64   `json:"id"`
	Codigo string  `json:"codigo"`
	Nombre string  `json:"nombre"`
	Size   string  `json:"size,omitempty"`
	Color  string  `json:"color,omitempty"`
	Precio float64 `json:"precio"`
	Activo bool    `json:"activo"`
}

// Material is a raw-material catalog entry.
type Material struct {
	ID     int64   `json:"id"`
	Codigo string  `json:"codigo"`
	Nombre string  `json:"nombre"`
	Unidad string  `json:"unidad"`
	Costo  float64 `json:"costo"`
}

// CatalogItem covers the small lookup tables: sizes, colores, unidades.
type CatalogItem struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}

// ListProductos fetches the finished-goods catalog.
func (c *Client) ListProductos(ctx context.Context) ([]Producto, error) {
	var out []Producto
	if err := c.get(ctx, "/productos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMateriales fetches the raw-material catalog.
func (c *Client) ListMateriales(ctx context.Context) ([]Material, error) {
	var out []Material
	if err := c.get(ctx, "/materiales", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSizes fetches the size lookup table.
func (c *Client) ListSizes(ctx context.Context) ([]CatalogItem, error) {
	var out []CatalogItem
	if err := c.get(ctx, "/sizes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListColores fetches the color lookup table.
func (c *Client) ListColores(ctx context.Context) ([]CatalogItem, error) {
	var out []CatalogItem
	if err := c.get(ctx, "/colores", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUnidades fetches the unit-of-measure lookup table.
func (c *Client) ListUnidades(ctx context.Context) ([]CatalogItem, error) {
	var out []CatalogItem
	if err := c.get(ctx, "/unidades", &out); err != nil {
		return nil, err
	}
	return out, nil
}
