package rbac

// Permission slugs referenced by the console's own route table. The backend
// issues free-form "<module>.<action>" slugs; these constants only keep the
// route wiring typo-checked, they are not a closed catalog.
const (
	PermProductosView   = "productos.view"
	PermProductosCreate = "productos.create"
	PermProductosEdit   = "productos.edit"

	PermMaterialesView = "materiales.view"
	PermSizesView      = "sizes.view"
	PermColoresView    = "colores.view"
	PermUnidadesView   = "unidades.view"

	PermAlmacenesView   = "almacenes.view"
	PermMovimientosView = "movimientos.view"
	PermInventarioView  = "inventario.view"

	PermOrdenesView   = "orden.view"
	PermOrdenesCreate = "orden.create"
	PermRecetasView   = "recetas.view"

	PermUsuariosView   = "usuarios.view"
	PermUsuariosCreate = "usuarios.create"
	PermUsuariosEdit   = "usuarios.edit"

	PermRolesView       = "roles.view"
	PermRolesCreate     = "roles.create"
	PermRolesEdit       = "roles.edit"
	PermRolesAssignPerm = "roles.assign_permissions"
)
