package types

// Standard resource names.
const (
	ResourceCustomers          = "customers"
	ResourceProducts           = "products"
	ResourceSuppliers          = "suppliers"
	ResourcePurchases          = "purchases"
	ResourceQuotes             = "quotes"
	ResourceInvoices           = "invoices"
	ResourceUsers              = "users"
	ResourceInventoryMovements = "inventory-movements"
)

// StandardResourceNames lists the standard resources for enumeration.
var StandardResourceNames = []string{
	ResourceCustomers,
	ResourceProducts,
	ResourceSuppliers,
	ResourcePurchases,
	ResourceQuotes,
	ResourceInvoices,
	ResourceUsers,
	ResourceInventoryMovements,
}
