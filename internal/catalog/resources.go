package catalog

import "github.com/mesh-intelligence/backdesk/pkg/types"

// standardResources lists the back-office resources. Paths and envelopes
// follow the backend as deployed; customers, products and inventory
// movements answer list requests inside a {"data": [...]} envelope.
func standardResources() []types.Resource {
	return []types.Resource{
		{
			Name:         types.ResourceCustomers,
			Path:         "/customers",
			Envelope:     types.EnvelopeData,
			SearchFields: []string{"name", "email", "phone", "tax_id"},
			Fields: []types.Field{
				{Name: "name", Kind: types.KindString, Default: "", Validators: []types.Validator{types.Required(), types.MaxLength(120)}},
				{Name: "email", Kind: types.KindString, Default: "", Validators: []types.Validator{types.Required(), types.Email()}},
				{Name: "phone", Kind: types.KindNullableString},
				{Name: "address", Kind: types.KindNullableString},
				{Name: "tax_id", Kind: types.KindNullableString, Validators: []types.Validator{types.MaxLength(32)}},
			},
		},
		{
			Name:         types.ResourceProducts,
			Path:         "/products",
			Envelope:     types.EnvelopeData,
			SearchFields: []string{"code", "name", "category"},
			Fields: []types.Field{
				{Name: "code", Kind: types.KindString, Default: "", Validators: []types.Validator{types.Required(), types.MaxLength(40)}},
				{Name: "name", Kind: types.KindString, Default: "", Validators: []types.Validator{types.Required()}},
				{Name: "description", Kind: types.KindNullableString},
				{Name: "category", Kind: types.KindNullableString},
				{Name: "price", Kind: types.KindNumber, Default: 0.0, Validators: []types.Validator{types.NonNegative()}},
				{Name: "cost", Kind: types.KindNumber, Default: 0.0, Validators: []types.Validator{types.NonNegative()}},
				{Name: "stock", Kind: types.KindInteger, Default: 0, Validators: []types.Validator{types.NonNegative()}},
			},
		},
		{
			Name:         types.ResourceSuppliers,
			Path:         "/suppliers",
			Envelope:     types.EnvelopeBare,
			SearchFields: []string{"name", "contact", "email", "country"},
			Fields: []types.Field{
				{Name: "name", Kind: types.KindString, Default: "", Validators: []types.Validator{types.Required()}},
				{Name: "contact", Kind: types.KindNullableString},
				{Name: "email", Kind: types.KindString, Default: "", Validators: []types.Validator{types.Email()}},
				{Name: "phone", Kind: types.KindNullableString},
				{Name: "country", Kind: types.KindNullableString},
			},
		},
		{
			Name:         types.ResourcePurchases,
			Path:         "/purchases",
			Envelope:     types.EnvelopeBare,
			SearchFields: []string{"reference", "status", "supplier_id"},
			Fields: []types.Field{
				{Name: "reference", Kind: types.KindString, Default: "", Validators: []types.Validator{types.Required()}},
				{Name: "supplier_id", Kind: types.KindString, Default: "", Validators: []types.Validator{types.Required()}},
				{Name: "date", Kind: types.KindString, Default: ""},
				{Name: "status", Kind: types.KindString, Default: types.PurchasePending, Validators: []types.Validator{
					types.OneOf(types.PurchasePending, types.PurchaseReceived, types.PurchaseCanceled),
				}},
				{Name: "currency", Kind: types.KindString, Default: "USD"},
				{Name: "total", Kind: types.KindNumber, Default: 0.0, Validators: []types.Validator{types.NonNegative()}},
				{Name: "notes", Kind: types.KindNullableString},
			},
		},
		{
			Name:         types.ResourceQuotes,
			Path:         "/quotes",
			Envelope:     types.EnvelopeBare,
			SearchFields: []string{"number", "status", "customer_id"},
			Fields: []types.Field{
				{Name: "number", Kind: types.KindString, Default: ""},
				{Name: "customer_id", Kind: types.KindString, Default: "", Validators: []types.Validator{types.Required()}},
				{Name: "date", Kind: types.KindString, Default: ""},
				{Name: "valid_until", Kind: types.KindNullableString},
				{Name: "status", Kind: types.KindString, Default: types.DocumentDraft, Validators: []types.Validator{
					types.OneOf(types.DocumentDraft, types.DocumentSent, types.DocumentAccepted, types.DocumentVoid),
				}},
				{Name: "total", Kind: types.KindNumber, Default: 0.0, Validators: []types.Validator{types.NonNegative()}},
			},
		},
		{
			Name:         types.ResourceInvoices,
			Path:         "/invoices",
			Envelope:     types.EnvelopeData,
			SearchFields: []string{"number", "status", "customer_id"},
			Fields: []types.Field{
				{Name: "number", Kind: types.KindString, Default: ""},
				{Name: "customer_id", Kind: types.KindString, Default: "", Validators: []types.Validator{types.Required()}},
				{Name: "date", Kind: types.KindString, Default: ""},
				{Name: "due_date", Kind: types.KindNullableString},
				{Name: "status", Kind: types.KindString, Default: types.DocumentDraft, Validators: []types.Validator{
					types.OneOf(types.DocumentDraft, types.DocumentSent, types.DocumentPaid, types.DocumentVoid),
				}},
				{Name: "subtotal", Kind: types.KindNumber, Default: 0.0, Validators: []types.Validator{types.NonNegative()}},
				{Name: "tax", Kind: types.KindNumber, Default: 0.0, Validators: []types.Validator{types.NonNegative()}},
				{Name: "total", Kind: types.KindNumber, Default: 0.0, Validators: []types.Validator{types.NonNegative()}},
			},
		},
		{
			Name:         types.ResourceUsers,
			Path:         "/users",
			Envelope:     types.EnvelopeBare,
			SearchFields: []string{"name", "email", "role"},
			Fields: []types.Field{
				{Name: "name", Kind: types.KindString, Default: "", Validators: []types.Validator{types.Required()}},
				{Name: "email", Kind: types.KindString, Default: "", Validators: []types.Validator{types.Required(), types.Email()}},
				{Name: "role", Kind: types.KindString, Default: types.RoleViewer, Validators: []types.Validator{
					types.Required(), types.OneOf(types.RoleAdmin, types.RoleSeller, types.RoleViewer),
				}},
				{Name: "active", Kind: types.KindBool, Default: true},
			},
		},
		{
			Name:         types.ResourceInventoryMovements,
			Path:         "/inventory-movements",
			Envelope:     types.EnvelopeData,
			SearchFields: []string{"product_id", "type", "reason"},
			Fields: []types.Field{
				{Name: "product_id", Kind: types.KindString, Default: "", Validators: []types.Validator{types.Required()}},
				{Name: "type", Kind: types.KindString, Default: types.MovementIn, Validators: []types.Validator{
					types.Required(), types.OneOf(types.MovementIn, types.MovementOut, types.MovementAdjustment),
				}},
				{Name: "quantity", Kind: types.KindInteger, Default: 0, Validators: []types.Validator{types.Required(), types.NonNegative()}},
				{Name: "reason", Kind: types.KindNullableString},
				{Name: "date", Kind: types.KindString, Default: ""},
			},
		},
	}
}
