package types

// Purchase statuses.
const (
	PurchasePending  = "pending"
	PurchaseReceived = "received"
	PurchaseCanceled = "canceled"
)

// Purchase is an order placed with a supplier.
type Purchase struct {
	ID         ID      `json:"id"`
	Reference  string  `json:"reference"`
	SupplierID ID      `json:"supplier_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Currency   string  `json:"currency"`
	Total      float64 `json:"total"`
	Notes      *string `json:"notes"`
}

// EntityID returns the purchase id.
func (p Purchase) EntityID() ID { return p.ID }

// Field returns the value of the field with the given JSON name.
func (p Purchase) Field(name string) (any, bool) {
	switch name {
	case "id":
		return string(p.ID), true
	case "reference":
		return p.Reference, true
	case "supplier_id":
		return string(p.SupplierID), true
	case "date":
		return p.Date, true
	case "status":
		return p.Status, true
	case "currency":
		return p.Currency, true
	case "total":
		return p.Total, true
	case "notes":
		return optString(p.Notes), true
	}
	return nil, false
}
