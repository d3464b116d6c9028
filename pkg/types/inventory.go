package types

// Inventory movement kinds.
const (
	MovementIn         = "in"
	MovementOut        = "out"
	MovementAdjustment = "adjustment"
)

// InventoryMovement records stock entering or leaving the warehouse.
type InventoryMovement struct {
	ID        ID      `json:"id"`
	ProductID ID      `json:"product_id"`
	Kind      string  `json:"type"`
	Quantity  int     `json:"quantity"`
	Reason    *string `json:"reason"`
	Date      string  `json:"date"`
}

// EntityID returns the movement id.
func (m InventoryMovement) EntityID() ID { return m.ID }

// Field returns the value of the field with the given JSON name.
func (m InventoryMovement) Field(name string) (any, bool) {
	switch name {
	case "id":
		return string(m.ID), true
	case "product_id":
		return string(m.ProductID), true
	case "type":
		return m.Kind, true
	case "quantity":
		return m.Quantity, true
	case "reason":
		return optString(m.Reason), true
	case "date":
		return m.Date, true
	}
	return nil, false
}

// SignedQuantity is the stock delta: positive for "in", negative for "out".
func (m InventoryMovement) SignedQuantity() int {
	if m.Kind == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}
