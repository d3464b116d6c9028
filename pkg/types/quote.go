package types

// Quote and invoice statuses.
const (
	DocumentDraft    = "draft"
	DocumentSent     = "sent"
	DocumentAccepted = "accepted"
	DocumentPaid     = "paid"
	DocumentVoid     = "void"
)

// Quote is a price quotation sent to a customer.
type Quote struct {
	ID         ID      `json:"id"`
	Number     string  `json:"number"`
	CustomerID ID      `json:"customer_id"`
	Date       string  `json:"date"`
	ValidUntil *string `json:"valid_until"`
	Status     string  `json:"status"`
	Total      float64 `json:"total"`
}

// EntityID returns the quote id.
func (q Quote) EntityID() ID { return q.ID }

// Field returns the value of the field with the given JSON name.
func (q Quote) Field(name string) (any, bool) {
	switch name {
	case "id":
		return string(q.ID), true
	case "number":
		return q.Number, true
	case "customer_id":
		return string(q.CustomerID), true
	case "date":
		return q.Date, true
	case "valid_until":
		return optString(q.ValidUntil), true
	case "status":
		return q.Status, true
	case "total":
		return q.Total, true
	}
	return nil, false
}

// Invoice is a bill issued to a customer.
type Invoice struct {
	ID         ID      `json:"id"`
	Number     string  `json:"number"`
	CustomerID ID      `json:"customer_id"`
	Date       string  `json:"date"`
	DueDate    *string `json:"due_date"`
	Status     string  `json:"status"`
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	Total      float64 `json:"total"`
}

// EntityID returns the invoice id.
func (i Invoice) EntityID() ID { return i.ID }

// Field returns the value of the field with the given JSON name.
func (i Invoice) Field(name string) (any, bool) {
	switch name {
	case "id":
		return string(i.ID), true
	case "number":
		return i.Number, true
	case "customer_id":
		return string(i.CustomerID), true
	case "date":
		return i.Date, true
	case "due_date":
		return optString(i.DueDate), true
	case "status":
		return i.Status, true
	case "subtotal":
		return i.Subtotal, true
	case "tax":
		return i.Tax, true
	case "total":
		return i.Total, true
	}
	return nil, false
}
