package types

// Customer is a buyer of the business.
type Customer struct {
	ID      ID      `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	TaxID   *string `json:"tax_id"`
}

// EntityID returns the customer id.
func (c Customer) EntityID() ID { return c.ID }

// Field returns the value of the field with the given JSON name.
func (c Customer) Field(name string) (any, bool) {
	switch name {
	case "id":
		return string(c.ID), true
	case "name":
		return c.Name, true
	case "email":
		return c.Email, true
	case "phone":
		return optString(c.Phone), true
	case "address":
		return optString(c.Address), true
	case "tax_id":
		return optString(c.TaxID), true
	}
	return nil, false
}
