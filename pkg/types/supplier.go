package types

// Supplier is a vendor goods are purchased from.
type Supplier struct {
	ID      ID      `json:"id"`
	Name    string  `json:"name"`
	Contact *string `json:"contact"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Country *string `json:"country"`
}

// EntityID returns the supplier id.
func (s Supplier) EntityID() ID { return s.ID }

// Field returns the value of the field with the given JSON name.
func (s Supplier) Field(name string) (any, bool) {
	switch name {
	case "id":
		return string(s.ID), true
	case "name":
		return s.Name, true
	case "contact":
		return optString(s.Contact), true
	case "email":
		return s.Email, true
	case "phone":
		return optString(s.Phone), true
	case "country":
		return optString(s.Country), true
	}
	return nil, false
}
