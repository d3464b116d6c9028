package types

// Product is an item the business imports and sells.
type Product struct {
	ID          ID      `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
	Stock       int     `json:"stock"`
}

// EntityID returns the product id.
func (p Product) EntityID() ID { return p.ID }

// Field returns the value of the field with the given JSON name.
func (p Product) Field(name string) (any, bool) {
	switch name {
	case "id":
		return string(p.ID), true
	case "code":
		return p.Code, true
	case "name":
		return p.Name, true
	case "description":
		return optString(p.Description), true
	case "category":
		return optString(p.Category), true
	case "price":
		return p.Price, true
	case "cost":
		return p.Cost, true
	case "stock":
		return p.Stock, true
	}
	return nil, false
}

// StockValue is the stock valued at cost.
func (p Product) StockValue() float64 {
	return p.Cost * float64(p.Stock)
}
