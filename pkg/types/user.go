package types

// User roles.
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
	RoleViewer = "viewer"
)

// User is an operator account of the back office.
type User struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// EntityID returns the user id.
func (u User) EntityID() ID { return u.ID }

// Field returns the value of the field with the given JSON name.
func (u User) Field(name string) (any, bool) {
	switch name {
	case "id":
		return string(u.ID), true
	case "name":
		return u.Name, true
	case "email":
		return u.Email, true
	case "role":
		return u.Role, true
	case "active":
		return u.Active, true
	}
	return nil, false
}
