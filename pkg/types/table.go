package types

import "context"

// Lister fetches the raw list payload of a resource. The returned bytes are
// the JSON array after the resource's envelope has been removed.
type Lister interface {
	List(ctx context.Context, res Resource) ([]byte, error)
}

// Mutator sends create, update and delete requests for a resource.
// Create and Update return the raw entity payload returned by the backend,
// unwrapped from the resource envelope; it may be empty.
type Mutator interface {
	Create(ctx context.Context, res Resource, draft Draft) ([]byte, error)
	Update(ctx context.Context, res Resource, id ID, draft Draft) ([]byte, error)
	Delete(ctx context.Context, res Resource, id ID) error
}

// Table provides uniform remote CRUD operations for every resource.
type Table interface {
	Lister
	Mutator
}
