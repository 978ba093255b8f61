package shared

import (
	"strings"
)

// Principal is the authenticated caller as reported by the identity provider.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Owner is the data scope every repository query is filtered by. The zero
// value is not a valid scope; obtain one through NewOwner or Principal.Owner.
type Owner struct {
	id string
}

// NewOwner builds an owner scope from an opaque identifier.
func NewOwner(id string) (Owner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Owner{}, ErrOwnerRequired
	}
	return Owner{id: id}, nil
}

// MustOwner is NewOwner for identifiers known to be valid, such as CLI flags
// already checked by the caller or test fixtures.
func MustOwner(id string) Owner {
	owner, err := NewOwner(id)
	if err != nil {
		panic(err)
	}
	return owner
}

// ID returns the opaque owner identifier.
func (o Owner) ID() string {
	return o.id
}

// Valid reports whether the owner was constructed from a non-empty identifier.
func (o Owner) Valid() bool {
	return o.id != ""
}

// String implements fmt.Stringer.
func (o Owner) String() string {
	return o.id
}

// Owner returns the data scope for the principal.
func (p Principal) Owner() (Owner, error) {
	return NewOwner(p.ID)
}
