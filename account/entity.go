// Package account implements credential registration, login, external
// identity login, and token-gated authorization.
package account

import "github.com/smplatform/identity/dal"

// Credential is a stored account record in users.customer. It is created
// on registration, read on login, and never mutated by this package.
type Credential struct {
	ID       *int64  `db:"id"`
	Username string  `db:"username"`
	Password string  `db:"password"`
	FullName *string `db:"full_name"`
	GoogleID *string `db:"google_id"`
}

// EntityDescriptor implements dal.Entity.
func (Credential) EntityDescriptor() dal.Descriptor {
	return dal.Descriptor{Schema: "users", Table: "customer"}
}
