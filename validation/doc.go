// Package validation checks caller input before it reaches storage or
// token issuance, reporting problems as INVALID_INPUT errors.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection.
//
// # Struct Tag Validation
//
//	type registerInput struct {
//	    Username string `validate:"required,max=150"`
//	    Password string `validate:"required"`
//	}
//	err := validation.Validate(in)
//
// # Programmatic Validation
//
//	v := validation.New().
//	    Required("email", email).
//	    Pattern("email", email, `^[^@\s]+@[^@\s]+$`)
//	err := v.Validate()
package validation
