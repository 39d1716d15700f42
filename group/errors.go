package group

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNoMatch reports that no entity carries all of the group's required
	// components.
	ErrNoMatch = errors.New("no entity matches the component group")
	// ErrAmbiguous reports that more than one entity matches when exactly one
	// was expected.
	ErrAmbiguous = errors.New("more than one entity matches the component group")
)

// UpdateError reports the first schema field whose storage write failed
// during Update. Fields later in schema order are left un-updated; callers
// must treat the entity as possibly half-updated.
type UpdateError struct {
	// Field is the record field whose write failed.
	Field string
	// Component is the field's payload type.
	Component reflect.Type
	// Err is the storage-level cause.
	Err error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update field %s (%s): %v", e.Field, typeStr(e.Component), e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }
