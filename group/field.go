package group

import (
	"reflect"
	"strings"
)

//go:generate go tool stringer -type=ClassEnum

type ClassEnum int

const (
	ClassRequired ClassEnum = iota
	ClassOptional
)

// MarshalText renders the class by its constant name.
func (i ClassEnum) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// FieldSpec is one field of the record schema as declared by the user.
type FieldSpec struct {
	Name     string
	Declared reflect.Type
	// Index is the field's position in the record struct.
	Index int
}

// ClassifiedField is the classifier's verdict for one field.
type ClassifiedField struct {
	Name string
	// Payload is the component type actually stored per entity: the declared
	// type for required fields, the wrapper's value type for optional ones.
	Payload reflect.Type
	Class   ClassEnum
	Index   int

	// wrapper field offsets, meaningful only when Class == ClassOptional
	valueIndex   int
	presentIndex int
}

// Optional reports whether the field's component may be absent.
func (f ClassifiedField) Optional() bool { return f.Class == ClassOptional }

// Classify decides whether a field is required or optional. It is total: any
// field that fails the optional-wrapper test is simply required.
//
// The test is on the instantiated type name, not on type identity: a field is
// optional iff its declared type is a struct named Option with exactly one
// type argument and a field named Value. The classifier has no resolution
// information beyond reflect, so a look-alike Option defined elsewhere is
// classified optional too, and a wrapper under another name (Maybe[T]) is
// required. This is a documented limitation, kept on purpose.
func Classify(f FieldSpec) ClassifiedField {
	out := ClassifiedField{
		Name:    f.Name,
		Payload: f.Declared,
		Class:   ClassRequired,
		Index:   f.Index,
	}

	t := f.Declared
	if t.Name() == "" || t.Kind() != reflect.Struct {
		// unnamed types (pointers, slices, maps, ...) and named non-structs
		// cannot be the wrapper
		return out
	}
	if !isOptionName(t.Name()) {
		return out
	}
	value, ok := t.FieldByName("Value")
	if !ok {
		// wrapper shape is not introspectable, fall through to required
		return out
	}

	out.Payload = value.Type
	out.Class = ClassOptional
	out.valueIndex = value.Index[0]
	return out
}

// isOptionName reports whether name is an instantiation of a generic type
// named exactly Option carrying a single type argument.
func isOptionName(name string) bool {
	const prefix = "Option["
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, "]") {
		return false
	}
	arg := name[len(prefix) : len(name)-1]
	if arg == "" {
		return false
	}
	depth := 0
	for _, r := range arg {
		switch r {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ',':
			if depth == 0 {
				// two or more type arguments
				return false
			}
		}
	}
	return true
}
