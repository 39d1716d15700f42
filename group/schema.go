package group

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNotAStruct       = errors.New("only structs with named fields are supported")
	ErrNoFields         = errors.New("struct must have at least one field to derive a component group")
	ErrUnexportedField  = errors.New("component group fields must be exported")
	ErrBadOptionWrapper = errors.New("optional wrapper must carry a bool field named Present")
)

// Schema is the ordered classification of one record type's fields. Field
// order is exactly declaration order; storage acquisition and join-row slots
// are positional per this order.
type Schema struct {
	record reflect.Type
	fields []ClassifiedField
}

// SchemaOf classifies every field of the record type. It fails when the
// record violates a schema precondition; no partial schema is produced.
func SchemaOf(record reflect.Type) (*Schema, error) {
	if record == nil || record.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%v: %w", record, ErrNotAStruct)
	}
	if record.NumField() == 0 {
		return nil, fmt.Errorf("%s: %w", record, ErrNoFields)
	}

	fields := make([]ClassifiedField, 0, record.NumField())
	for i := 0; i < record.NumField(); i++ {
		sf := record.Field(i)
		if sf.PkgPath != "" {
			return nil, fmt.Errorf("%s.%s: %w", record, sf.Name, ErrUnexportedField)
		}

		cf := Classify(FieldSpec{Name: sf.Name, Declared: sf.Type, Index: i})
		if cf.Optional() {
			present, ok := sf.Type.FieldByName("Present")
			if !ok || present.Type.Kind() != reflect.Bool {
				return nil, fmt.Errorf("%s.%s (%s): %w", record, sf.Name, sf.Type, ErrBadOptionWrapper)
			}
			cf.presentIndex = present.Index[0]
		}
		fields = append(fields, cf)
	}

	return &Schema{record: record, fields: fields}, nil
}

// Record returns the record type the schema was built from.
func (s *Schema) Record() reflect.Type { return s.record }

// Fields returns the classified fields in declaration order.
func (s *Schema) Fields() []ClassifiedField { return s.fields }

// payloads returns every field's component type in schema order.
func (s *Schema) payloads() []reflect.Type {
	out := make([]reflect.Type, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Payload
	}
	return out
}
