package group

import (
	"fmt"
	"reflect"

	"component-group/world"
)

// Binding is the derived protocol implementation for one record type R. It is
// synthesized once by Derive and is immutable and safe to reuse across calls
// and across worlds.
type Binding[R any] struct {
	schema *Schema
	frags  []fragments

	// payload types in schema order; required and optional are the same types
	// split by class for the join, slot maps each field to its join-row slot.
	payloads []reflect.Type
	required []reflect.Type
	optional []reflect.Type
	slot     []int
}

// Derive classifies R's fields and synthesizes the protocol operations.
// It fails when R violates a schema precondition.
func Derive[R any]() (*Binding[R], error) {
	schema, err := SchemaOf(reflect.TypeFor[R]())
	if err != nil {
		return nil, err
	}

	b := &Binding[R]{
		schema:   schema,
		payloads: schema.payloads(),
		slot:     make([]int, len(schema.fields)),
	}
	for _, f := range schema.fields {
		b.frags = append(b.frags, synthesize(f))
	}

	// join rows carry required slots first, then optional, each in schema order
	n := 0
	for i, f := range schema.fields {
		if !f.Optional() {
			b.slot[i] = n
			b.required = append(b.required, f.Payload)
			n++
		}
	}
	for i, f := range schema.fields {
		if f.Optional() {
			b.slot[i] = n
			b.optional = append(b.optional, f.Payload)
			n++
		}
	}
	return b, nil
}

// MustDerive is Derive that panics on a schema precondition violation.
func MustDerive[R any]() *Binding[R] {
	b, err := Derive[R]()
	if err != nil {
		panic(err)
	}
	return b
}

// Schema returns the classified schema backing this binding.
func (b *Binding[R]) Schema() *Schema { return b.schema }

// FirstMatch returns the first entity, in the world's own enumeration order,
// that carries every required field's component, together with the populated
// record. Optional fields do not constrain candidacy; when absent they load
// as None. Read-only.
func (b *Binding[R]) FirstMatch(w world.World) (world.Entity, R, bool) {
	var rec R
	hard, soft := b.joinStorages(w)
	for row := range w.Join(hard, soft) {
		b.populate(&rec, row)
		return row.Entity, rec, true
	}
	return world.Entity{}, rec, false
}

// ExactlyOne returns the single matching record. It fails with ErrNoMatch
// when nothing matches and ErrAmbiguous when a second entity does.
func (b *Binding[R]) ExactlyOne(w world.World) (R, error) {
	var rec R
	hard, soft := b.joinStorages(w)

	matched := false
	for row := range w.Join(hard, soft) {
		if matched {
			var zero R
			return zero, ErrAmbiguous
		}
		b.populate(&rec, row)
		matched = true
	}
	if !matched {
		return rec, ErrNoMatch
	}
	return rec, nil
}

// Load populates a record for an entity already known to satisfy the schema.
// A missing required component is a broken caller invariant and panics;
// callers that cannot guarantee presence belong at FirstMatch or ExactlyOne.
func (b *Binding[R]) Load(w world.World, e world.Entity) R {
	var rec R
	storages, err := w.ReadStorages(b.payloads...)
	if err != nil {
		panic(fmt.Sprintf("bug: acquiring read storages for %s: %v", b.schema.record, err))
	}
	rv := reflect.ValueOf(&rec).Elem()
	for i, f := range b.schema.fields {
		b.frags[i].load(storages[i], e, rv.Field(f.Index))
	}
	return rec
}

// Create materializes a new entity carrying the record's values. Optional
// None fields are never attached.
func (b *Binding[R]) Create(rec R, w world.World) world.Entity {
	builder := w.CreateEntity()
	rv := reflect.ValueOf(&rec).Elem()
	for i, f := range b.schema.fields {
		builder = b.frags[i].attach(builder, rv.Field(f.Index))
	}
	return builder.Finish()
}

// Update overwrites the entity's schema components with the record's values,
// in schema order, leaving non-schema components untouched. Optional None
// fields are detached. The first failing required write aborts the remaining
// fields, so a failed update may leave the entity half-updated.
func (b *Binding[R]) Update(rec R, w world.World, e world.Entity) error {
	storages, err := w.WriteStorages(b.payloads...)
	if err != nil {
		return fmt.Errorf("acquire write storages for %s: %w", b.schema.record, err)
	}
	rv := reflect.ValueOf(&rec).Elem()
	for i, f := range b.schema.fields {
		if err := b.frags[i].update(storages[i], e, rv.Field(f.Index)); err != nil {
			return err
		}
	}
	return nil
}

// Remove detaches every schema component from the entity and returns their
// prior values. A missing required component panics, mirroring Load.
func (b *Binding[R]) Remove(w world.World, e world.Entity) R {
	var rec R
	storages, err := w.WriteStorages(b.payloads...)
	if err != nil {
		panic(fmt.Sprintf("bug: acquiring write storages for %s: %v", b.schema.record, err))
	}
	rv := reflect.ValueOf(&rec).Elem()
	for i, f := range b.schema.fields {
		b.frags[i].remove(storages[i], e, rv.Field(f.Index))
	}
	return rec
}

// joinStorages acquires every field's read storage in one batch and splits
// the handles into the join's hard (required) and soft (optional) inputs.
func (b *Binding[R]) joinStorages(w world.World) (hard, soft []world.ReadStorage) {
	types := make([]reflect.Type, 0, len(b.required)+len(b.optional))
	types = append(types, b.required...)
	types = append(types, b.optional...)

	storages, err := w.ReadStorages(types...)
	if err != nil {
		panic(fmt.Sprintf("bug: acquiring read storages for %s: %v", b.schema.record, err))
	}
	return storages[:len(b.required)], storages[len(b.required):]
}

func (b *Binding[R]) populate(rec *R, row world.Row) {
	rv := reflect.ValueOf(rec).Elem()
	for i, f := range b.schema.fields {
		b.frags[i].row(row.Values[b.slot[i]], rv.Field(f.Index))
	}
}
