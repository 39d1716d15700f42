package group

import (
	"fmt"
	"reflect"

	"component-group/world"
)

// fragments is the per-field behavior one classified field contributes to
// each protocol operation. The operations compose these across every field in
// schema order.
type fragments struct {
	// row populates the record field from one join-row slot (nil = absent).
	row func(v any, field reflect.Value)
	// load populates the record field from a read storage.
	load func(st world.ReadStorage, e world.Entity, field reflect.Value)
	// attach adds the field's component to an entity under construction.
	attach func(b world.Builder, field reflect.Value) world.Builder
	// update overwrites the entity's component with the field's value.
	update func(st world.WriteStorage, e world.Entity, field reflect.Value) error
	// remove detaches the component and captures the prior value in the field.
	remove func(st world.WriteStorage, e world.Entity, field reflect.Value)
}

func synthesize(f ClassifiedField) fragments {
	if f.Optional() {
		return optionalFragments(f)
	}
	return requiredFragments(f)
}

// requiredFragments treats a missing component during load or remove as a
// broken caller invariant: the entity was supposed to satisfy the schema.
func requiredFragments(f ClassifiedField) fragments {
	return fragments{
		row: func(v any, field reflect.Value) {
			field.Set(reflect.ValueOf(v))
		},
		load: func(st world.ReadStorage, e world.Entity, field reflect.Value) {
			v, ok := st.Get(e)
			if !ok {
				panic(missingComponent(f, e))
			}
			field.Set(reflect.ValueOf(v))
		},
		attach: func(b world.Builder, field reflect.Value) world.Builder {
			return b.Attach(field.Interface())
		},
		update: func(st world.WriteStorage, e world.Entity, field reflect.Value) error {
			if err := st.Insert(e, field.Interface()); err != nil {
				return &UpdateError{Field: f.Name, Component: f.Payload, Err: err}
			}
			return nil
		},
		remove: func(st world.WriteStorage, e world.Entity, field reflect.Value) {
			v, ok := st.Remove(e)
			if !ok {
				panic(missingComponent(f, e))
			}
			field.Set(reflect.ValueOf(v))
		},
	}
}

// optionalFragments never fails: absence is the None value of the wrapper at
// every operation.
func optionalFragments(f ClassifiedField) fragments {
	set := func(field reflect.Value, v any) {
		field.Field(f.valueIndex).Set(reflect.ValueOf(v))
		field.Field(f.presentIndex).SetBool(true)
	}
	present := func(field reflect.Value) bool {
		return field.Field(f.presentIndex).Bool()
	}
	value := func(field reflect.Value) any {
		return field.Field(f.valueIndex).Interface()
	}

	return fragments{
		row: func(v any, field reflect.Value) {
			if v != nil {
				set(field, v)
			}
		},
		load: func(st world.ReadStorage, e world.Entity, field reflect.Value) {
			if v, ok := st.Get(e); ok {
				set(field, v)
			}
		},
		attach: func(b world.Builder, field reflect.Value) world.Builder {
			if !present(field) {
				// the component is simply never attached
				return b
			}
			return b.Attach(value(field))
		},
		update: func(st world.WriteStorage, e world.Entity, field reflect.Value) error {
			if !present(field) {
				// explicit detach, idempotent when already absent
				st.Remove(e)
				return nil
			}
			if err := st.Insert(e, value(field)); err != nil {
				return &UpdateError{Field: f.Name, Component: f.Payload, Err: err}
			}
			return nil
		},
		remove: func(st world.WriteStorage, e world.Entity, field reflect.Value) {
			if v, ok := st.Remove(e); ok {
				set(field, v)
			}
		},
	}
}

func missingComponent(f ClassifiedField, e world.Entity) string {
	return fmt.Sprintf("bug: expected a %s component to be present on %s", typeStr(f.Payload), e)
}
