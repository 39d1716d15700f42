// Package group derives, from the shape of a record struct, the behavior for
// moving that record's worth of components in and out of a world.
//
// Derivation pipeline:
//  1. Classify each record field as required or optional from its declared
//     type (Option[T] fields are optional, everything else required)
//  2. Validate the schema preconditions (struct shape, at least one field,
//     exported fields, well-formed optional wrappers)
//  3. Synthesize per-field behavior fragments and compose them into the
//     protocol operations: FirstMatch, ExactlyOne, Load, Create, Update,
//     Remove
//
// The package never stores components itself; every operation is a
// composition of calls against the world contract.
package group
