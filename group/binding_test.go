package group_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"component-group/group"
	"component-group/memworld"
	"component-group/world"
)

type Position struct{ X, Y int }

type Health struct{ Points uint }

type Animation struct{ Frame int }

// NotInGroup is attached to entities directly and must never be touched by
// the group operations.
type NotInGroup struct{ Tag string }

// PlayerComponents is the canonical test group: two required fields and one
// component that is allowed to not be present.
type PlayerComponents struct {
	Position  Position
	Health    Health
	Animation group.Option[Animation]
}

func newPlayer(t *testing.T) *group.Binding[PlayerComponents] {
	t.Helper()

	player, err := group.Derive[PlayerComponents]()
	require.NoError(t, err)
	return player
}

func samplePlayer() PlayerComponents {
	return PlayerComponents{
		Position:  Position{X: 12, Y: 59},
		Health:    Health{Points: 5},
		Animation: group.Some(Animation{Frame: 2}),
	}
}

func getComp[T any](t *testing.T, w *memworld.World, e world.Entity) (T, bool) {
	t.Helper()

	storages, err := w.ReadStorages(reflect.TypeFor[T]())
	require.NoError(t, err)
	v, ok := storages[0].Get(e)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

func insertComp[T any](t *testing.T, w *memworld.World, e world.Entity, v T) {
	t.Helper()

	storages, err := w.WriteStorages(reflect.TypeFor[T]())
	require.NoError(t, err)
	require.NoError(t, storages[0].Insert(e, v))
}

func removeComp[T any](t *testing.T, w *memworld.World, e world.Entity) {
	t.Helper()

	storages, err := w.WriteStorages(reflect.TypeFor[T]())
	require.NoError(t, err)
	_, ok := storages[0].Remove(e)
	require.True(t, ok)
}

func TestCreateWithOptionalComponent(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()

	// optional None: the component is never attached, not attached-then-removed
	none := samplePlayer()
	none.Animation = group.None[Animation]()
	e1 := player.Create(none, w)

	_, ok := getComp[Position](t, w, e1)
	assert.True(t, ok)
	_, ok = getComp[Health](t, w, e1)
	assert.True(t, ok)
	_, ok = getComp[Animation](t, w, e1)
	assert.False(t, ok)
	assert.Zero(t, w.InsertCount(reflect.TypeFor[Animation]()))

	// optional Some: attached like any other component
	e2 := player.Create(samplePlayer(), w)
	anim, ok := getComp[Animation](t, w, e2)
	assert.True(t, ok)
	assert.Equal(t, Animation{Frame: 2}, anim)
}

func TestCreateLoadRoundTrip(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()

	rec := samplePlayer()
	e := player.Create(rec, w)
	assert.Equal(t, rec, player.Load(w, e))

	rec.Animation = group.None[Animation]()
	e = player.Create(rec, w)
	assert.Equal(t, rec, player.Load(w, e))
}

func TestLoadSeesDirectModification(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()
	e := player.Create(samplePlayer(), w)

	assert.Equal(t, Position{X: 12, Y: 59}, player.Load(w, e).Position)

	insertComp(t, w, e, Position{X: -3, Y: 4})
	assert.Equal(t, Position{X: -3, Y: 4}, player.Load(w, e).Position)
}

func TestLoadWithoutRequiredComponentPanics(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()
	e := player.Create(samplePlayer(), w)
	removeComp[Health](t, w, e)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		msg := fmt.Sprint(r)
		assert.Contains(t, msg, "bug: expected a")
		assert.Contains(t, msg, "Health")
	}()
	player.Load(w, e)
}

func TestLoadWithoutOptionalComponent(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()
	e := player.Create(samplePlayer(), w)

	assert.Equal(t, group.Some(Animation{Frame: 2}), player.Load(w, e).Animation)

	removeComp[Animation](t, w, e)
	assert.Equal(t, group.None[Animation](), player.Load(w, e).Animation)

	insertComp(t, w, e, Animation{Frame: 7})
	assert.Equal(t, group.Some(Animation{Frame: 7}), player.Load(w, e).Animation)
}

func TestFirstMatchRequiresOnlyRequiredFields(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()

	// nothing in the world yet
	_, _, ok := player.FirstMatch(w)
	assert.False(t, ok)

	// an entity missing a required component is never a candidate
	w.CreateEntity().Attach(Position{X: 1, Y: 1}).Finish()
	_, _, ok = player.FirstMatch(w)
	assert.False(t, ok)

	// an entity missing only the optional component matches, field is None
	w.CreateEntity().Attach(Position{X: 2, Y: 2}).Attach(Health{Points: 9}).Finish()
	e, rec, ok := player.FirstMatch(w)
	require.True(t, ok)
	assert.False(t, e.IsZero())
	assert.Equal(t, Position{X: 2, Y: 2}, rec.Position)
	assert.Equal(t, group.None[Animation](), rec.Animation)
}

func TestFirstMatchTakesFirstInEnumerationOrder(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()

	first := samplePlayer()
	second := samplePlayer()
	second.Position = Position{X: 100, Y: 100}
	e1 := player.Create(first, w)
	e2 := player.Create(second, w)
	require.NotEqual(t, e1, e2)

	// repeated calls in an unchanged world return the same entity
	for i := 0; i < 3; i++ {
		e, rec, ok := player.FirstMatch(w)
		require.True(t, ok)
		assert.Equal(t, e1, e)
		assert.Equal(t, first, rec)
	}

	// both entities are individually loadable
	assert.Equal(t, first, player.Load(w, e1))
	assert.Equal(t, second, player.Load(w, e2))
}

func TestExactlyOne(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()

	_, err := player.ExactlyOne(w)
	assert.ErrorIs(t, err, group.ErrNoMatch)

	player.Create(samplePlayer(), w)
	rec, err := player.ExactlyOne(w)
	require.NoError(t, err)
	assert.Equal(t, samplePlayer(), rec)

	player.Create(samplePlayer(), w)
	_, err = player.ExactlyOne(w)
	assert.ErrorIs(t, err, group.ErrAmbiguous)
}

func TestUpdateOverwrites(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()
	e := player.Create(samplePlayer(), w)
	loaded := player.Load(w, e)

	insertComp(t, w, e, Position{X: 0, Y: 0})
	assert.Equal(t, Position{X: 0, Y: 0}, player.Load(w, e).Position)

	require.NoError(t, player.Update(loaded, w, e))
	assert.Equal(t, loaded, player.Load(w, e))
}

func TestUpdateOptionalField(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()
	rec := samplePlayer()
	e := player.Create(rec, w)

	// Some -> Some overwrites
	rec.Animation = group.Some(Animation{Frame: 9})
	require.NoError(t, player.Update(rec, w, e))
	anim, ok := getComp[Animation](t, w, e)
	require.True(t, ok)
	assert.Equal(t, Animation{Frame: 9}, anim)

	// None removes the component
	rec.Animation = group.None[Animation]()
	require.NoError(t, player.Update(rec, w, e))
	_, ok = getComp[Animation](t, w, e)
	assert.False(t, ok)

	// None again is an idempotent no-op
	inserts := w.InsertCount(reflect.TypeFor[Animation]())
	require.NoError(t, player.Update(rec, w, e))
	_, ok = getComp[Animation](t, w, e)
	assert.False(t, ok)
	assert.Equal(t, inserts, w.InsertCount(reflect.TypeFor[Animation]()))
}

func TestUpdateLeavesNonGroupComponents(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()
	e := player.Create(samplePlayer(), w)
	insertComp(t, w, e, NotInGroup{Tag: "keep"})

	require.NoError(t, player.Update(samplePlayer(), w, e))

	kept, ok := getComp[NotInGroup](t, w, e)
	require.True(t, ok)
	assert.Equal(t, NotInGroup{Tag: "keep"}, kept)
}

func TestUpdateDestroyedEntity(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()
	e := player.Create(samplePlayer(), w)
	w.Destroy(e)

	err := player.Update(samplePlayer(), w, e)
	require.Error(t, err)

	var ue *group.UpdateError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Position", ue.Field) // first field in schema order
	assert.Equal(t, reflect.TypeFor[Position](), ue.Component)
	assert.ErrorIs(t, err, memworld.ErrDeadEntity)
}

func TestRemoveDetachesOnlyGroupComponents(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()
	rec := samplePlayer()
	e := player.Create(rec, w)
	insertComp(t, w, e, NotInGroup{Tag: "keep"})

	removed := player.Remove(w, e)
	assert.Equal(t, rec, removed)

	_, ok := getComp[Position](t, w, e)
	assert.False(t, ok)
	_, ok = getComp[Health](t, w, e)
	assert.False(t, ok)
	_, ok = getComp[Animation](t, w, e)
	assert.False(t, ok)

	kept, ok := getComp[NotInGroup](t, w, e)
	require.True(t, ok)
	assert.Equal(t, NotInGroup{Tag: "keep"}, kept)
}

func TestRemoveWithoutRequiredComponentPanics(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()
	e := player.Create(samplePlayer(), w)
	removeComp[Position](t, w, e)

	assert.Panics(t, func() {
		player.Remove(w, e)
	})
}

func TestRemoveWithoutOptionalComponent(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()
	rec := samplePlayer()
	rec.Animation = group.None[Animation]()
	e := player.Create(rec, w)

	removed := player.Remove(w, e)
	assert.Equal(t, group.None[Animation](), removed.Animation)
}

func TestMoveBetweenWorldsIsolates(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	level1 := memworld.New()
	level2 := memworld.New()

	e1 := player.Create(samplePlayer(), level1)
	moved, err := player.ExactlyOne(level1)
	require.NoError(t, err)
	e2 := player.Create(moved, level2)

	// mutating level 2 must not leak into level 1
	insertComp(t, level2, e2, Position{X: 777, Y: 777})
	assert.Equal(t, Position{X: 12, Y: 59}, player.Load(level1, e1).Position)

	// and the other way around
	insertComp(t, level1, e1, Health{Points: 1})
	assert.Equal(t, Health{Points: 5}, player.Load(level2, e2).Health)
}

func TestUpdateAgainstForeignWorldEntity(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w1 := memworld.New()
	w2 := memworld.New()
	e := player.Create(samplePlayer(), w1)

	err := player.Update(samplePlayer(), w2, e)
	require.Error(t, err)
	assert.ErrorIs(t, err, memworld.ErrForeignEntity)
}

// The concrete scenario from the design discussion: create without animation,
// add one behind the group's back, then update it away again.
func TestOptionalLifecycleScenario(t *testing.T) {
	t.Parallel()

	player := newPlayer(t)
	w := memworld.New()
	rec := samplePlayer()
	rec.Animation = group.None[Animation]()
	e := player.Create(rec, w)

	assert.Equal(t, group.None[Animation](), player.Load(w, e).Animation)

	insertComp(t, w, e, Animation{Frame: 2})
	assert.Equal(t, group.Some(Animation{Frame: 2}), player.Load(w, e).Animation)

	require.NoError(t, player.Update(rec, w, e))
	assert.Equal(t, group.None[Animation](), player.Load(w, e).Animation)
	_, ok := getComp[Animation](t, w, e)
	assert.False(t, ok)
}

func TestUpdateErrorMessage(t *testing.T) {
	t.Parallel()

	err := &group.UpdateError{
		Field:     "Position",
		Component: reflect.TypeFor[Position](),
		Err:       errors.New("boom"),
	}
	assert.Contains(t, err.Error(), "Position")
	assert.Contains(t, err.Error(), "boom")
}
