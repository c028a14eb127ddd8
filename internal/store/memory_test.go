package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignsIDWhenEmpty(t *testing.T) {
	m := NewMemory()

	id, err := m.Create(context.Background(), "", map[string]interface{}{"name": "viewer"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	doc, err := m.Read(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "viewer", doc["name"])
}

func TestCreateMergesAtExistingID(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Create(ctx, "u1", map[string]interface{}{"email": "a@b.co", "role": "user"})
	require.NoError(t, err)

	_, err = m.Create(ctx, "u1", map[string]interface{}{"role": "admin"})
	require.NoError(t, err)

	doc, err := m.Read(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", doc["email"], "merge must keep untouched fields")
	assert.Equal(t, "admin", doc["role"])
}

func TestReadMissingReturnsNotFound(t *testing.T) {
	m := NewMemory()

	_, err := m.Read(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMissingFails(t *testing.T) {
	m := NewMemory()

	err := m.Update(context.Background(), "nope", map[string]interface{}{"x": 1})
	require.Error(t, err)

	var storeErr *Error
	assert.ErrorAs(t, err, &storeErr)
}

func TestFindByFieldEmptyCollection(t *testing.T) {
	m := NewMemory()

	doc, err := m.FindByField(context.Background(), "email", "a@b.co")
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByFieldReturnsMatch(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Create(ctx, "u1", map[string]interface{}{"email": "a@b.co"})
	require.NoError(t, err)
	_, err = m.Create(ctx, "u2", map[string]interface{}{"email": "c@d.co"})
	require.NoError(t, err)

	doc, err := m.FindByField(ctx, "email", "c@d.co")
	require.NoError(t, err)
	assert.Equal(t, "u2", doc.ID)
}

func TestDeleteAbsentIsNoError(t *testing.T) {
	m := NewMemory()

	assert.NoError(t, m.Delete(context.Background(), "nope"))
}
