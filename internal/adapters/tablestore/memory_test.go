package tablestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *MemoryStore {
	return NewMemoryStore("МКД", "Помещения")
}

func TestMemoryStoreFind(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.AppendRow(ctx, "МКД", []string{"id-1", "адрес 1", "ссылка-1"}))
	require.NoError(t, store.AppendRow(ctx, "МКД", []string{"id-2", "адрес 2", "ссылка-2"}))

	row, ok, err := store.Find(ctx, "МКД", "ссылка-2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, row)

	_, ok, err = store.Find(ctx, "МКД", "нет такого")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = store.Find(ctx, "Неизвестная", "x")
	assert.Error(t, err)
}

func TestMemoryStoreFindAll(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.AppendRow(ctx, "Помещения", []string{"r1", "дом-1"}))
	require.NoError(t, store.AppendRow(ctx, "Помещения", []string{"r2", "дом-2"}))
	require.NoError(t, store.AppendRow(ctx, "Помещения", []string{"r3", "дом-1"}))

	matches, err := store.FindAll(ctx, "Помещения", "дом-1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, matches)
}

func TestMemoryStoreReadRowIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.AppendRow(ctx, "МКД", []string{"id-1", "адрес"}))

	cells, err := store.ReadRow(ctx, "МКД", 1)
	require.NoError(t, err)
	cells[0] = "испорчено"

	again, err := store.ReadRow(ctx, "МКД", 1)
	require.NoError(t, err)
	assert.Equal(t, "id-1", again[0], "ReadRow must return a copy")

	_, err = store.ReadRow(ctx, "МКД", 2)
	assert.Error(t, err)
}

func TestMemoryStoreDeleteRenumbers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.AppendRow(ctx, "МКД", []string{"a"}))
	require.NoError(t, store.AppendRow(ctx, "МКД", []string{"b"}))
	require.NoError(t, store.AppendRow(ctx, "МКД", []string{"c"}))

	require.NoError(t, store.DeleteRow(ctx, "МКД", 2))

	// Строки ниже удаленной сдвигаются вверх
	cells, err := store.ReadRow(ctx, "МКД", 2)
	require.NoError(t, err)
	assert.Equal(t, "c", cells[0])
	assert.Equal(t, 2, store.RowCount("МКД"))
}

func TestMemoryStoreDeleteRowRange(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, store.AppendRow(ctx, "Помещения", []string{id}))
	}

	require.NoError(t, store.DeleteRowRange(ctx, "Помещения", 2, 4))

	rows, err := store.Rows(ctx, "Помещения")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0][0])
	assert.Equal(t, "e", rows[1][0])

	assert.Error(t, store.DeleteRowRange(ctx, "Помещения", 2, 3))
}
