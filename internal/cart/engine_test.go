package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkart/storefront/internal/domain"
	"github.com/shopkart/storefront/internal/store"
)

func laptop() domain.Product {
	return domain.Product{ID: 1, Name: "Laptop", Price: 100}
}

func TestEngine_AddItemPersists(t *testing.T) {
	mem := store.NewMemoryStore()
	sut := NewEngine(mem)
	ctx := context.Background()

	state := sut.AddItem(ctx, laptop(), 2)
	assert.Equal(t, 2, state.TotalQuantity)
	assert.Equal(t, 200.0, state.TotalAmount)

	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, persisted)
}

func TestEngine_Rehydrate(t *testing.T) {
	mem := store.NewMemoryStore()
	ctx := context.Background()

	first := NewEngine(mem)
	first.AddItem(ctx, laptop(), 3)

	// new engine against the same store sees the persisted cart
	second := NewEngine(mem)
	second.Rehydrate(ctx)

	state := second.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.TotalQuantity)
	assert.Equal(t, 300.0, state.TotalAmount)
}

func TestEngine_RehydrateMissingStartsEmpty(t *testing.T) {
	sut := NewEngine(store.NewMemoryStore())
	sut.Rehydrate(context.Background())

	state := sut.State()
	assert.True(t, state.IsEmpty())
	assert.NotNil(t, state.Items)
}

func TestEngine_PersistFailureDoesNotAbortMutation(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.FailSaves = errors.New("store unavailable")
	sut := NewEngine(mem)
	ctx := context.Background()

	state := sut.AddItem(ctx, laptop(), 1)

	// mutation applied in memory even though persistence failed
	require.Len(t, state.Items, 1)
	assert.Equal(t, 100.0, state.TotalAmount)
	assert.Equal(t, state, sut.State())

	// next successful write catches storage up
	mem.FailSaves = nil
	state = sut.AddItem(ctx, laptop(), 1)
	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, persisted)
}

func TestEngine_ClearPersistsEmpty(t *testing.T) {
	mem := store.NewMemoryStore()
	sut := NewEngine(mem)
	ctx := context.Background()

	sut.AddItem(ctx, laptop(), 2)
	state := sut.Clear(ctx)

	assert.True(t, state.IsEmpty())
	assert.Equal(t, 0, state.TotalQuantity)
	assert.Equal(t, 0.0, state.TotalAmount)

	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.True(t, persisted.IsEmpty())
}

func TestEngine_SequentialMutationsObservePriorResults(t *testing.T) {
	sut := NewEngine(store.NewMemoryStore())
	ctx := context.Background()

	sut.AddItem(ctx, laptop(), 1)
	sut.AddItem(ctx, domain.Product{ID: 2, Name: "Mouse", Price: 25}, 4)
	state := sut.SetQuantity(ctx, 2, 2)

	assert.Equal(t, 3, state.TotalQuantity)
	assert.Equal(t, 150.0, state.TotalAmount)

	state = sut.RemoveItem(ctx, 1)
	assert.Equal(t, 2, state.TotalQuantity)
	assert.Equal(t, 50.0, state.TotalAmount)
}

func TestEngine_StateReturnsCopy(t *testing.T) {
	sut := NewEngine(store.NewMemoryStore())
	ctx := context.Background()
	sut.AddItem(ctx, laptop(), 1)

	state := sut.State()
	state.Items[0].Quantity = 99

	assert.Equal(t, 1, sut.State().Items[0].Quantity)
}
