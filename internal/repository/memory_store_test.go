package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilyx-net/vector/internal/domain"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryTicketStore()
	ctx := context.Background()

	created, err := store.Create(ctx, "chan-1", "user-1", domain.CategoryBugReport)
	require.NoError(t, err)
	assert.Equal(t, "chan-1", created.ChannelID)
	assert.Equal(t, "user-1", created.OwnerID)
	assert.Equal(t, domain.CategoryBugReport, created.Category)
	assert.False(t, created.Claimed)
	assert.False(t, created.Archived)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.Get(ctx, "chan-1")
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

func TestMemoryStoreDuplicateCreate(t *testing.T) {
	store := NewMemoryTicketStore()
	ctx := context.Background()

	_, err := store.Create(ctx, "chan-1", "user-1", domain.CategoryAppeals)
	require.NoError(t, err)

	_, err = store.Create(ctx, "chan-1", "user-2", domain.CategoryGeneralSupport)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// The original record is untouched.
	got, err := store.Get(ctx, "chan-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.OwnerID)
	assert.Equal(t, domain.CategoryAppeals, got.Category)
}

func TestMemoryStoreSetArchived(t *testing.T) {
	store := NewMemoryTicketStore()
	ctx := context.Background()

	_, err := store.Create(ctx, "chan-1", "user-1", domain.CategoryGeneralSupport)
	require.NoError(t, err)

	require.NoError(t, store.SetArchived(ctx, "chan-1"))

	got, err := store.Get(ctx, "chan-1")
	require.NoError(t, err)
	assert.True(t, got.Archived)
	assert.Equal(t, domain.TicketStateArchived, got.State())

	assert.ErrorIs(t, store.SetArchived(ctx, "chan-missing"), ErrNotFound)
}

func TestMemoryStoreRemove(t *testing.T) {
	store := NewMemoryTicketStore()
	ctx := context.Background()

	_, err := store.Create(ctx, "chan-1", "user-1", domain.CategoryGeneralSupport)
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, "chan-1"))

	_, err = store.Get(ctx, "chan-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Remove(ctx, "chan-1"), ErrNotFound)
}

func TestMemoryStoreListPagination(t *testing.T) {
	store := NewMemoryTicketStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Create(ctx, fmt.Sprintf("chan-%d", i), "user-1", domain.CategoryGeneralSupport)
		require.NoError(t, err)
	}

	all, err := store.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	page, err := store.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := store.List(ctx, 10, 3)
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	empty, err := store.List(ctx, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
