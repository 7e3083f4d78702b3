package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-portfolio/pkg/models"
)

func newTestRepo(t *testing.T) InquiryRepo {
	t.Helper()
	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewInquiryRepository(db)
}

func TestInquiryRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	older := &models.Inquiry{
		ID:        "a",
		Name:      "Ada",
		Email:     "ada@example.com",
		Message:   "Campaign for spring",
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := &models.Inquiry{
		ID:        "b",
		Name:      "Grace",
		Email:     "grace@example.com",
		Message:   "Product stills",
		CreatedAt: time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
	}

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))

		got, err := repo.GetByID(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, older.Email, got.Email)
		assert.True(t, older.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("duplicate id", func(t *testing.T) {
		assert.Error(t, repo.Create(ctx, older))
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		list, err := repo.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "b", list[0].ID)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}
